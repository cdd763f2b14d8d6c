package transfer

import (
	"strings"

	"github.com/temirov/gitcheat/internal/filterrepo"
	"github.com/temirov/gitcheat/internal/rewrite"
)

// CommandConfiguration captures persisted configuration for the transfer command.
type CommandConfiguration struct {
	AuthorName       string                   `mapstructure:"author_name"`
	AuthorEmail      string                   `mapstructure:"author_email"`
	WorkspaceRoot    string                   `mapstructure:"workspace_root"`
	RemoteName       string                   `mapstructure:"remote_name"`
	Replacements     rewrite.SubstitutionSet  `mapstructure:"replacements"`
	ReplacementsFile string                   `mapstructure:"replacements_file"`
	FilterRepo       filterrepo.Configuration `mapstructure:"filter_repo"`
}

// DefaultCommandConfiguration returns baseline configuration values for transfers.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		WorkspaceRoot: defaultWorkspaceRootConstant,
		RemoteName:    defaultRemoteNameConstant,
		FilterRepo:    filterrepo.DefaultConfiguration(),
	}
}

// Sanitize trims configured values and fills missing defaults.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration
	sanitized.AuthorName = strings.TrimSpace(configuration.AuthorName)
	sanitized.AuthorEmail = strings.TrimSpace(configuration.AuthorEmail)
	sanitized.WorkspaceRoot = strings.TrimSpace(configuration.WorkspaceRoot)
	if len(sanitized.WorkspaceRoot) == 0 {
		sanitized.WorkspaceRoot = defaults.WorkspaceRoot
	}
	sanitized.RemoteName = strings.TrimSpace(configuration.RemoteName)
	if len(sanitized.RemoteName) == 0 {
		sanitized.RemoteName = defaults.RemoteName
	}
	sanitized.ReplacementsFile = strings.TrimSpace(configuration.ReplacementsFile)
	sanitized.FilterRepo = configuration.FilterRepo.Sanitize()
	return sanitized
}

const (
	configurationKeySeparatorConstant          = "."
	authorNameConfigurationKeyConstant         = "author_name"
	authorEmailConfigurationKeyConstant        = "author_email"
	replacementsConfigurationKeyConstant       = "replacements"
	replacementsFileConfigurationKeyConstant   = "replacements_file"
	workspaceRootConfigurationKeyConstant      = "workspace_root"
	remoteNameConfigurationKeyConstant         = "remote_name"
	filterRepoDownloadURLConfigurationKey      = "filter_repo.download_url"
	filterRepoInstallDirectoryConfigurationKey = "filter_repo.install_directory"
	filterRepoUserBinaryConfigurationKey       = "filter_repo.user_bin_directory"
)

// DefaultConfigurationValues returns default configuration values keyed under prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		prefix + configurationKeySeparatorConstant + authorNameConfigurationKeyConstant:         defaults.AuthorName,
		prefix + configurationKeySeparatorConstant + authorEmailConfigurationKeyConstant:        defaults.AuthorEmail,
		prefix + configurationKeySeparatorConstant + replacementsConfigurationKeyConstant:       []any{},
		prefix + configurationKeySeparatorConstant + replacementsFileConfigurationKeyConstant:   defaults.ReplacementsFile,
		prefix + configurationKeySeparatorConstant + workspaceRootConfigurationKeyConstant:      defaults.WorkspaceRoot,
		prefix + configurationKeySeparatorConstant + remoteNameConfigurationKeyConstant:         defaults.RemoteName,
		prefix + configurationKeySeparatorConstant + filterRepoDownloadURLConfigurationKey:      defaults.FilterRepo.DownloadURL,
		prefix + configurationKeySeparatorConstant + filterRepoInstallDirectoryConfigurationKey: defaults.FilterRepo.InstallDirectory,
		prefix + configurationKeySeparatorConstant + filterRepoUserBinaryConfigurationKey:       defaults.FilterRepo.UserBinaryDirectory,
	}
}
