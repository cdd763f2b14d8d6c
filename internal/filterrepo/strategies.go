package filterrepo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/gitcheat/internal/execshell"
)

const (
	installedStrategyNameConstant          = "installed"
	packageManagerStrategyNameConstant     = "package-manager"
	directDownloadStrategyNameConstant     = "direct-download"
	pipInstallSubcommandConstant           = "install"
	pipUserFlagConstant                    = "--user"
	curlFailFlagConstant                   = "-fsSL"
	curlOutputFlagConstant                 = "-o"
	moveCommandConstant                    = "mv"
	pathEnvironmentVariableConstant        = "PATH"
	downloadDirectoryPatternConstant       = "gitcheat-filter-repo-"
	executablePermissionsConstant          = os.FileMode(0o755)
	executorMissingMessageConstant         = "command executor not configured"
	pipInstallErrorTemplateConstant        = "pip install failed: %w"
	userBinaryResolveErrorTemplate         = "unable to resolve user binary directory: %w"
	pathUpdateErrorTemplateConstant        = "unable to update PATH: %w"
	temporaryDirectoryErrorTemplate        = "unable to create download directory: %w"
	downloadErrorTemplateConstant          = "download failed: %w"
	permissionsErrorTemplateConstant       = "unable to mark download executable: %w"
	installMoveErrorTemplateConstant       = "unable to install into %s: %w"
	downloadURLMissingMessageConstant      = "download URL not configured"
	installDirectoryMissingMessageConstant = "install directory not configured"
)

var (
	errExecutorMissing         = errors.New(executorMissingMessageConstant)
	errDownloadURLMissing      = errors.New(downloadURLMissingMessageConstant)
	errInstallDirectoryMissing = errors.New(installDirectoryMissingMessageConstant)
)

// PackageInstaller runs pip.
type PackageInstaller interface {
	ExecutePip(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// DownloadExecutor runs curl and sudo.
type DownloadExecutor interface {
	ExecuteCurl(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteSudo(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// PathResolver expands configured directories such as ~/.local/bin.
type PathResolver interface {
	ExpandAbsolute(candidatePath string) (string, error)
}

// Environment reads and writes process environment variables.
type Environment struct {
	Get func(key string) string
	Set func(key string, value string) error
}

// ProcessEnvironment operates on the current process environment.
func ProcessEnvironment() Environment {
	return Environment{Get: os.Getenv, Set: os.Setenv}
}

// InstalledStrategy takes no action; it succeeds when the tool is already on PATH.
type InstalledStrategy struct{}

// Name identifies the strategy.
func (InstalledStrategy) Name() string {
	return installedStrategyNameConstant
}

// Acquire does nothing.
func (InstalledStrategy) Acquire(context.Context) error {
	return nil
}

// PackageManagerStrategy installs the tool with pip into the user site and
// prepends the user binary directory to PATH.
type PackageManagerStrategy struct {
	Installer           PackageInstaller
	PathResolver        PathResolver
	Environment         Environment
	UserBinaryDirectory string
}

// Name identifies the strategy.
func (strategy PackageManagerStrategy) Name() string {
	return packageManagerStrategyNameConstant
}

// Acquire runs pip install --user git-filter-repo.
func (strategy PackageManagerStrategy) Acquire(executionContext context.Context) error {
	if strategy.Installer == nil {
		return errExecutorMissing
	}

	_, installError := strategy.Installer.ExecutePip(executionContext, execshell.CommandDetails{
		Arguments: []string{pipInstallSubcommandConstant, pipUserFlagConstant, ToolName},
	})
	prependError := strategy.prependUserBinaryDirectory()
	if installError != nil {
		return errors.Join(fmt.Errorf(pipInstallErrorTemplateConstant, installError), prependError)
	}

	return prependError
}

func (strategy PackageManagerStrategy) prependUserBinaryDirectory() error {
	if len(strings.TrimSpace(strategy.UserBinaryDirectory)) == 0 {
		return nil
	}

	userBinaryDirectory := strategy.UserBinaryDirectory
	if strategy.PathResolver != nil {
		resolvedDirectory, resolveError := strategy.PathResolver.ExpandAbsolute(userBinaryDirectory)
		if resolveError != nil {
			return fmt.Errorf(userBinaryResolveErrorTemplate, resolveError)
		}
		userBinaryDirectory = resolvedDirectory
	}

	directoryInfo, statError := os.Stat(userBinaryDirectory)
	if statError != nil || !directoryInfo.IsDir() {
		return nil
	}

	environment := strategy.Environment
	if environment.Get == nil || environment.Set == nil {
		environment = ProcessEnvironment()
	}

	currentPath := environment.Get(pathEnvironmentVariableConstant)
	for _, pathEntry := range filepath.SplitList(currentPath) {
		if filepath.Clean(pathEntry) == filepath.Clean(userBinaryDirectory) {
			return nil
		}
	}

	updatedPath := userBinaryDirectory
	if len(currentPath) > 0 {
		updatedPath = userBinaryDirectory + string(os.PathListSeparator) + currentPath
	}
	if setError := environment.Set(pathEnvironmentVariableConstant, updatedPath); setError != nil {
		return fmt.Errorf(pathUpdateErrorTemplateConstant, setError)
	}
	return nil
}

// DirectDownloadStrategy fetches the script with curl and installs it with sudo.
type DirectDownloadStrategy struct {
	Executor         DownloadExecutor
	DownloadURL      string
	InstallDirectory string
}

// Name identifies the strategy.
func (strategy DirectDownloadStrategy) Name() string {
	return directDownloadStrategyNameConstant
}

// Acquire downloads git-filter-repo into a temporary directory, marks it
// executable, and moves it into the install directory.
func (strategy DirectDownloadStrategy) Acquire(executionContext context.Context) error {
	if strategy.Executor == nil {
		return errExecutorMissing
	}
	if len(strings.TrimSpace(strategy.DownloadURL)) == 0 {
		return errDownloadURLMissing
	}
	if len(strings.TrimSpace(strategy.InstallDirectory)) == 0 {
		return errInstallDirectoryMissing
	}

	downloadDirectory, directoryError := os.MkdirTemp("", downloadDirectoryPatternConstant)
	if directoryError != nil {
		return fmt.Errorf(temporaryDirectoryErrorTemplate, directoryError)
	}
	defer os.RemoveAll(downloadDirectory)

	downloadPath := filepath.Join(downloadDirectory, ToolName)
	_, downloadError := strategy.Executor.ExecuteCurl(executionContext, execshell.CommandDetails{
		Arguments: []string{curlFailFlagConstant, curlOutputFlagConstant, downloadPath, strategy.DownloadURL},
	})
	if downloadError != nil {
		return fmt.Errorf(downloadErrorTemplateConstant, downloadError)
	}

	if chmodError := os.Chmod(downloadPath, executablePermissionsConstant); chmodError != nil {
		return fmt.Errorf(permissionsErrorTemplateConstant, chmodError)
	}

	installPath := filepath.Join(strategy.InstallDirectory, ToolName)
	_, moveError := strategy.Executor.ExecuteSudo(executionContext, execshell.CommandDetails{
		Arguments: []string{moveCommandConstant, downloadPath, installPath},
	})
	if moveError != nil {
		return fmt.Errorf(installMoveErrorTemplateConstant, strategy.InstallDirectory, moveError)
	}
	return nil
}

// CommandExecutor satisfies every strategy that runs external commands.
type CommandExecutor interface {
	PackageInstaller
	DownloadExecutor
}

// DefaultStrategies returns the standard acquisition order.
func DefaultStrategies(executor CommandExecutor, configuration Configuration, pathResolver PathResolver) []AcquisitionStrategy {
	sanitized := configuration.Sanitize()
	return []AcquisitionStrategy{
		InstalledStrategy{},
		PackageManagerStrategy{
			Installer:           executor,
			PathResolver:        pathResolver,
			Environment:         ProcessEnvironment(),
			UserBinaryDirectory: sanitized.UserBinaryDirectory,
		},
		DirectDownloadStrategy{
			Executor:         executor,
			DownloadURL:      sanitized.DownloadURL,
			InstallDirectory: sanitized.InstallDirectory,
		},
	}
}
