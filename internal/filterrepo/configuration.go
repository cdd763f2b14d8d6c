package filterrepo

// Configuration controls where git-filter-repo is fetched from and installed to.
type Configuration struct {
	DownloadURL         string `mapstructure:"download_url"`
	InstallDirectory    string `mapstructure:"install_directory"`
	UserBinaryDirectory string `mapstructure:"user_bin_directory"`
}

const (
	defaultDownloadURLConstant         = "https://raw.githubusercontent.com/newren/git-filter-repo/main/git-filter-repo"
	defaultInstallDirectoryConstant    = "/usr/local/bin"
	defaultUserBinaryDirectoryConstant = "~/.local/bin"
)

// DefaultConfiguration returns the standard download location and install directories.
func DefaultConfiguration() Configuration {
	return Configuration{
		DownloadURL:         defaultDownloadURLConstant,
		InstallDirectory:    defaultInstallDirectoryConstant,
		UserBinaryDirectory: defaultUserBinaryDirectoryConstant,
	}
}

// Sanitize fills empty values with defaults.
func (configuration Configuration) Sanitize() Configuration {
	defaults := DefaultConfiguration()
	sanitized := configuration
	if len(sanitized.DownloadURL) == 0 {
		sanitized.DownloadURL = defaults.DownloadURL
	}
	if len(sanitized.InstallDirectory) == 0 {
		sanitized.InstallDirectory = defaults.InstallDirectory
	}
	if len(sanitized.UserBinaryDirectory) == 0 {
		sanitized.UserBinaryDirectory = defaults.UserBinaryDirectory
	}
	return sanitized
}
