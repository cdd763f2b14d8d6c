package gitrepo

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const (
	httpProtocolPrefixConstant   = "http://"
	httpsProtocolPrefixConstant  = "https://"
	gitUserPrefixConstant        = "git@"
	gitSuffixConstant            = ".git"
	sshPathDelimiterConstant     = ":"
	locatorErrorTemplateConstant = "invalid repository URL %q: %s"
	emptyLocatorMessageConstant  = "value is required"
	unsupportedLocatorMessage    = "must start with http://, https://, or git@"
	currentDirectoryNameConstant = "."
	parentDirectoryNameConstant  = ".."
	schemeSeparatorConstant      = "://"
	redactedPasswordConstant     = "xxxxx"
)

var (
	trailingSegmentPattern = regexp.MustCompile(`/([^/]+?)(\.git)?$`)
	githubSegmentPattern   = regexp.MustCompile(`github\.com/[^/]+/([^/.]+)`)
)

// Locator is a textual reference to a remote repository.
type Locator string

// LocatorError reports a locator that cannot be used for a transfer.
type LocatorError struct {
	Locator string
	Message string
}

// Error describes the invalid locator.
func (locatorError LocatorError) Error() string {
	return fmt.Sprintf(locatorErrorTemplateConstant, RedactLocator(locatorError.Locator), locatorError.Message)
}

// ParseLocator trims the candidate and validates its prefix.
func ParseLocator(candidate string) (Locator, error) {
	trimmed := strings.TrimSpace(candidate)
	if len(trimmed) == 0 {
		return "", LocatorError{Locator: candidate, Message: emptyLocatorMessageConstant}
	}
	if !strings.HasPrefix(trimmed, httpProtocolPrefixConstant) &&
		!strings.HasPrefix(trimmed, httpsProtocolPrefixConstant) &&
		!strings.HasPrefix(trimmed, gitUserPrefixConstant) {
		return "", LocatorError{Locator: candidate, Message: unsupportedLocatorMessage}
	}
	return Locator(trimmed), nil
}

// String returns the locator text.
func (locator Locator) String() string {
	return string(locator)
}

// Redacted returns the locator with any embedded password masked.
func (locator Locator) Redacted() string {
	return RedactLocator(string(locator))
}

// RedactLocator masks the password of a URL locator so it can be logged.
// Values that are not URLs with credentials are returned unchanged.
func RedactLocator(locator string) string {
	if !strings.Contains(locator, schemeSeparatorConstant) {
		return locator
	}
	parsedURL, parseError := url.Parse(locator)
	if parseError != nil || parsedURL.User == nil {
		return locator
	}
	if _, hasPassword := parsedURL.User.Password(); hasPassword {
		parsedURL.User = url.UserPassword(parsedURL.User.Username(), redactedPasswordConstant)
	}
	return parsedURL.String()
}

// RepositoryName derives the repository name from the final path segment with
// any trailing .git removed. The boolean is false when no usable name exists.
func (locator Locator) RepositoryName() (string, bool) {
	return ExtractRepositoryName(string(locator))
}

// ExtractRepositoryName derives a repository name from a locator string.
func ExtractRepositoryName(locator string) (string, bool) {
	trimmed := strings.TrimSpace(locator)

	if match := trailingSegmentPattern.FindStringSubmatch(trimmed); match != nil {
		return acceptRepositoryName(match[1])
	}

	if match := githubSegmentPattern.FindStringSubmatch(trimmed); match != nil {
		return acceptRepositoryName(match[1])
	}

	if strings.HasPrefix(trimmed, gitUserPrefixConstant) {
		delimiterIndex := strings.LastIndex(trimmed, sshPathDelimiterConstant)
		if delimiterIndex >= 0 {
			return acceptRepositoryName(trimmed[delimiterIndex+1:])
		}
	}

	return "", false
}

func acceptRepositoryName(candidate string) (string, bool) {
	name := strings.TrimSuffix(strings.TrimSpace(candidate), gitSuffixConstant)
	if len(name) == 0 || name == currentDirectoryNameConstant || name == parentDirectoryNameConstant {
		return "", false
	}
	return name, true
}

// WorkspaceDirectoryName returns the bare clone directory name for a repository.
func WorkspaceDirectoryName(repositoryName string) string {
	return repositoryName + gitSuffixConstant
}
