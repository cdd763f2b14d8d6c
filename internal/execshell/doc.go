// Package execshell provides structured helpers for invoking external tools.
//
// ShellExecutor wraps a CommandRunner with zap logging and typed failures,
// and OSCommandRunner is the default os/exec backed runner. gitcheat uses it
// to drive git, git-filter-repo, pip, curl, and sudo in a testable manner.
package execshell
