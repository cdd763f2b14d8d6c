package execshell

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/temirov/gitcheat/internal/gitrepo"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	fallbackUnknownValueLabelConstant       = "unknown"
	redactedCallbackTemplateConstant        = "<commit callback: %d lines>"
	callbackLineSeparatorConstant           = "\n"
)

const (
	gitCloneSubcommandNameConstant  = "clone"
	gitRemoteSubcommandNameConstant = "remote"
	gitRemoteAddSubcommandConstant  = "add"
	gitPushSubcommandNameConstant   = "push"
	gitMirrorFlagConstant           = "--mirror"
	commitCallbackFlagConstant      = "--commit-callback"
	pipInstallSubcommandConstant    = "install"
	curlOutputFlagConstant          = "-o"
	sudoMoveSubcommandConstant      = "mv"
	flagPrefixConstant              = "-"
)

const (
	gitCloneStartTemplateConstant                 = "Cloning %s as a bare mirror into %s"
	gitCloneSuccessTemplateConstant               = "Cloned %s into %s"
	gitCloneFailureTemplateConstant               = "Failed to clone %s into %s (exit code %d%s)"
	gitCloneExecutionFailureTemplateConstant      = "Unable to clone %s into %s: %s"
	gitRemoteAddStartTemplateConstant             = "Adding remote %s pointing to %s"
	gitRemoteAddSuccessTemplateConstant           = "Remote %s now points to %s"
	gitRemoteAddFailureTemplateConstant           = "Failed to add remote %s pointing to %s (exit code %d%s)"
	gitRemoteAddExecutionFailureTemplateConstant  = "Unable to add remote %s pointing to %s: %s"
	gitMirrorPushStartTemplateConstant            = "Pushing all branches and tags to %s"
	gitMirrorPushSuccessTemplateConstant          = "Pushed all branches and tags to %s"
	gitMirrorPushFailureTemplateConstant          = "Failed to push branches and tags to %s (exit code %d%s)"
	gitMirrorPushExecutionFailureTemplateConstant = "Unable to push branches and tags to %s: %s"
	filterRepoStartTemplateConstant               = "Rewriting commit history in %s"
	filterRepoSuccessTemplateConstant             = "Rewrote commit history in %s"
	filterRepoFailureTemplateConstant             = "Failed to rewrite commit history in %s (exit code %d%s)"
	filterRepoExecutionFailureTemplateConstant    = "Unable to rewrite commit history in %s: %s"
	pipInstallStartTemplateConstant               = "Installing %s with pip"
	pipInstallSuccessTemplateConstant             = "Installed %s with pip"
	pipInstallFailureTemplateConstant             = "Failed to install %s with pip (exit code %d%s)"
	pipInstallExecutionFailureTemplateConstant    = "Unable to install %s with pip: %s"
	curlDownloadStartTemplateConstant             = "Downloading %s"
	curlDownloadSuccessTemplateConstant           = "Downloaded %s"
	curlDownloadFailureTemplateConstant           = "Failed to download %s (exit code %d%s)"
	curlDownloadExecutionFailureTemplateConstant  = "Unable to download %s: %s"
	sudoMoveStartTemplateConstant                 = "Installing %s into %s"
	sudoMoveSuccessTemplateConstant               = "Installed %s into %s"
	sudoMoveFailureTemplateConstant               = "Failed to install %s into %s (exit code %d%s)"
	sudoMoveExecutionFailureTemplateConstant      = "Unable to install %s into %s: %s"
)

type stageTemplates struct {
	start            string
	success          string
	failure          string
	executionFailure string
}

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	switch {
	case command.Name == CommandGit:
		return formatter.describeGitMessage(command, result, failure, stage)
	case command.Name == CommandFilterRepo || filepath.Base(string(command.Name)) == string(CommandFilterRepo):
		templates := stageTemplates{filterRepoStartTemplateConstant, filterRepoSuccessTemplateConstant, filterRepoFailureTemplateConstant, filterRepoExecutionFailureTemplateConstant}
		return formatter.render(templates, []any{formatter.describeWorkingDirectory(command)}, result, failure, stage)
	case command.Name == CommandPip && formatter.argumentAtIndex(arguments, 0) == pipInstallSubcommandConstant:
		templates := stageTemplates{pipInstallStartTemplateConstant, pipInstallSuccessTemplateConstant, pipInstallFailureTemplateConstant, pipInstallExecutionFailureTemplateConstant}
		return formatter.render(templates, []any{formatter.lastNonFlagArgument(arguments[1:])}, result, failure, stage)
	case command.Name == CommandCurl:
		templates := stageTemplates{curlDownloadStartTemplateConstant, curlDownloadSuccessTemplateConstant, curlDownloadFailureTemplateConstant, curlDownloadExecutionFailureTemplateConstant}
		return formatter.render(templates, []any{formatter.lastNonFlagArgument(formatter.withoutFlagValue(arguments, curlOutputFlagConstant))}, result, failure, stage)
	case command.Name == CommandSudo && formatter.argumentAtIndex(arguments, 0) == sudoMoveSubcommandConstant && len(arguments) >= 3:
		templates := stageTemplates{sudoMoveStartTemplateConstant, sudoMoveSuccessTemplateConstant, sudoMoveFailureTemplateConstant, sudoMoveExecutionFailureTemplateConstant}
		return formatter.render(templates, []any{filepath.Base(arguments[1]), arguments[2]}, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	switch formatter.argumentAtIndex(arguments, 0) {
	case gitCloneSubcommandNameConstant:
		positional := formatter.positionalArguments(arguments[1:])
		source := gitrepo.RedactLocator(formatter.argumentAtIndex(positional, 0))
		destination := formatter.argumentAtIndex(positional, 1)
		templates := stageTemplates{gitCloneStartTemplateConstant, gitCloneSuccessTemplateConstant, gitCloneFailureTemplateConstant, gitCloneExecutionFailureTemplateConstant}
		return formatter.render(templates, []any{formatter.ensureValue(source), formatter.ensureValue(destination)}, result, failure, stage)
	case gitRemoteSubcommandNameConstant:
		if formatter.argumentAtIndex(arguments, 1) != gitRemoteAddSubcommandConstant {
			break
		}
		templates := stageTemplates{gitRemoteAddStartTemplateConstant, gitRemoteAddSuccessTemplateConstant, gitRemoteAddFailureTemplateConstant, gitRemoteAddExecutionFailureTemplateConstant}
		remoteName := formatter.ensureValue(formatter.argumentAtIndex(arguments, 2))
		remoteLocator := formatter.ensureValue(gitrepo.RedactLocator(formatter.argumentAtIndex(arguments, 3)))
		return formatter.render(templates, []any{remoteName, remoteLocator}, result, failure, stage)
	case gitPushSubcommandNameConstant:
		if !containsArgument(arguments, gitMirrorFlagConstant) {
			break
		}
		templates := stageTemplates{gitMirrorPushStartTemplateConstant, gitMirrorPushSuccessTemplateConstant, gitMirrorPushFailureTemplateConstant, gitMirrorPushExecutionFailureTemplateConstant}
		remoteName := formatter.ensureValue(formatter.lastNonFlagArgument(arguments[1:]))
		return formatter.render(templates, []any{remoteName}, result, failure, stage)
	}
	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) render(templates stageTemplates, values []any, result ExecutionResult, failure error, stage messageStage) string {
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, values...)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, values...)
	case messageStageFailure:
		failureValues := append(append([]any{}, values...), result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		return fmt.Sprintf(templates.failure, failureValues...)
	default:
		executionValues := append(append([]any{}, values...), formatter.describeFailure(failure))
		return fmt.Sprintf(templates.executionFailure, executionValues...)
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandParts := append([]string{string(command.Name)}, formatter.redactArguments(command)...)
	commandLabel := strings.Join(commandParts, commandArgumentsJoinSeparatorConstant)
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return commandLabel
	}
	return commandLabel + fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

// redactArguments hides the commit callback body and credentials embedded in locators.
func (formatter CommandMessageFormatter) redactArguments(command ShellCommand) []string {
	redacted := make([]string, 0, len(command.Details.Arguments))
	for argumentIndex, argument := range command.Details.Arguments {
		if argumentIndex > 0 && command.Details.Arguments[argumentIndex-1] == commitCallbackFlagConstant {
			lineCount := len(strings.Split(strings.TrimSpace(argument), callbackLineSeparatorConstant))
			redacted = append(redacted, fmt.Sprintf(redactedCallbackTemplateConstant, lineCount))
			continue
		}
		redacted = append(redacted, gitrepo.RedactLocator(argument))
	}
	return redacted
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return ""
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	return formatter.ensureValue(strings.TrimSpace(command.Details.WorkingDirectory))
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index < 0 || index >= len(arguments) {
		return ""
	}
	return strings.TrimSpace(arguments[index])
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	if len(strings.TrimSpace(value)) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return value
}

func (formatter CommandMessageFormatter) positionalArguments(arguments []string) []string {
	positional := make([]string, 0, len(arguments))
	for _, argument := range arguments {
		if strings.HasPrefix(argument, flagPrefixConstant) {
			continue
		}
		positional = append(positional, argument)
	}
	return positional
}

func (formatter CommandMessageFormatter) lastNonFlagArgument(arguments []string) string {
	positional := formatter.positionalArguments(arguments)
	if len(positional) == 0 {
		return ""
	}
	return positional[len(positional)-1]
}

func (formatter CommandMessageFormatter) withoutFlagValue(arguments []string, flag string) []string {
	filtered := make([]string, 0, len(arguments))
	for argumentIndex := 0; argumentIndex < len(arguments); argumentIndex++ {
		if arguments[argumentIndex] == flag {
			argumentIndex++
			continue
		}
		filtered = append(filtered, arguments[argumentIndex])
	}
	return filtered
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}
