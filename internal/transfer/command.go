package transfer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitcheat/internal/execshell"
	"github.com/temirov/gitcheat/internal/filterrepo"
	"github.com/temirov/gitcheat/internal/gitrepo"
	"github.com/temirov/gitcheat/internal/rewrite"
	"github.com/temirov/gitcheat/internal/ui"
	pathutils "github.com/temirov/gitcheat/internal/utils/path"
)

const (
	commandUseConstant                   = "transfer [source] [destination]"
	commandShortDescriptionConstant      = "Move a repository's history to a new remote under a new author"
	commandLongDescriptionConstant       = "transfer clones the source repository as a bare mirror, rewrites the author and committer of every commit with git-filter-repo, optionally replaces text in commit messages, and mirror-pushes every branch and tag to the destination."
	sourceFlagNameConstant               = "source"
	sourceFlagUsageConstant              = "URL of the repository to copy (http://, https://, or git@)"
	destinationFlagNameConstant          = "destination"
	destinationFlagUsageConstant         = "URL of the repository receiving the rewritten history"
	authorNameFlagNameConstant           = "author-name"
	authorNameFlagUsageConstant          = "Name written as author and committer of every commit"
	authorEmailFlagNameConstant          = "author-email"
	authorEmailFlagUsageConstant         = "Email written as author and committer of every commit"
	replaceFlagNameConstant              = "replace"
	replaceFlagUsageConstant             = "Commit message replacement in old=new form (repeatable, applied in order)"
	replacementsFileFlagNameConstant     = "replacements-file"
	replacementsFileFlagUsageConstant    = "YAML file listing ordered {old, new} commit message replacements"
	workspaceFlagNameConstant            = "workspace"
	workspaceFlagUsageConstant           = "Directory that holds the temporary bare clone"
	remoteNameFlagNameConstant           = "remote-name"
	remoteNameFlagUsageConstant          = "Name of the remote registered for the destination"
	missingValuesTemplateConstant        = "missing required values: %s"
	missingValueFlagTemplateConstant     = "--%s"
	missingValuesSeparatorConstant       = ", "
	workspaceResolveErrorTemplate        = "unable to resolve workspace %s: %w"
	substitutionFlagErrorTemplate        = "invalid --%s value: %w"
	sourcePromptConstant                 = "Enter the URL of the old repository: "
	destinationPromptConstant            = "Enter the URL of the new repository: "
	authorNamePromptConstant             = "Enter the new author's name: "
	authorEmailPromptConstant            = "Enter the new author's email: "
	replaceConfirmationPromptConstant    = "Do you want to replace text in commit messages? (yes/no): "
	replaceOldTextPromptConstant         = "Enter the text to replace in commit messages: "
	replaceNewTextPromptConstant         = "Enter the replacement text: "
	replacementAddedTemplateConstant     = "Added replacement: %s"
	replacementRejectedMessageConstant   = "The text to replace must not be empty; replacement skipped."
	replacementsApplyingTemplateConstant = "Applying %d text replacements in commit messages..."
	logMessageTransferFailedConstant     = "Repository transfer failed"
	logMessageTransferSkippedConstant    = "Repository transfer skipped"
	logFieldErrorSourceConstant          = "source"
	maximumPositionalArgumentsConstant   = 2
	sourceArgumentIndexConstant          = 0
	destinationArgumentIndexConstant     = 1
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ShellExecutor runs every external command a transfer needs.
type ShellExecutor interface {
	CommandExecutor
	filterrepo.CommandExecutor
}

// CommandBuilder assembles the transfer Cobra command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	Executor                     ShellExecutor
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	InteractiveProvider          func() bool
	ToolLocator                  filterrepo.ToolLocator
	ReferenceInspector           ReferenceInspector
	PathResolver                 *pathutils.HomeExpander
}

type commandOptions struct {
	transferOptions  TransferOptions
	filterRepo       filterrepo.Configuration
	substitutionsSet bool
}

// Build constructs the transfer command.
func (builder *CommandBuilder) Build() *cobra.Command {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.MaximumNArgs(maximumPositionalArgumentsConstant),
		RunE:          builder.run,
	}

	command.Flags().String(sourceFlagNameConstant, "", sourceFlagUsageConstant)
	command.Flags().String(destinationFlagNameConstant, "", destinationFlagUsageConstant)
	command.Flags().String(authorNameFlagNameConstant, "", authorNameFlagUsageConstant)
	command.Flags().String(authorEmailFlagNameConstant, "", authorEmailFlagUsageConstant)
	command.Flags().StringArray(replaceFlagNameConstant, nil, replaceFlagUsageConstant)
	command.Flags().String(replacementsFileFlagNameConstant, "", replacementsFileFlagUsageConstant)
	command.Flags().String(workspaceFlagNameConstant, "", workspaceFlagUsageConstant)
	command.Flags().String(remoteNameFlagNameConstant, "", remoteNameFlagUsageConstant)

	return command
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	options, optionsError := builder.parseOptions(command, arguments)
	if optionsError != nil {
		return optionsError
	}

	if builder.isInteractive() {
		prompter := NewIOPrompter(command.InOrStdin(), command.OutOrStdout())
		if promptError := builder.promptForMissingValues(prompter, &options); promptError != nil {
			return promptError
		}
	} else if missingError := requireValues(options.transferOptions); missingError != nil {
		return missingError
	}

	logger := builder.resolveLogger()

	executor, executorError := builder.resolveExecutor(logger)
	if executorError != nil {
		return executorError
	}

	provisioner := filterrepo.NewProvisioner(logger, builder.ToolLocator, filterrepo.DefaultStrategies(executor, options.filterRepo, builder.resolvePathResolver())...)

	service, serviceError := NewService(ServiceDependencies{
		Logger:      logger,
		Executor:    executor,
		Provisioner: provisioner,
		Inspector:   builder.ReferenceInspector,
	})
	if serviceError != nil {
		return serviceError
	}

	result, transferError := service.Execute(command.Context(), options.transferOptions)
	if transferError != nil {
		logger.Error(logMessageTransferFailedConstant, zap.String(logFieldErrorSourceConstant, gitrepo.RedactLocator(options.transferOptions.SourceLocator)), zap.Error(transferError))
		return transferError
	}
	if result.Skipped {
		logger.Warn(logMessageTransferSkippedConstant, zap.String(logFieldErrorSourceConstant, gitrepo.RedactLocator(options.transferOptions.SourceLocator)))
	}
	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, arguments []string) (commandOptions, error) {
	configuration := builder.resolveConfiguration()
	flags := command.Flags()

	sourceLocator := positionalArgument(arguments, sourceArgumentIndexConstant)
	if flags.Changed(sourceFlagNameConstant) {
		sourceLocator, _ = flags.GetString(sourceFlagNameConstant)
	}
	destinationLocator := positionalArgument(arguments, destinationArgumentIndexConstant)
	if flags.Changed(destinationFlagNameConstant) {
		destinationLocator, _ = flags.GetString(destinationFlagNameConstant)
	}

	authorName := configuration.AuthorName
	if flags.Changed(authorNameFlagNameConstant) {
		authorName, _ = flags.GetString(authorNameFlagNameConstant)
	}
	authorEmail := configuration.AuthorEmail
	if flags.Changed(authorEmailFlagNameConstant) {
		authorEmail, _ = flags.GetString(authorEmailFlagNameConstant)
	}

	workspaceRoot := configuration.WorkspaceRoot
	if flags.Changed(workspaceFlagNameConstant) {
		workspaceRoot, _ = flags.GetString(workspaceFlagNameConstant)
	}
	resolvedWorkspaceRoot, workspaceError := builder.resolvePathResolver().ExpandAbsolute(workspaceRoot)
	if workspaceError != nil {
		return commandOptions{}, fmt.Errorf(workspaceResolveErrorTemplate, workspaceRoot, workspaceError)
	}

	remoteName := configuration.RemoteName
	if flags.Changed(remoteNameFlagNameConstant) {
		remoteName, _ = flags.GetString(remoteNameFlagNameConstant)
	}

	substitutions, substitutionsError := builder.collectSubstitutions(command, configuration)
	if substitutionsError != nil {
		return commandOptions{}, substitutionsError
	}

	return commandOptions{
		transferOptions: TransferOptions{
			SourceLocator:      strings.TrimSpace(sourceLocator),
			DestinationLocator: strings.TrimSpace(destinationLocator),
			Identity:           rewrite.Identity{Name: strings.TrimSpace(authorName), Email: strings.TrimSpace(authorEmail)},
			Substitutions:      substitutions,
			WorkspaceRoot:      resolvedWorkspaceRoot,
			RemoteName:         strings.TrimSpace(remoteName),
		},
		filterRepo:       configuration.FilterRepo,
		substitutionsSet: !substitutions.Empty(),
	}, nil
}

// collectSubstitutions concatenates configured, file, and flag substitutions in that order.
func (builder *CommandBuilder) collectSubstitutions(command *cobra.Command, configuration CommandConfiguration) (rewrite.SubstitutionSet, error) {
	flags := command.Flags()
	substitutions := rewrite.SubstitutionSet{}.Append(configuration.Replacements...)

	replacementsFile := configuration.ReplacementsFile
	if flags.Changed(replacementsFileFlagNameConstant) {
		replacementsFile, _ = flags.GetString(replacementsFileFlagNameConstant)
	}
	replacementsFile = strings.TrimSpace(replacementsFile)
	if len(replacementsFile) > 0 {
		fileSubstitutions, loadError := rewrite.LoadSubstitutionFile(builder.resolvePathResolver().Expand(replacementsFile))
		if loadError != nil {
			return nil, loadError
		}
		substitutions = substitutions.Append(fileSubstitutions...)
	}

	specifications, _ := flags.GetStringArray(replaceFlagNameConstant)
	for _, specification := range specifications {
		substitution, parseError := rewrite.ParseSubstitution(specification)
		if parseError != nil {
			return nil, fmt.Errorf(substitutionFlagErrorTemplate, replaceFlagNameConstant, parseError)
		}
		substitutions = substitutions.Append(substitution)
	}

	return substitutions, nil
}

func (builder *CommandBuilder) promptForMissingValues(prompter *IOPrompter, options *commandOptions) error {
	bannerRenderer := ui.NewBannerRenderer()
	if sayError := prompter.Say(bannerRenderer.Banner()); sayError != nil {
		return sayError
	}

	transferOptions := &options.transferOptions
	prompts := []struct {
		target *string
		prompt string
	}{
		{target: &transferOptions.SourceLocator, prompt: sourcePromptConstant},
		{target: &transferOptions.DestinationLocator, prompt: destinationPromptConstant},
		{target: &transferOptions.Identity.Name, prompt: authorNamePromptConstant},
		{target: &transferOptions.Identity.Email, prompt: authorEmailPromptConstant},
	}
	for _, question := range prompts {
		if len(*question.target) > 0 {
			continue
		}
		answer, askError := prompter.Ask(question.prompt)
		if askError != nil {
			return askError
		}
		*question.target = answer
	}

	if options.substitutionsSet {
		return nil
	}

	for {
		confirmed, confirmError := prompter.Confirm(replaceConfirmationPromptConstant)
		if confirmError != nil {
			return confirmError
		}
		if !confirmed {
			break
		}

		oldText, oldTextError := prompter.Ask(replaceOldTextPromptConstant)
		if oldTextError != nil {
			return oldTextError
		}
		newText, newTextError := prompter.Ask(replaceNewTextPromptConstant)
		if newTextError != nil && !errors.Is(newTextError, io.ErrUnexpectedEOF) {
			return newTextError
		}

		substitution := rewrite.Substitution{Old: oldText, New: newText}
		if len(substitution.Old) == 0 {
			if sayError := prompter.Say(replacementRejectedMessageConstant); sayError != nil {
				return sayError
			}
			continue
		}
		transferOptions.Substitutions = transferOptions.Substitutions.Append(substitution)
		if sayError := prompter.Say(bannerRenderer.Notice(fmt.Sprintf(replacementAddedTemplateConstant, substitution))); sayError != nil {
			return sayError
		}
	}

	if !transferOptions.Substitutions.Empty() {
		return prompter.Say(fmt.Sprintf(replacementsApplyingTemplateConstant, len(transferOptions.Substitutions)))
	}
	return nil
}

func requireValues(options TransferOptions) error {
	required := []struct {
		value    string
		flagName string
	}{
		{value: options.SourceLocator, flagName: sourceFlagNameConstant},
		{value: options.DestinationLocator, flagName: destinationFlagNameConstant},
		{value: options.Identity.Name, flagName: authorNameFlagNameConstant},
		{value: options.Identity.Email, flagName: authorEmailFlagNameConstant},
	}

	missingFlags := make([]string, 0, len(required))
	for _, requirement := range required {
		if len(strings.TrimSpace(requirement.value)) == 0 {
			missingFlags = append(missingFlags, fmt.Sprintf(missingValueFlagTemplateConstant, requirement.flagName))
		}
	}
	if len(missingFlags) == 0 {
		return nil
	}
	return fmt.Errorf(missingValuesTemplateConstant, strings.Join(missingFlags, missingValuesSeparatorConstant))
}

func positionalArgument(arguments []string, index int) string {
	if index < len(arguments) {
		return arguments[index]
	}
	return ""
}

func (builder *CommandBuilder) isInteractive() bool {
	if builder.InteractiveProvider != nil {
		return builder.InteractiveProvider()
	}
	standardInputDescriptor := os.Stdin.Fd()
	return isatty.IsTerminal(standardInputDescriptor) || isatty.IsCygwinTerminal(standardInputDescriptor)
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	var logger *zap.Logger
	if builder.LoggerProvider != nil {
		logger = builder.LoggerProvider()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger) (ShellExecutor, error) {
	if builder.Executor != nil {
		return builder.Executor, nil
	}

	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}
	shellExecutor, creationError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), humanReadableLogging)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

func (builder *CommandBuilder) resolvePathResolver() *pathutils.HomeExpander {
	if builder.PathResolver != nil {
		return builder.PathResolver
	}
	return pathutils.NewHomeExpander()
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}
