package transfer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/gitcheat/internal/execshell"
	"github.com/temirov/gitcheat/internal/gitrepo"
	"github.com/temirov/gitcheat/internal/rewrite"
)

const (
	sourceFieldNameConstant              = "source"
	destinationFieldNameConstant         = "destination"
	identityFieldNameConstant            = "author"
	substitutionsFieldNameConstant       = "replacements"
	workspaceFieldNameConstant           = "workspace"
	invalidInputTemplateConstant         = "%s: %v"
	stepErrorTemplateConstant            = "%s failed: %v"
	workspaceExistsTemplateConstant      = "%s already exists and was not created by this transfer"
	executorMissingMessageConstant       = "command executor not configured"
	provisionerMissingMessageConstant    = "git-filter-repo provisioner not configured"
	defaultWorkspaceRootConstant         = "."
	defaultRemoteNameConstant            = "new-origin"
	gitCloneSubcommandConstant           = "clone"
	gitBareFlagConstant                  = "--bare"
	gitRemoteSubcommandConstant          = "remote"
	gitRemoteAddSubcommandConstant       = "add"
	gitPushSubcommandConstant            = "push"
	gitMirrorFlagConstant                = "--mirror"
	filterRepoCallbackFlagConstant       = "--commit-callback"
	filterRepoForceFlagConstant          = "--force"
	logMessageNameUnavailableConstant    = "Could not extract repository name from URL"
	logMessageCloningConstant            = "Cloning the repository..."
	logMessageRewritingConstant          = "Rewriting commit authorship..."
	logMessageApplyingReplacements       = "Applying text replacements in commit messages"
	logMessageInventoryConstant          = "References to mirror"
	logMessageInventoryFailedConstant    = "Unable to inspect rewritten references"
	logMessageAddingRemoteConstant       = "Adding new repository remote..."
	logMessagePushingConstant            = "Pushing all branches and tags to the new repository..."
	logMessageCleanupFailedConstant      = "Unable to remove transfer workspace"
	logMessageTransferCompleteConstant   = "Repository transfer complete"
	logFieldSourceConstant               = "source"
	logFieldDestinationConstant          = "destination"
	logFieldRepositoryNameConstant       = "repository"
	logFieldWorkspaceConstant            = "workspace"
	logFieldReplacementCountConstant     = "replacements"
	logFieldBranchesConstant             = "branches"
	logFieldTagsConstant                 = "tags"
	logFieldOtherReferencesConstant      = "other_references"
	logFieldRemoteNameConstant           = "remote"
	workspacePreparationTemplateConstant = "unable to resolve workspace root %s: %w"
)

// Step names the workflow stage that failed.
type Step string

// Workflow steps in execution order.
const (
	StepClone     Step = Step("clone")
	StepEnsure    Step = Step("git-filter-repo acquisition")
	StepRewrite   Step = Step("history rewrite")
	StepAddRemote Step = Step("remote registration")
	StepPush      Step = Step("mirror push")
)

var (
	errExecutorMissing    = errors.New(executorMissingMessageConstant)
	errProvisionerMissing = errors.New(provisionerMissingMessageConstant)
)

// InvalidInputError describes transfer option validation failures.
type InvalidInputError struct {
	FieldName string
	Cause     error
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputTemplateConstant, inputError.FieldName, inputError.Cause)
}

// Unwrap exposes the validation failure.
func (inputError InvalidInputError) Unwrap() error {
	return inputError.Cause
}

// StepError reports a workflow step that failed.
type StepError struct {
	Step  Step
	Cause error
}

// Error describes the failed step.
func (stepError StepError) Error() string {
	return fmt.Sprintf(stepErrorTemplateConstant, stepError.Step, stepError.Cause)
}

// Unwrap exposes the step failure.
func (stepError StepError) Unwrap() error {
	return stepError.Cause
}

// CommandExecutor runs git and the resolved git-filter-repo executable.
type CommandExecutor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ToolProvisioner makes git-filter-repo available and reports its path.
type ToolProvisioner interface {
	Ensure(executionContext context.Context) (string, error)
}

// ReferenceInspector lists references held by a repository on disk.
type ReferenceInspector interface {
	Inspect(repositoryPath string) (gitrepo.ReferenceInventory, error)
}

// ServiceDependencies describes the collaborators of a transfer.
type ServiceDependencies struct {
	Logger           *zap.Logger
	Executor         CommandExecutor
	Provisioner      ToolProvisioner
	Inspector        ReferenceInspector
	CallbackRenderer *rewrite.CallbackRenderer
}

// TransferOptions configures one transfer.
type TransferOptions struct {
	SourceLocator      string
	DestinationLocator string
	Identity           rewrite.Identity
	Substitutions      rewrite.SubstitutionSet
	WorkspaceRoot      string
	RemoteName         string
}

// TransferResult captures the observable outcome of a transfer.
type TransferResult struct {
	RepositoryName string
	WorkspacePath  string
	Skipped        bool
	Inventory      gitrepo.ReferenceInventory
}

// Service runs the clone, rewrite, and mirror workflow.
type Service struct {
	logger           *zap.Logger
	executor         CommandExecutor
	provisioner      ToolProvisioner
	inspector        ReferenceInspector
	callbackRenderer *rewrite.CallbackRenderer
}

// NewService constructs a Service with the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Executor == nil {
		return nil, errExecutorMissing
	}
	if dependencies.Provisioner == nil {
		return nil, errProvisionerMissing
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	inspector := dependencies.Inspector
	if inspector == nil {
		inspector = gitrepo.NewReferenceInspector()
	}
	callbackRenderer := dependencies.CallbackRenderer
	if callbackRenderer == nil {
		callbackRenderer = rewrite.NewCallbackRenderer()
	}

	return &Service{
		logger:           logger,
		executor:         dependencies.Executor,
		provisioner:      dependencies.Provisioner,
		inspector:        inspector,
		callbackRenderer: callbackRenderer,
	}, nil
}

type validatedOptions struct {
	source        gitrepo.Locator
	destination   gitrepo.Locator
	identity      rewrite.Identity
	substitutions rewrite.SubstitutionSet
	workspaceRoot string
	remoteName    string
}

// Execute validates the options and performs the transfer. When no repository
// name can be derived from the source, the transfer is skipped without error.
func (service *Service) Execute(executionContext context.Context, options TransferOptions) (TransferResult, error) {
	validated, validationError := service.validate(options)
	if validationError != nil {
		return TransferResult{}, validationError
	}
	defer service.logger.Info(logMessageTransferCompleteConstant)

	repositoryName, nameAvailable := validated.source.RepositoryName()
	if !nameAvailable {
		service.logger.Error(logMessageNameUnavailableConstant, zap.String(logFieldSourceConstant, validated.source.Redacted()))
		return TransferResult{Skipped: true}, nil
	}

	result := TransferResult{
		RepositoryName: repositoryName,
		WorkspacePath:  filepath.Join(validated.workspaceRoot, gitrepo.WorkspaceDirectoryName(repositoryName)),
	}

	workspaceOwned := false
	defer service.cleanup(result.WorkspacePath, &workspaceOwned)

	if _, statError := os.Lstat(result.WorkspacePath); statError == nil {
		return result, InvalidInputError{
			FieldName: workspaceFieldNameConstant,
			Cause:     fmt.Errorf(workspaceExistsTemplateConstant, result.WorkspacePath),
		}
	}

	service.logger.Info(logMessageCloningConstant,
		zap.String(logFieldSourceConstant, validated.source.Redacted()),
		zap.String(logFieldWorkspaceConstant, result.WorkspacePath),
	)
	workspaceOwned = true
	if _, cloneError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitCloneSubcommandConstant, gitBareFlagConstant, validated.source.String(), result.WorkspacePath},
		WorkingDirectory: validated.workspaceRoot,
	}); cloneError != nil {
		return result, StepError{Step: StepClone, Cause: cloneError}
	}

	toolPath, ensureError := service.provisioner.Ensure(executionContext)
	if ensureError != nil {
		return result, StepError{Step: StepEnsure, Cause: ensureError}
	}

	if rewriteError := service.rewriteHistory(executionContext, toolPath, result.WorkspacePath, validated); rewriteError != nil {
		return result, StepError{Step: StepRewrite, Cause: rewriteError}
	}

	result.Inventory = service.inspectReferences(result.WorkspacePath)

	service.logger.Info(logMessageAddingRemoteConstant,
		zap.String(logFieldRemoteNameConstant, validated.remoteName),
		zap.String(logFieldDestinationConstant, validated.destination.Redacted()),
	)
	if _, remoteError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRemoteSubcommandConstant, gitRemoteAddSubcommandConstant, validated.remoteName, validated.destination.String()},
		WorkingDirectory: result.WorkspacePath,
	}); remoteError != nil {
		return result, StepError{Step: StepAddRemote, Cause: remoteError}
	}

	service.logger.Info(logMessagePushingConstant, zap.String(logFieldRemoteNameConstant, validated.remoteName))
	if _, pushError := service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitPushSubcommandConstant, gitMirrorFlagConstant, validated.remoteName},
		WorkingDirectory: result.WorkspacePath,
	}); pushError != nil {
		return result, StepError{Step: StepPush, Cause: pushError}
	}

	return result, nil
}

func (service *Service) validate(options TransferOptions) (validatedOptions, error) {
	source, sourceError := gitrepo.ParseLocator(options.SourceLocator)
	if sourceError != nil {
		return validatedOptions{}, InvalidInputError{FieldName: sourceFieldNameConstant, Cause: sourceError}
	}

	destination, destinationError := gitrepo.ParseLocator(options.DestinationLocator)
	if destinationError != nil {
		return validatedOptions{}, InvalidInputError{FieldName: destinationFieldNameConstant, Cause: destinationError}
	}

	identity, identityError := rewrite.NewIdentity(options.Identity.Name, options.Identity.Email)
	if identityError != nil {
		return validatedOptions{}, InvalidInputError{FieldName: identityFieldNameConstant, Cause: identityError}
	}

	if substitutionError := options.Substitutions.Validate(); substitutionError != nil {
		return validatedOptions{}, InvalidInputError{FieldName: substitutionsFieldNameConstant, Cause: substitutionError}
	}

	workspaceRoot := strings.TrimSpace(options.WorkspaceRoot)
	if len(workspaceRoot) == 0 {
		workspaceRoot = defaultWorkspaceRootConstant
	}
	absoluteWorkspaceRoot, absoluteError := filepath.Abs(workspaceRoot)
	if absoluteError != nil {
		return validatedOptions{}, InvalidInputError{
			FieldName: workspaceFieldNameConstant,
			Cause:     fmt.Errorf(workspacePreparationTemplateConstant, workspaceRoot, absoluteError),
		}
	}

	remoteName := strings.TrimSpace(options.RemoteName)
	if len(remoteName) == 0 {
		remoteName = defaultRemoteNameConstant
	}

	return validatedOptions{
		source:        source,
		destination:   destination,
		identity:      identity,
		substitutions: options.Substitutions,
		workspaceRoot: absoluteWorkspaceRoot,
		remoteName:    remoteName,
	}, nil
}

func (service *Service) rewriteHistory(executionContext context.Context, toolPath string, workspacePath string, options validatedOptions) error {
	service.logger.Info(logMessageRewritingConstant, zap.String(logFieldRepositoryNameConstant, workspacePath))
	if !options.substitutions.Empty() {
		service.logger.Info(logMessageApplyingReplacements, zap.Int(logFieldReplacementCountConstant, len(options.substitutions)))
	}

	callback := service.callbackRenderer.Render(options.identity, options.substitutions)
	_, rewriteError := service.executor.Execute(executionContext, execshell.ShellCommand{
		Name: execshell.CommandName(toolPath),
		Details: execshell.CommandDetails{
			Arguments:        []string{filterRepoCallbackFlagConstant, callback, filterRepoForceFlagConstant},
			WorkingDirectory: workspacePath,
		},
	})
	return rewriteError
}

func (service *Service) inspectReferences(workspacePath string) gitrepo.ReferenceInventory {
	inventory, inspectionError := service.inspector.Inspect(workspacePath)
	if inspectionError != nil {
		service.logger.Warn(logMessageInventoryFailedConstant, zap.String(logFieldWorkspaceConstant, workspacePath), zap.Error(inspectionError))
		return gitrepo.ReferenceInventory{}
	}

	service.logger.Info(logMessageInventoryConstant,
		zap.Strings(logFieldBranchesConstant, inventory.Branches),
		zap.Strings(logFieldTagsConstant, inventory.Tags),
		zap.Strings(logFieldOtherReferencesConstant, inventory.Other),
	)
	return inventory
}

// cleanup removes the workspace only when this transfer created it. Removal
// failures are logged and never returned.
func (service *Service) cleanup(workspacePath string, workspaceOwned *bool) {
	if *workspaceOwned {
		if _, statError := os.Lstat(workspacePath); statError == nil {
			if removeError := os.RemoveAll(workspacePath); removeError != nil {
				service.logger.Debug(logMessageCleanupFailedConstant, zap.String(logFieldWorkspaceConstant, workspacePath), zap.Error(removeError))
			}
		}
	}
}
