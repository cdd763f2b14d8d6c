package filterrepo

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

const (
	// ToolName is the executable name of git-filter-repo.
	ToolName                              = "git-filter-repo"
	toolUnavailableMessageConstant        = "git-filter-repo is not available; install it manually with: pip install --user git-filter-repo"
	toolUnavailableTemplateConstant       = "%w (attempted: %s)"
	attemptedStrategiesSeparatorConstant  = ", "
	toolLocatedLogMessageConstant         = "git-filter-repo located"
	strategyStartedLogMessageConstant     = "git-filter-repo is not installed, attempting acquisition"
	strategyFailedLogMessageConstant      = "git-filter-repo acquisition failed"
	strategyIneffectiveLogMessageConstant = "git-filter-repo still not found after acquisition"
	logFieldStrategyConstant              = "strategy"
	logFieldToolPathConstant              = "path"
)

// ErrToolUnavailable reports that no strategy made git-filter-repo locatable.
var ErrToolUnavailable = errors.New(toolUnavailableMessageConstant)

// ToolLocator resolves an executable name to a path.
type ToolLocator func(executableName string) (string, error)

// AcquisitionStrategy makes the tool available by some means.
type AcquisitionStrategy interface {
	Name() string
	Acquire(executionContext context.Context) error
}

// Provisioner walks acquisition strategies in order until the tool can be located.
type Provisioner struct {
	logger     *zap.Logger
	locator    ToolLocator
	strategies []AcquisitionStrategy
}

// NewProvisioner constructs a Provisioner. A nil locator falls back to exec.LookPath.
func NewProvisioner(logger *zap.Logger, locator ToolLocator, strategies ...AcquisitionStrategy) *Provisioner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if locator == nil {
		locator = exec.LookPath
	}
	return &Provisioner{logger: logger, locator: locator, strategies: strategies}
}

// Ensure returns the path of git-filter-repo, acquiring it if needed. The tool
// is looked up after every strategy, including one that reported an error.
func (provisioner *Provisioner) Ensure(executionContext context.Context) (string, error) {
	attemptedStrategies := make([]string, 0, len(provisioner.strategies))

	for strategyIndex, strategy := range provisioner.strategies {
		if contextError := executionContext.Err(); contextError != nil {
			return "", contextError
		}

		attemptedStrategies = append(attemptedStrategies, strategy.Name())
		if strategyIndex > 0 {
			provisioner.logger.Info(strategyStartedLogMessageConstant, zap.String(logFieldStrategyConstant, strategy.Name()))
		}

		if acquisitionError := strategy.Acquire(executionContext); acquisitionError != nil {
			if errors.Is(acquisitionError, context.Canceled) || errors.Is(acquisitionError, context.DeadlineExceeded) {
				return "", acquisitionError
			}
			provisioner.logger.Warn(strategyFailedLogMessageConstant, zap.String(logFieldStrategyConstant, strategy.Name()), zap.Error(acquisitionError))
		}

		toolPath, locateError := provisioner.locator(ToolName)
		if locateError != nil {
			provisioner.logger.Debug(strategyIneffectiveLogMessageConstant, zap.String(logFieldStrategyConstant, strategy.Name()), zap.Error(locateError))
			continue
		}

		provisioner.logger.Info(toolLocatedLogMessageConstant,
			zap.String(logFieldStrategyConstant, strategy.Name()),
			zap.String(logFieldToolPathConstant, toolPath),
		)
		return toolPath, nil
	}

	return "", fmt.Errorf(toolUnavailableTemplateConstant, ErrToolUnavailable, strings.Join(attemptedStrategies, attemptedStrategiesSeparatorConstant))
}
