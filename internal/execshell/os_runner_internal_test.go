package execshell

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMergeEnvironmentReplacesOverriddenKeys(testInstance *testing.T) {
	merged := mergeEnvironment(
		[]string{"PATH=/usr/bin", "HOME=/home/tester", "MALFORMED"},
		map[string]string{"PATH": "/opt/bin:/usr/bin", "LANG": "C"},
	)
	require.Equal(testInstance, []string{"HOME=/home/tester", "MALFORMED", "LANG=C", "PATH=/opt/bin:/usr/bin"}, merged)
}

func TestOSCommandRunnerReportsExitCode(testInstance *testing.T) {
	if _, lookupError := exec.LookPath("sh"); lookupError != nil {
		testInstance.Skip("sh not available")
	}

	runner := NewOSCommandRunner()
	result, runError := runner.Run(context.Background(), ShellCommand{
		Name: CommandName("sh"),
		Details: CommandDetails{
			Arguments:            []string{"-c", "printf \"$GITCHEAT_RUNNER_VALUE\"; printf oops >&2; exit 3"},
			EnvironmentVariables: map[string]string{"GITCHEAT_RUNNER_VALUE": "forwarded"},
		},
	})
	require.NoError(testInstance, runError)
	require.Equal(testInstance, 3, result.ExitCode)
	require.Equal(testInstance, "forwarded", result.StandardOutput)
	require.Equal(testInstance, "oops", result.StandardError)
}

func TestOSCommandRunnerMissingExecutable(testInstance *testing.T) {
	runner := NewOSCommandRunner()
	_, runError := runner.Run(context.Background(), ShellCommand{Name: CommandName("gitcheat-definitely-missing-binary")})
	require.Error(testInstance, runError)
}
