package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitcheat/internal/rewrite"
)

const (
	testConfigurationFileNameConstant = "config.yaml"
	testLogLevelEnvironmentConstant   = "GITCHEAT_COMMON_LOG_LEVEL"
	testConfigurationContentConstant  = `common:
  log_level: warn
tools:
  transfer:
    remote_name: archive
    author_name: Bob
    replacements:
      - old: WIP
        new: Done
      - old: Done
        new: Finished
`
)

func initializeWithConfiguration(testInstance *testing.T, configurationContent string, flagValues map[string]string) *Application {
	testInstance.Helper()

	configurationPath := filepath.Join(testInstance.TempDir(), testConfigurationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationPath, []byte(configurationContent), 0o600))

	application := NewApplication()
	rootCommand := application.rootCommand
	rootCommand.SetContext(context.Background())
	require.NoError(testInstance, rootCommand.PersistentFlags().Set(configFileFlagNameConstant, configurationPath))
	for flagName, flagValue := range flagValues {
		require.NoError(testInstance, rootCommand.PersistentFlags().Set(flagName, flagValue))
	}

	require.NoError(testInstance, application.initializeConfiguration(rootCommand))
	return application
}

func TestInitializeConfigurationPrecedence(testInstance *testing.T) {
	testCases := []struct {
		name             string
		configuration    string
		environmentValue string
		flagValues       map[string]string
		expectedLogLevel string
	}{
		{
			name:             "embedded_defaults",
			configuration:    "",
			expectedLogLevel: "info",
		},
		{
			name:             "file_overrides_defaults",
			configuration:    testConfigurationContentConstant,
			expectedLogLevel: "warn",
		},
		{
			name:             "environment_overrides_file",
			configuration:    testConfigurationContentConstant,
			environmentValue: "error",
			expectedLogLevel: "error",
		},
		{
			name:             "flag_overrides_environment",
			configuration:    testConfigurationContentConstant,
			environmentValue: "error",
			flagValues:       map[string]string{logLevelFlagNameConstant: "debug"},
			expectedLogLevel: "debug",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			if len(testCase.environmentValue) > 0 {
				testInstance.Setenv(testLogLevelEnvironmentConstant, testCase.environmentValue)
			}

			application := initializeWithConfiguration(testInstance, testCase.configuration, testCase.flagValues)
			require.Equal(testInstance, testCase.expectedLogLevel, application.configuration.Common.LogLevel)

			logLevel, available := application.commandContextAccessor.LogLevel(application.rootCommand.Context())
			require.True(testInstance, available)
			require.Equal(testInstance, testCase.expectedLogLevel, logLevel)
		})
	}
}

func TestInitializeConfigurationLoadsTransferSettings(testInstance *testing.T) {
	application := initializeWithConfiguration(testInstance, testConfigurationContentConstant, nil)

	transferConfiguration := application.configuration.Tools.Transfer
	require.Equal(testInstance, "archive", transferConfiguration.RemoteName)
	require.Equal(testInstance, "Bob", transferConfiguration.AuthorName)
	require.Equal(testInstance, ".", transferConfiguration.WorkspaceRoot)
	require.Equal(testInstance, rewrite.SubstitutionSet{{Old: "WIP", New: "Done"}, {Old: "Done", New: "Finished"}}, transferConfiguration.Replacements)
	require.Equal(testInstance, "/usr/local/bin", transferConfiguration.FilterRepo.InstallDirectory)
	require.True(testInstance, application.humanReadableLoggingEnabled())
}

func TestInitializeConfigurationTransferEnvironmentOverrides(testInstance *testing.T) {
	const replacementsFilePath = "/tmp/gitcheat-replacements.yaml"
	testInstance.Setenv("GITCHEAT_TOOLS_TRANSFER_AUTHOR_NAME", "Carol")
	testInstance.Setenv("GITCHEAT_TOOLS_TRANSFER_AUTHOR_EMAIL", "carol@example.com")
	testInstance.Setenv("GITCHEAT_TOOLS_TRANSFER_REPLACEMENTS", "WIP=Done, typo=fix")
	testInstance.Setenv("GITCHEAT_TOOLS_TRANSFER_REPLACEMENTS_FILE", replacementsFilePath)

	application := initializeWithConfiguration(testInstance, testConfigurationContentConstant, nil)

	transferConfiguration := application.configuration.Tools.Transfer
	require.Equal(testInstance, "Carol", transferConfiguration.AuthorName)
	require.Equal(testInstance, "carol@example.com", transferConfiguration.AuthorEmail)
	require.Equal(testInstance, rewrite.SubstitutionSet{{Old: "WIP", New: "Done"}, {Old: "typo", New: "fix"}}, transferConfiguration.Replacements)
	require.Equal(testInstance, replacementsFilePath, transferConfiguration.ReplacementsFile)
	require.Equal(testInstance, "archive", transferConfiguration.RemoteName)
}

func TestInitializeConfigurationStructuredLogFormat(testInstance *testing.T) {
	application := initializeWithConfiguration(testInstance, "", map[string]string{logFormatFlagNameConstant: "structured"})

	require.False(testInstance, application.humanReadableLoggingEnabled())
}

func TestInitializeConfigurationRejectsUnknownLogLevel(testInstance *testing.T) {
	application := NewApplication()
	rootCommand := application.rootCommand
	require.NoError(testInstance, rootCommand.PersistentFlags().Set(logLevelFlagNameConstant, "verbose"))

	require.Error(testInstance, application.initializeConfiguration(rootCommand))
}

func TestApplicationRegistersTransferCommand(testInstance *testing.T) {
	application := NewApplication()

	transferCommand, _, findError := application.rootCommand.Find([]string{"transfer"})
	require.NoError(testInstance, findError)
	require.Equal(testInstance, "transfer", transferCommand.Name())

	for _, flagName := range []string{"source", "destination", "author-name", "author-email", "replace", "replacements-file", "workspace", "remote-name"} {
		require.NotNil(testInstance, transferCommand.Flags().Lookup(flagName), flagName)
	}
}

func TestEmbeddedDefaultConfigurationIsCopied(testInstance *testing.T) {
	firstContent, configurationType := EmbeddedDefaultConfiguration()
	require.Equal(testInstance, "yaml", configurationType)
	require.NotEmpty(testInstance, firstContent)

	firstContent[0] = '#'
	secondContent, _ := EmbeddedDefaultConfiguration()
	require.NotEqual(testInstance, firstContent[0], secondContent[0])
}

func TestLoadEnvironmentFile(testInstance *testing.T) {
	const (
		loadedVariableName = "GITCHEAT_TEST_LOADED_VALUE"
		presetVariableName = "GITCHEAT_TEST_PRESET_VALUE"
	)
	environmentFilePath := filepath.Join(testInstance.TempDir(), ".env")
	require.NoError(testInstance, os.WriteFile(environmentFilePath, []byte(loadedVariableName+"=from-file\n"+presetVariableName+"=from-file\n"), 0o600))

	testInstance.Setenv(presetVariableName, "from-environment")
	testInstance.Setenv(loadedVariableName, "")
	require.NoError(testInstance, os.Unsetenv(loadedVariableName))

	require.NoError(testInstance, loadEnvironmentFile(environmentFilePath))
	require.Equal(testInstance, "from-file", os.Getenv(loadedVariableName))
	require.Equal(testInstance, "from-environment", os.Getenv(presetVariableName))

	require.NoError(testInstance, loadEnvironmentFile(filepath.Join(testInstance.TempDir(), "missing.env")))
}
