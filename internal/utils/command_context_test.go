package utils_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitcheat/internal/utils"
)

func TestCommandContextAccessorRoundTrip(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	_, configurationPathAvailable := accessor.ConfigurationFilePath(context.Background())
	require.False(testInstance, configurationPathAvailable)

	executionContext := accessor.WithConfigurationFilePath(context.Background(), "/etc/gitcheat/config.yaml")
	executionContext = accessor.WithLogLevel(executionContext, string(utils.LogLevelDebug))

	configurationPath, configurationPathAvailable := accessor.ConfigurationFilePath(executionContext)
	require.True(testInstance, configurationPathAvailable)
	require.Equal(testInstance, "/etc/gitcheat/config.yaml", configurationPath)

	logLevel, logLevelAvailable := accessor.LogLevel(executionContext)
	require.True(testInstance, logLevelAvailable)
	require.Equal(testInstance, string(utils.LogLevelDebug), logLevel)
}
