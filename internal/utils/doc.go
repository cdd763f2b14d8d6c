// Package utils exposes reusable helpers consumed by the gitcheat commands.
//
// It houses the ConfigurationLoader, LoggerFactory, and CommandContextAccessor
// abstractions that integrate Viper, environment variables, and zap logging.
package utils
