// Package logging builds the zap logger configured by common.logging.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"

	unsupportedFormatErrorFormat = "unsupported logging format %q (want %s or %s)"
	invalidLevelErrorFormat      = "invalid logging level %q: %w"
	buildLoggerErrorFormat       = "build logger: %w"
)

// New returns a logger writing to stderr at the given level and format.
func New(level string, format string) (*zap.Logger, error) {
	atomicLevel, err := zap.ParseAtomicLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf(invalidLevelErrorFormat, level, err)
	}

	var configuration zap.Config
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatConsole, "":
		configuration = zap.NewDevelopmentConfig()
		configuration.Development = false
		configuration.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		configuration.EncoderConfig.TimeKey = ""
	case FormatJSON:
		configuration = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf(unsupportedFormatErrorFormat, format, FormatConsole, FormatJSON)
	}
	configuration.Level = atomicLevel
	configuration.DisableStacktrace = true

	logger, buildErr := configuration.Build()
	if buildErr != nil {
		return nil, fmt.Errorf(buildLoggerErrorFormat, buildErr)
	}
	return logger, nil
}
