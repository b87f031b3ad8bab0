package logging_test

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/temirov/lint-setup/internal/logging"
)

func TestNew(t *testing.T) {
	testCases := []struct {
		name          string
		level         string
		format        string
		enabled       zapcore.Level
		disabled      zapcore.Level
		expectFailure bool
	}{
		{name: "ConsoleInfo", level: "info", format: "console", enabled: zapcore.InfoLevel, disabled: zapcore.DebugLevel},
		{name: "JSONDebug", level: "debug", format: "json", enabled: zapcore.DebugLevel, disabled: zapcore.DebugLevel - 1},
		{name: "MixedCase", level: " WARN ", format: "JSON", enabled: zapcore.WarnLevel, disabled: zapcore.InfoLevel},
		{name: "UnknownFormat", level: "info", format: "xml", expectFailure: true},
		{name: "UnknownLevel", level: "loud", format: "console", expectFailure: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			logger, err := logging.New(testCase.level, testCase.format)
			if testCase.expectFailure {
				if err == nil {
					t.Fatalf("expected error for level=%q format=%q", testCase.level, testCase.format)
				}
				return
			}
			if err != nil {
				t.Fatalf("build logger: %v", err)
			}
			core := logger.Core()
			if !core.Enabled(testCase.enabled) {
				t.Fatalf("expected %s to be enabled", testCase.enabled)
			}
			if core.Enabled(testCase.disabled) {
				t.Fatalf("expected %s to be disabled", testCase.disabled)
			}
		})
	}
}
