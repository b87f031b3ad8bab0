package main

import (
	"os"

	"go.uber.org/zap"

	lintsetup "github.com/temirov/lint-setup/cmd/lint-setup"
)

func main() {
	logger := zap.Must(zap.NewProduction())

	executionErr := lintsetup.Execute()
	if executionErr != nil {
		logger.Error("command execution failed", zap.Error(executionErr))
		_ = logger.Sync()
		os.Exit(1)
	}

	_ = logger.Sync()
}
