// Package taskrunner executes the tasks rules queued during a pipeline run, once
// the resulting files have been committed.
package taskrunner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/lint-setup/internal/rule"
)

const (
	installSubcommand = "install"

	OutcomeExecuted Outcome = "executed"
	OutcomeSkipped  Outcome = "skipped"

	skipReasonDisabled  = "installs disabled"
	skipReasonDuplicate = "duplicate task"

	unknownTaskKindErrorFormat = "%w: %s"
	runTaskErrorFormat         = "run task %s: %w"
	commandErrorFormat         = "run %s %s: %w: %s"
)

// ErrUnknownTaskKind is returned for tasks this host cannot execute.
var ErrUnknownTaskKind = errors.New("unknown task kind")

// CommandRunner executes external commands within a working directory.
type CommandRunner interface {
	Run(ctx context.Context, dir string, name string, args ...string) (string, error)
}

type commandExecutor struct{}

// Outcome reports what happened to one task.
type Outcome string

// Result describes one drained task.
type Result struct {
	Task    rule.Task
	Outcome Outcome
	Command string
	Reason  string
	Output  string
}

type Options struct {
	ProjectRoot    string
	PackageManager string
	SkipInstall    bool
}

// Runner drains tasks in enqueue order.
type Runner struct {
	runner  CommandRunner
	logger  *zap.Logger
	options Options
}

// New constructs a runner that shells out to the package manager.
func New(logger *zap.Logger, options Options) Runner {
	return NewWithRunner(commandExecutor{}, logger, options)
}

// NewWithRunner injects a custom command runner, used mainly for tests.
func NewWithRunner(runner CommandRunner, logger *zap.Logger, options Options) Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Runner{runner: runner, logger: logger, options: options}
}

// Run executes tasks in order. Tasks with the same key run once. The first
// failing task stops the run and its error is returned along with the results
// gathered so far.
func (r Runner) Run(ctx context.Context, tasks []rule.Task) ([]Result, error) {
	results := make([]Result, 0, len(tasks))
	seen := make(map[string]struct{}, len(tasks))
	for _, task := range tasks {
		if _, duplicate := seen[task.Key()]; duplicate {
			results = append(results, Result{Task: task, Outcome: OutcomeSkipped, Reason: skipReasonDuplicate})
			continue
		}
		seen[task.Key()] = struct{}{}

		result, err := r.runTask(ctx, task)
		results = append(results, result)
		if err != nil {
			return results, fmt.Errorf(runTaskErrorFormat, task.Kind, err)
		}
	}
	return results, nil
}

func (r Runner) runTask(ctx context.Context, task rule.Task) (Result, error) {
	switch task.Kind {
	case rule.TaskNodePackageInstall:
		return r.installPackages(ctx, task)
	default:
		return Result{Task: task}, fmt.Errorf(unknownTaskKindErrorFormat, ErrUnknownTaskKind, task.Kind)
	}
}

func (r Runner) installPackages(ctx context.Context, task rule.Task) (Result, error) {
	packageManager := strings.TrimSpace(task.Params[rule.TaskParamPackageManager])
	if packageManager == "" {
		packageManager = r.options.PackageManager
	}
	directory := r.options.ProjectRoot
	if relative := strings.TrimSpace(task.Params[rule.TaskParamWorkingDirectory]); relative != "" {
		directory = filepath.Join(directory, filepath.FromSlash(relative))
	}
	command := packageManager + " " + installSubcommand
	result := Result{Task: task, Command: command}

	if r.options.SkipInstall {
		result.Outcome = OutcomeSkipped
		result.Reason = skipReasonDisabled
		r.logger.Info("package install skipped", zap.String("command", command), zap.String("directory", directory))
		return result, nil
	}

	r.logger.Info("installing packages", zap.String("command", command), zap.String("directory", directory))
	output, err := r.runner.Run(ctx, directory, packageManager, installSubcommand)
	result.Output = output
	if err != nil {
		return result, err
	}
	result.Outcome = OutcomeExecuted
	return result, nil
}

func (commandExecutor) Run(ctx context.Context, dir string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf(commandErrorFormat, name, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
