package lintsetup

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/lint-setup/internal/config"
	"github.com/temirov/lint-setup/internal/fsops"
	"github.com/temirov/lint-setup/internal/logging"
	"github.com/temirov/lint-setup/internal/rule"
	"github.com/temirov/lint-setup/internal/snapshot"
	"github.com/temirov/lint-setup/internal/taskrunner"
)

type runCommandOptions struct {
	configPath  string
	recipeName  string
	projectDir  string
	dryRun      bool
	skipInstall bool

	filesystem    fsops.FS
	commandRunner taskrunner.CommandRunner
}

func newRunCommand() *cobra.Command {
	return newRunCommandWithOptions(&runCommandOptions{})
}

func newRunCommandWithOptions(options *runCommandOptions) *cobra.Command {
	options.recipeName = defaultRecipeName

	command := &cobra.Command{
		Use:   runCommandUse,
		Short: runCommandShort,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == runCommandArgsMax+1 {
				if flagChanged(cmd.Flags(), dryRunFlagName) {
					if _, ok := parseBoolChoice(args[len(args)-1]); ok {
						return nil
					}
					return fmt.Errorf(invalidDryRunArgumentErrorFormat, args[len(args)-1], dryRunFlagName)
				}
			}
			return cobra.RangeArgs(runCommandArgsMin, runCommandArgsMax)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			effectiveOptions := *options
			effectiveArgs, dryRunOverride := splitDryRunArgument(args, flagChanged(cmd.Flags(), dryRunFlagName))
			if len(effectiveArgs) > 0 {
				effectiveOptions.recipeName = strings.TrimSpace(effectiveArgs[0])
			}
			if dryRunOverride != nil {
				effectiveOptions.dryRun = *dryRunOverride
			}
			return runRecipeCommand(cmd, effectiveOptions)
		},
	}

	command.Flags().StringVar(&options.configPath, configFlagName, "", configFlagUsage)
	command.Flags().StringVar(&options.projectDir, projectFlagName, "", projectFlagUsage)
	command.Flags().BoolVar(&options.skipInstall, skipInstallFlagName, false, skipInstallFlagUsage)
	dryRunValue := newBoolChoiceValue(&options.dryRun)
	command.Flags().Var(dryRunValue, dryRunFlagName, dryRunFlagUsage)
	if dryRunFlag := command.Flags().Lookup(dryRunFlagName); dryRunFlag != nil {
		dryRunFlag.NoOptDefVal = "true"
		dryRunFlag.DefValue = "false"
	}

	return command
}

func flagChanged(flags *pflag.FlagSet, name string) bool {
	flag := flags.Lookup(name)
	return flag != nil && flag.Changed
}

func runRecipeCommand(command *cobra.Command, options runCommandOptions) error {
	rootConfiguration, err := loadRootConfiguration(options.configPath, options.projectDir)
	if err != nil {
		return err
	}

	targetRecipe, recipeFound := rootConfiguration.FindRecipe(options.recipeName)
	if !recipeFound || !targetRecipe.Enabled {
		return fmt.Errorf(unknownRecipeErrorFormat, options.recipeName)
	}
	rules, err := buildRecipeRules(targetRecipe)
	if err != nil {
		return err
	}

	logger, err := logging.New(rootConfiguration.Common.Logging.Level, rootConfiguration.Common.Logging.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	projectRoot, err := resolveProjectRoot(options.projectDir, rootConfiguration)
	if err != nil {
		return err
	}
	filesystem, filesystemRoot := options.filesystem, projectRoot
	if filesystem == nil {
		filesystem, filesystemRoot = fsops.NewBillyOS(projectRoot), fsops.BillyRoot
	}
	projectFiles := fsops.NewOps(filesystem)
	tree, err := projectFiles.Load(filesystemRoot, managedPaths()...)
	if err != nil {
		return fmt.Errorf(loadProjectErrorFormat, projectRoot, err)
	}

	execution := rule.NewContext(logger, rule.Options{
		Project:  projectRoot,
		Versions: rootConfiguration.Versions,
		Values:   targetRecipe.Options,
	})
	logger.Debug("running recipe",
		zap.String("recipe", targetRecipe.Name),
		zap.String("project", projectRoot),
		zap.Int("files", tree.Len()),
	)
	if _, err := rule.ApplyPipeline(command.Context(), rules, tree, execution); err != nil {
		reportFailure(logger, "recipe failed", err)
		return err
	}

	changes := tree.Changes()
	linePrefix := ""
	if options.dryRun {
		linePrefix = dryRunLinePrefix
	}
	if err := printChanges(command.OutOrStdout(), linePrefix, changes); err != nil {
		return err
	}
	if !options.dryRun {
		if err := projectFiles.Commit(filesystemRoot, changes); err != nil {
			reportFailure(logger, "commit refused", err)
			return fmt.Errorf(commitChangesErrorFormat, failureCode(err), err)
		}
	}

	recipeSkipsInstall, _ := strconv.ParseBool(targetRecipe.Option(recipeSkipInstallOption, strconv.FormatBool(false)))
	runnerOptions := taskrunner.Options{
		ProjectRoot:    projectRoot,
		PackageManager: rootConfiguration.Common.Project.PackageManager,
		SkipInstall:    options.dryRun || options.skipInstall || recipeSkipsInstall || rootConfiguration.Common.Project.SkipInstall,
	}
	runner := taskrunner.New(logger, runnerOptions)
	if options.commandRunner != nil {
		runner = taskrunner.NewWithRunner(options.commandRunner, logger, runnerOptions)
	}
	results, runErr := runner.Run(command.Context(), execution.Tasks.Drain())
	if err := printTaskResults(command.OutOrStdout(), linePrefix, results); err != nil {
		return err
	}
	return runErr
}

// failureCode classifies snapshot failures; other errors render as a generic code.
func failureCode(err error) snapshot.ErrorCode {
	if code := snapshot.Code(err); code != "" {
		return code
	}
	return unclassifiedFailureCode
}

func reportFailure(logger *zap.Logger, message string, err error) {
	logger.Error(message, zap.String("code", string(failureCode(err))), zap.Error(err))
}

func resolveProjectRoot(flagValue string, rootConfiguration config.Root) (string, error) {
	projectDir := strings.TrimSpace(flagValue)
	if projectDir == "" {
		projectDir = rootConfiguration.Common.Project.Root
	}
	absolute, err := filepath.Abs(projectDir)
	if err != nil {
		return "", fmt.Errorf(resolveProjectErrorFormat, projectDir, err)
	}
	return absolute, nil
}

func printChanges(writer io.Writer, prefix string, changes []snapshot.Change) error {
	for _, change := range changes {
		if _, err := fmt.Fprintf(writer, prefix+changeLineFormat, strings.ToUpper(string(change.Action)), change.Path); err != nil {
			return fmt.Errorf(writeOutputErrorFormat, err)
		}
	}
	return nil
}

func printTaskResults(writer io.Writer, prefix string, results []taskrunner.Result) error {
	for _, result := range results {
		label := result.Command
		if label == "" {
			label = result.Task.Kind
		}
		var err error
		if result.Outcome == taskrunner.OutcomeSkipped {
			_, err = fmt.Fprintf(writer, prefix+taskSkippedLineFormat, label, result.Outcome, result.Reason)
		} else if result.Outcome != "" {
			_, err = fmt.Fprintf(writer, prefix+taskLineFormat, label, result.Outcome)
		}
		if err != nil {
			return fmt.Errorf(writeOutputErrorFormat, err)
		}
	}
	return nil
}
