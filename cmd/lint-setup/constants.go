package lintsetup

import "github.com/temirov/lint-setup/internal/snapshot"

const (
	rootCommandUse                               = "lint-setup"
	rootCommandShort                             = "Bootstrap lint and formatter configuration in a project"
	defaultRecipeName                            = "lint-config"
	runCommandUse                                = "run [RECIPE]"
	runCommandShort                              = "Apply a configured recipe to the project"
	runCommandArgsMin                            = 0
	runCommandArgsMax                            = 1
	configFlagName                               = "config"
	configFlagUsage                              = "Path to lint-setup configuration YAML"
	projectFlagName                              = "project"
	projectFlagUsage                             = "Project directory to update (defaults to common.project.root)"
	dryRunFlagName                               = "dry-run"
	dryRunFlagUsage                              = "Print the changes without writing files or running tasks"
	skipInstallFlagName                          = "skip-install"
	skipInstallFlagUsage                         = "Do not run the package manager after writing files"
	allFlagName                                  = "all"
	allFlagUsage                                 = "Show disabled recipes as well"
	listCommandUse                               = "list"
	listCommandShort                             = "List recipes from the configuration (enabled by default)"
	enabledStateLabel                            = "enabled"
	disabledStateLabel                           = "disabled"
	changeLineFormat                             = "[%s] %s\n"
	dryRunLinePrefix                             = "[DRY] "
	taskLineFormat                               = "[TASK] %s: %s\n"
	taskSkippedLineFormat                        = "[TASK] %s: %s (%s)\n"
	listLineFormat                               = "%s\t(%s, type=%s)\n"
	configurationLoaderInitializationErrorFormat = "initialize configuration loader: %w"
	configurationSourceResolutionErrorFormat     = "resolve configuration source: %w"
	rootConfigurationLoadErrorFormat             = "load root configuration %s: %w"
	unknownRecipeErrorFormat                     = "unknown or disabled recipe %q"
	unknownRecipeTypeErrorFormat                 = "unknown recipe type: %s"
	buildRecipeErrorFormat                       = "build recipe %s: %w"
	resolveProjectErrorFormat                    = "resolve project directory %s: %w"
	loadProjectErrorFormat                       = "load project %s: %w"
	commitChangesErrorFormat                     = "write changes [%s]: %w"
	writeOutputErrorFormat                       = "write output: %w"
	invalidBoolErrorFormat                       = "invalid boolean value %q"
	invalidDryRunArgumentErrorFormat             = "invalid boolean value %q for --%s"
	recipeSkipInstallOption                      = "skip_install"
	unclassifiedFailureCode                      = snapshot.ErrorCode("FAILED")
)
