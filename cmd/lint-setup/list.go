package lintsetup

import (
	"fmt"

	"github.com/spf13/cobra"
)

type listCommandOptions struct {
	includeDisabled bool
	configPath      string
}

func newListCommand() *cobra.Command {
	options := &listCommandOptions{}

	command := &cobra.Command{
		Use:   listCommandUse,
		Short: listCommandShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListCommand(cmd, *options)
		},
	}

	command.Flags().BoolVar(&options.includeDisabled, allFlagName, false, allFlagUsage)
	command.Flags().StringVar(&options.configPath, configFlagName, "", configFlagUsage)

	return command
}

func runListCommand(command *cobra.Command, options listCommandOptions) error {
	rootConfiguration, err := loadRootConfiguration(options.configPath, "")
	if err != nil {
		return err
	}

	outputWriter := command.OutOrStdout()
	for _, recipe := range rootConfiguration.Recipes {
		if !options.includeDisabled && !recipe.Enabled {
			continue
		}

		recipeStateLabel := enabledStateLabel
		if !recipe.Enabled {
			recipeStateLabel = disabledStateLabel
		}

		if _, writeErr := fmt.Fprintf(outputWriter, listLineFormat, recipe.Name, recipeStateLabel, recipe.Type); writeErr != nil {
			return fmt.Errorf(writeOutputErrorFormat, writeErr)
		}
	}

	return nil
}
