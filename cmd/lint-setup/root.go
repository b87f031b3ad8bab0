package lintsetup

import (
	"github.com/spf13/cobra"
)

// NewRootCommand assembles the lint-setup command tree.
func NewRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           rootCommandUse,
		Short:         rootCommandShort,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCommand.AddCommand(newRunCommand())
	rootCommand.AddCommand(newListCommand())
	return rootCommand
}

// Execute runs the root command against os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}
