package cmd

import (
	"github.com/spf13/cobra"
)

// planCmd represents the plan command.
var planCmd = newPlanCmd()

func newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan <destination>",
		Short: "Show what a copy would change without writing anything",
		Long: `Perform a dry run against the destination and print the outcome of every
dependency followed by a unified diff of the destination file listing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			copyArgs, err := copyArgsFromConfig(args[0])
			if err != nil {
				return err
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			return workflow.Plan(ctx, copyArgs)
		},
	}
}

func init() {
	rootCmd.AddCommand(planCmd)
}
