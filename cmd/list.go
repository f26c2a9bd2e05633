package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"copydeps.dev/pkg/copydeps/internal/domain"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List project files and the assets they reference",
		Long: `List every *.appleseed file in the source directory together with the
resolved paths of the assets it references. Missing assets are marked.
Nothing is copied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			source, err := expandPath(viper.GetString(sourceDirKey))
			if err != nil {
				return err
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			return workflow.List(ctx, domain.ListArgs{Source: source})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
