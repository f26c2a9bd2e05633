package cmd

import (
	"github.com/spf13/cobra"

	"copydeps.dev/pkg/copydeps/internal/domain"
)

var debounceFlag string

// watchCmd represents the watch command.
var watchCmd = newWatchCmd()

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <destination>",
		Short: "Copy assets again whenever a project file changes",
		Long: `Run a copy, then keep watching the source directory and start a new run
each time a *.appleseed file is created or written. Stop with Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			copyArgs, err := copyArgsFromConfig(args[0])
			if err != nil {
				return err
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			return watcher.Watch(ctx, domain.WatchArgs{
				CopyArgs: copyArgs,
				Debounce: watchDebounce(),
			})
		},
	}

	cmd.Flags().StringVar(&debounceFlag, debounceFlagName, defaultDebounce.String(), "quiet period after a project change before copying")
	bindFlagToConfig(cmd.Flags().Lookup(debounceFlagName), watchDebounceKey)

	return cmd
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
