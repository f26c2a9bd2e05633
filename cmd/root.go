// Package cmd provides the root command and CLI setup for copydeps.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"copydeps.dev/pkg/copydeps/internal/adapter"
	"copydeps.dev/pkg/copydeps/internal/controller"
	"copydeps.dev/pkg/copydeps/internal/domain"
	m "copydeps.dev/pkg/copydeps/internal/model"
)

var fsAdapter adapter.AssetFSAdapter
var manifestStore adapter.ManifestStore
var classifier adapter.AssetClassifier
var scanner domain.ProjectScanner
var extractor domain.Extractor
var copier domain.Copier
var workflow domain.Workflow
var watcher domain.Watcher
var ui controller.UI

var (
	sourceFlag    string
	layoutFlag    string
	parallelFlag  int
	keepGoingFlag bool
	manifestFlag  string
	verboseFlag   bool
	logFileFlag   string
)

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalAssetFSAdapter()
	manifestStore = adapter.NewManifestStore(fsAdapter)
	classifier = adapter.NewAssetClassifier(fsAdapter)
	scanner = domain.NewProjectScanner(fsAdapter)
	extractor = domain.NewExtractor(fsAdapter)
	copier = domain.NewCopier(fsAdapter, classifier)
	workflow = domain.NewWorkflow(
		fsAdapter,
		manifestStore,
		ui,
		scanner,
		extractor,
		copier,
	)
	watcher = domain.NewWatcher(workflow)
}

const rootLongDescription = `copydeps collects the external files referenced by appleseed project
files and copies them into a destination tree.

Every *.appleseed file directly inside the source directory is parsed; each
file named by a "filename" parameter (or a "filename" parameter group) is
resolved against the project's directory and copied under the destination.
Files that already exist at the destination are never overwritten.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "copydeps <destination>",
		Short: "Copy the assets referenced by appleseed projects",
		Long:  rootLongDescription,
		Args:  cobra.ExactArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
			reportStartupErrors(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			copyArgs, err := copyArgsFromConfig(args[0])
			if err != nil {
				return err
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			_, err = workflow.Copy(ctx, copyArgs)

			return err
		},
	}
}

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringVarP(&sourceFlag, sourceFlagName, "s", defaultSourceDir, "directory scanned for *.appleseed project files")
	bindFlagToConfig(flags.Lookup(sourceFlagName), sourceDirKey)

	flags.StringVar(&layoutFlag, layoutFlagName, defaultLayout, "destination layout: relative (mirror paths under the source directory) or absolute (mirror full paths)")
	bindFlagToConfig(flags.Lookup(layoutFlagName), layoutKey)

	flags.IntVarP(&parallelFlag, parallelFlagName, "p", defaultParallel, "number of parallel copy workers per project")
	bindFlagToConfig(flags.Lookup(parallelFlagName), parallelKey)

	flags.BoolVar(&keepGoingFlag, keepGoingFlagName, defaultKeepGoing, "record failed copies and continue instead of aborting")
	bindFlagToConfig(flags.Lookup(keepGoingFlagName), keepGoingKey)

	flags.StringVarP(&manifestFlag, manifestFlagName, "m", defaultManifest, "write a YAML manifest of the run to this path")
	bindFlagToConfig(flags.Lookup(manifestFlagName), manifestKey)

	flags.BoolVarP(&verboseFlag, verboseFlagName, "v", defaultLogVerbose, "log at debug level")
	bindFlagToConfig(flags.Lookup(verboseFlagName), logVerboseKey)

	flags.StringVar(&logFileFlag, logFileFlagName, defaultLogFilename, "path of the rotating log file")
	bindFlagToConfig(flags.Lookup(logFileFlagName), logFilenameKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// copyArgsFromConfig builds the arguments of a copy or plan run from the
// destination argument and the bound configuration.
func copyArgsFromConfig(destination string) (domain.CopyArgs, error) {
	dest, err := expandPath(destination)
	if err != nil {
		return domain.CopyArgs{}, err
	}

	source, err := expandPath(viper.GetString(sourceDirKey))
	if err != nil {
		return domain.CopyArgs{}, err
	}

	layout, err := domain.ParseLayout(viper.GetString(layoutKey))
	if err != nil {
		return domain.CopyArgs{}, err
	}

	manifest, err := expandPath(viper.GetString(manifestKey))
	if err != nil {
		return domain.CopyArgs{}, err
	}

	return domain.CopyArgs{
		Source:      source,
		Destination: dest,
		Layout:      layout,
		Parallel:    viper.GetInt(parallelKey),
		KeepGoing:   viper.GetBool(keepGoingKey),
		Manifest:    manifest,
	}, nil
}

// expandPath resolves a leading ~ to the user's home directory.
func expandPath(path string) (m.Path, error) {
	if path == "" {
		return "", nil
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", path, err)
	}

	return m.Path(expanded), nil
}

// signalContext cancels on interrupt so an in-flight run stops between copies.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}

	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
