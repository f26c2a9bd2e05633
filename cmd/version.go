package cmd

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the copydeps version",
		Long:  "Print the copydeps module version, the VCS revision it was built from and the Go toolchain version.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			info, ok := debug.ReadBuildInfo()
			if !ok {
				cmd.Println("copydeps unknown")
				return
			}

			cmd.Print(formatBuildInfo(info))
		},
	}
}

// formatBuildInfo renders the module version, the VCS state recorded by the
// go command and the toolchain version.
func formatBuildInfo(info *debug.BuildInfo) string {
	version := info.Main.Version
	if version == "" || version == "(devel)" {
		version = "devel"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "copydeps %s\n", version)

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			fmt.Fprintf(&b, "revision  %s\n", setting.Value)
		case "vcs.modified":
			if setting.Value == "true" {
				b.WriteString("modified  true\n")
			}
		}
	}

	fmt.Fprintf(&b, "go        %s\n", info.GoVersion)

	return b.String()
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
