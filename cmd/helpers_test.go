package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

// executeCommand runs cmd with args, keeping the log file inside the test's
// temporary directory, and returns what it printed.
func executeCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(args, "--"+logFileFlagName, filepath.Join(t.TempDir(), "copydeps.log")))

	err := cmd.Execute()

	return out.String(), err
}
