package cmd

import (
	"bytes"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd_Output(t *testing.T) {
	cmd := newVersionCmd()

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())

	output := out.String()
	assert.True(t, strings.HasPrefix(output, "copydeps "), output)

	if output != "copydeps unknown\n" {
		assert.Contains(t, output, "go        go")
	}
}

func TestVersionCmd_RejectsArguments(t *testing.T) {
	cmd := newVersionCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"extra"})

	require.Error(t, cmd.Execute())
}

func TestFormatBuildInfo(t *testing.T) {
	tests := []struct {
		name string
		info *debug.BuildInfo
		want string
	}{
		{
			name: "tagged release",
			info: &debug.BuildInfo{
				GoVersion: "go1.25.1",
				Main:      debug.Module{Path: "copydeps.dev/pkg/copydeps", Version: "v1.2.0"},
			},
			want: "copydeps v1.2.0\ngo        go1.25.1\n",
		},
		{
			name: "local build with VCS state",
			info: &debug.BuildInfo{
				GoVersion: "go1.25.1",
				Main:      debug.Module{Path: "copydeps.dev/pkg/copydeps", Version: "(devel)"},
				Settings: []debug.BuildSetting{
					{Key: "vcs", Value: "git"},
					{Key: "vcs.revision", Value: "4f1c2e9"},
					{Key: "vcs.modified", Value: "true"},
				},
			},
			want: "copydeps devel\nrevision  4f1c2e9\nmodified  true\ngo        go1.25.1\n",
		},
		{
			name: "clean tree omits the modified line",
			info: &debug.BuildInfo{
				GoVersion: "go1.25.1",
				Settings:  []debug.BuildSetting{{Key: "vcs.modified", Value: "false"}},
			},
			want: "copydeps devel\ngo        go1.25.1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatBuildInfo(tt.info))
		})
	}
}
