package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCopyStatus_String(t *testing.T) {
	tests := []struct {
		status CopyStatus
		want   string
	}{
		{Copied, "copied"},
		{AlreadyCopied, "already copied"},
		{Skipped, "skipped"},
		{Failed, "failed"},
		{Planned, "planned"},
		{CopyStatus(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.String())
		})
	}
}

func TestRunSummary_Totals(t *testing.T) {
	summary := RunSummary{
		Projects: []ProjectReport{
			{
				Project: ProjectFile{Path: "/show/a.appleseed"},
				Outcomes: []CopyOutcome{
					{Source: "/show/sky.exr", Status: Copied},
					{Source: "/show/wall.png", Status: Skipped},
				},
			},
			{
				Project: ProjectFile{Path: "/show/b.appleseed"},
				Outcomes: []CopyOutcome{
					{Source: "/show/sky.exr", Status: AlreadyCopied},
					{Source: "/show/mesh.obj", Status: Copied},
					{Source: "/show/gone.obj", Status: Failed, Err: errors.New("boom")},
				},
			},
		},
	}

	assert.Equal(t, 2, summary.Total(Copied))
	assert.Equal(t, 1, summary.Total(Skipped))
	assert.Equal(t, 1, summary.Total(AlreadyCopied))
	assert.Equal(t, 1, summary.Total(Failed))
	assert.Equal(t, 0, summary.Total(Planned))
	assert.Len(t, summary.Outcomes(), 5)
	assert.Equal(t, 1, summary.Projects[1].Count(Copied))
}

func TestDependencySet(t *testing.T) {
	set := NewDependencySet()
	set.Add("/b")
	set.Add("/a")
	set.Add("/b")

	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Has("/a"))
	assert.False(t, set.Has("/c"))
	assert.Equal(t, []Path{"/a", "/b"}, set.Sorted())
}

func TestProjectFile_Dir(t *testing.T) {
	project := ProjectFile{Path: Path("/show/scenes/shot.appleseed")}
	assert.Equal(t, Path("/show/scenes"), project.Dir())
	assert.Equal(t, "/show/scenes/shot.appleseed", project.String())
}

func TestParseCopyStatus(t *testing.T) {
	for _, status := range []CopyStatus{Copied, AlreadyCopied, Skipped, Failed, Planned} {
		got, ok := ParseCopyStatus(status.String())
		assert.True(t, ok)
		assert.Equal(t, status, got)
	}

	_, ok := ParseCopyStatus("exploded")
	assert.False(t, ok)
}
