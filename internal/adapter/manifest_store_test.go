package adapter

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "copydeps.dev/pkg/copydeps/internal/model"
)

func TestYAMLManifestStore_SaveWritesTotalsAndErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewManifestStore(NewAssetFSAdapter(fs))

	started := time.Date(2013, time.May, 1, 10, 0, 0, 0, time.UTC)
	summary := m.RunSummary{
		Source:      "/show",
		Destination: "/out",
		StartedAt:   started,
		FinishedAt:  started.Add(time.Minute),
		Projects: []m.ProjectReport{
			{
				Project:      m.ProjectFile{Path: "/show/shot.appleseed"},
				Extracted:    true,
				Dependencies: 2,
				Outcomes: []m.CopyOutcome{
					{Source: "/show/sky.exr", Destination: "/out/show/sky.exr", Status: m.Copied, Kind: m.KindTexture, Size: 12},
					{Source: "/show/gone.obj", Destination: "/out/show/gone.obj", Status: m.Failed, Kind: m.KindMesh, Err: errors.New("no such file")},
				},
			},
			{
				Project: m.ProjectFile{Path: "/show/broken.appleseed"},
			},
		},
	}

	require.NoError(t, store.Save("/out/manifest.yaml", summary))

	content, err := afero.ReadFile(fs, "/out/manifest.yaml")
	require.NoError(t, err)

	text := string(content)
	assert.Contains(t, text, "version: 1")
	assert.Contains(t, text, "copied: 1")
	assert.Contains(t, text, "failed: 1")
	assert.Contains(t, text, "error: no such file")
	assert.Contains(t, text, "kind: texture")

	loaded, err := store.Load("/out/manifest.yaml")
	require.NoError(t, err)

	assert.Equal(t, summary.Destination, loaded.Destination)
	assert.True(t, summary.StartedAt.Equal(loaded.StartedAt))
	require.Len(t, loaded.Projects, 2)
	assert.False(t, loaded.Projects[1].Extracted)
	require.Len(t, loaded.Projects[0].Outcomes, 2)
	assert.Equal(t, m.Failed, loaded.Projects[0].Outcomes[1].Status)
	require.Error(t, loaded.Projects[0].Outcomes[1].Err)
	assert.Equal(t, "no such file", loaded.Projects[0].Outcomes[1].Err.Error())
}

func TestYAMLManifestStore_LoadRejectsUnknownData(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewManifestStore(NewAssetFSAdapter(fs))

	t.Run("missing file", func(t *testing.T) {
		_, err := store.Load("/nope.yaml")
		require.Error(t, err)
	})

	t.Run("wrong version", func(t *testing.T) {
		require.NoError(t, afero.WriteFile(fs, "/v2.yaml", []byte("version: 2\n"), 0o644))

		_, err := store.Load("/v2.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported version")
	})

	t.Run("unknown status", func(t *testing.T) {
		doc := "version: 1\nprojects:\n  - path: /a.appleseed\n    assets:\n      - source: /a\n        destination: /b\n        status: exploded\n"
		require.NoError(t, afero.WriteFile(fs, "/bad.yaml", []byte(doc), 0o644))

		_, err := store.Load("/bad.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown status")
	})
}
