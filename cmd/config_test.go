package cmd

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "copydeps", configBaseName)
	assert.Equal(t, "copydeps.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "source", sourceFlagName)
	assert.Equal(t, "parallel", parallelFlagName)
	assert.Equal(t, "keep-going", keepGoingFlagName)
	assert.Equal(t, "source.dir", sourceDirKey)
	assert.Equal(t, "copy.layout", layoutKey)
	assert.Equal(t, "copy.parallel", parallelKey)
	assert.Equal(t, "copy.keep_going", keepGoingKey)
	assert.Equal(t, "copy.manifest", manifestKey)
	assert.Equal(t, "watch.debounce", watchDebounceKey)
	assert.Equal(t, ".", defaultSourceDir)
	assert.Equal(t, "relative", defaultLayout)
	assert.Equal(t, 1, defaultParallel)
	assert.Equal(t, false, defaultKeepGoing)
	assert.Equal(t, "COPYDEPS", envPrefix)
}

func TestConfigVersionConstants(t *testing.T) {
	assert.Equal(t, "version", configVersionKey)
	assert.Equal(t, 1, currentConfigVersion)
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelWarn},
		{"debug", slog.LevelDebug},
		{" INFO ", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"-4", slog.LevelDebug},
		{"loud", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.in, slog.LevelWarn))
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	const key = "COPYDEPS_TEST_DOTENV_VALUE"

	t.Run("exports unset variables", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte(key+"=from-file\n"), 0o644))
		t.Cleanup(func() { _ = os.Unsetenv(key) })

		require.NoError(t, loadDotEnv(path))
		assert.Equal(t, "from-file", os.Getenv(key))
	})

	t.Run("existing environment wins", func(t *testing.T) {
		t.Setenv(key, "from-env")

		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte(key+"=from-file\n"), 0o644))

		require.NoError(t, loadDotEnv(path))
		assert.Equal(t, "from-env", os.Getenv(key))
	})

	t.Run("missing file is ignored", func(t *testing.T) {
		require.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), ".env")))
	})
}

func TestReadConfigFile(t *testing.T) {
	t.Run("missing file is ignored", func(t *testing.T) {
		t.Chdir(t.TempDir())

		require.NoError(t, readConfigFile())
	})

	t.Run("malformed file is reported", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte("copy:\n  parallel: [4\n"), 0o644))
		t.Chdir(dir)

		err := readConfigFile()
		require.Error(t, err)
		assert.Contains(t, err.Error(), configFileName)
	})
}

func TestReportStartupErrors(t *testing.T) {
	previousConfigErr, previousDotEnvErr := configErr, dotEnvErr
	t.Cleanup(func() { configErr, dotEnvErr = previousConfigErr, previousDotEnvErr })

	t.Run("warns about a broken config file", func(t *testing.T) {
		configErr = errors.New("read ./copydeps.yaml: yaml: line 2: did not find expected ',' or ']'")
		dotEnvErr = nil

		errOut := &bytes.Buffer{}
		reportStartupErrors(errOut)

		assert.Contains(t, errOut.String(), "warning: read ./copydeps.yaml")
		assert.Contains(t, errOut.String(), "(using defaults)")
	})

	t.Run("silent when configuration loaded", func(t *testing.T) {
		configErr, dotEnvErr = nil, nil

		errOut := &bytes.Buffer{}
		reportStartupErrors(errOut)

		assert.Empty(t, errOut.String())
	})
}

func TestConfigureLogger_WritesToFile(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	logPath := filepath.Join(t.TempDir(), "copydeps.log")
	configureLogger(logPath, true)

	slog.Debug("debug line", "project", "scene.appleseed")

	contents, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "debug line")
	assert.Contains(t, string(contents), "project=scene.appleseed")
}

func TestWatchDebounce(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		assert.Equal(t, defaultDebounce, watchDebounce())
	})

	t.Run("milliseconds from the environment", func(t *testing.T) {
		t.Setenv("COPYDEPS_WATCH_DEBOUNCE", "250")
		assert.Equal(t, 250*time.Millisecond, watchDebounce())
	})

	t.Run("duration from the environment", func(t *testing.T) {
		t.Setenv("COPYDEPS_WATCH_DEBOUNCE", "2s")
		assert.Equal(t, 2*time.Second, watchDebounce())
	})
}
