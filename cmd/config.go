package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"copydeps.dev/pkg/copydeps/internal/domain"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "copydeps"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."
	dotEnvFileName   = ".env"

	sourceFlagName    = "source"
	layoutFlagName    = "layout"
	parallelFlagName  = "parallel"
	keepGoingFlagName = "keep-going"
	manifestFlagName  = "manifest"
	verboseFlagName   = "verbose"
	logFileFlagName   = "log-file"
	debounceFlagName  = "debounce"

	sourceDirKey     = "source.dir"
	layoutKey        = "copy.layout"
	parallelKey      = "copy.parallel"
	keepGoingKey     = "copy.keep_going"
	manifestKey      = "copy.manifest"
	watchDebounceKey = "watch.debounce"

	defaultSourceDir = "."
	defaultLayout    = string(domain.LayoutRelative)
	defaultParallel  = 1
	defaultKeepGoing = false
	defaultManifest  = ""
	defaultDebounce  = domain.DefaultDebounce

	envPrefix = "COPYDEPS"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".copydeps.log"
	defaultLogLevel      = "info"
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

// dotEnvErr and configErr hold failures to read .env and copydeps.yaml; they
// are reported once logging is up.
var (
	dotEnvErr error
	configErr error
)

func init() {
	dotEnvErr = loadDotEnv(filepath.Join(configFolderPath, dotEnvFileName))

	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(sourceDirKey, defaultSourceDir)
	viper.SetDefault(layoutKey, defaultLayout)
	viper.SetDefault(parallelKey, defaultParallel)
	viper.SetDefault(keepGoingKey, defaultKeepGoing)
	viper.SetDefault(manifestKey, defaultManifest)
	viper.SetDefault(watchDebounceKey, defaultDebounce.String())

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	configErr = readConfigFile()
}

// readConfigFile loads copydeps.yaml into viper. A missing file is not an error.
func readConfigFile() error {
	err := viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("read %s: %w", viper.ConfigFileUsed(), err)
}

// loadDotEnv exports the variables of path that are not already set.
// A missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return err
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}

// reportStartupErrors logs configuration problems found before the logger
// existed and warns on the command's error stream about a broken config file.
func reportStartupErrors(errOut io.Writer) {
	if dotEnvErr != nil {
		slog.Warn("Failed to load .env file", "error", dotEnvErr)
	}

	if configErr != nil {
		slog.Warn("Failed to read config file, using defaults", "error", configErr)
		_, _ = fmt.Fprintf(errOut, "warning: %v (using defaults)\n", configErr)
	}
}

// watchDebounce reads the debounce interval, accepting plain milliseconds.
func watchDebounce() time.Duration {
	raw := strings.TrimSpace(viper.GetString(watchDebounceKey))
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Millisecond
	}

	if d := viper.GetDuration(watchDebounceKey); d > 0 {
		return d
	}

	return defaultDebounce
}
