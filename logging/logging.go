// Package logging provides the namespaced logging bridge for skoglib.
//
// All log records emitted by the library flow through loggers obtained from
// GetLogger, which scopes them under the "skoglib" root namespace so they can
// be identified and filtered as a group. The bridge is configured once per
// process via Configure or ConfigureFromEnv; until then a lazy default
// configuration (warn level, simple format, stderr) is applied.
package logging

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// RootNamespace is the fixed root under which all skoglib loggers are named.
const RootNamespace = "skoglib"

// envPrefix is the prefix for logging environment variables.
const envPrefix = "SKOGLIB_LOG_"

// Format styles for log records.
const (
	// FormatSimple emits time, level, logger name and message.
	FormatSimple = "simple"

	// FormatDetailed additionally records the caller location.
	FormatDetailed = "detailed"
)

// Destinations for log output.
const (
	// DestinationConsole writes to standard error.
	DestinationConsole = "console"

	// DestinationFile writes to a rotating log file.
	DestinationFile = "file"
)

// DefaultSlowThreshold is the elapsed time above which a Timer logs.
const DefaultSlowThreshold = 10 * time.Millisecond

// Options configures the logging bridge.
type Options struct {
	// Level is the minimum severity: debug, info, warn or error.
	Level string

	// Format is FormatSimple or FormatDetailed.
	Format string

	// Destination is DestinationConsole or DestinationFile.
	Destination string

	// FilePath is the log file location for DestinationFile.
	FilePath string

	// FileSizeLimit is the rotation threshold in megabytes.
	FileSizeLimit int

	// FileBackupCount is how many rotated files to keep.
	FileBackupCount int

	// Output overrides the destination with an arbitrary writer.
	// Intended for tests and embedding hosts.
	Output zapcore.WriteSyncer

	// SlowThreshold is the Timer logging threshold. Zero keeps the default.
	SlowThreshold time.Duration
}

// DefaultOptions returns the built-in logging configuration.
func DefaultOptions() Options {
	return Options{
		Level:           "warn",
		Format:          FormatSimple,
		Destination:     DestinationConsole,
		FileSizeLimit:   10,
		FileBackupCount: 5,
		SlowThreshold:   DefaultSlowThreshold,
	}
}

var (
	mu            sync.RWMutex
	root          *zap.Logger
	level         = zap.NewAtomicLevelAt(zap.WarnLevel)
	slowThreshold = DefaultSlowThreshold
)

// GetLogger returns a logger scoped under the skoglib root namespace.
// GetLogger("config") yields records named "skoglib.config". An empty name
// or RootNamespace itself returns the root logger.
func GetLogger(name string) *zap.Logger {
	r := rootLogger()
	if name == "" || name == RootNamespace {
		return r
	}
	return r.Named(name)
}

// rootLogger returns the configured root, applying defaults on first use.
func rootLogger() *zap.Logger {
	mu.RLock()
	r := root
	mu.RUnlock()
	if r != nil {
		return r
	}

	// First use without explicit configuration. Configure is idempotent
	// for identical options, so a racing explicit Configure call wins.
	//nolint:errcheck // defaults cannot fail to apply
	_ = Configure(DefaultOptions())

	mu.RLock()
	defer mu.RUnlock()
	return root
}

// Configure applies the given options process-wide. Loggers obtained after
// the call use the new configuration; the level change applies immediately
// to all previously obtained loggers as well.
func Configure(opts Options) error {
	lvl, err := parseLevel(opts.Level)
	if err != nil {
		return err
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}

	detailed := opts.Format == FormatDetailed
	if detailed {
		encCfg.CallerKey = "caller"
		encCfg.EncodeCaller = zapcore.ShortCallerEncoder
	} else if opts.Format != "" && opts.Format != FormatSimple {
		return fmt.Errorf("unknown log format %q", opts.Format)
	}

	sink, err := buildSink(opts)
	if err != nil {
		return err
	}

	level.SetLevel(lvl)
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), sink, level)

	zapOpts := []zap.Option{zap.ErrorOutput(zapcore.Lock(os.Stderr))}
	if detailed {
		zapOpts = append(zapOpts, zap.AddCaller())
	}
	logger := zap.New(core, zapOpts...).Named(RootNamespace)

	threshold := opts.SlowThreshold
	if threshold <= 0 {
		threshold = DefaultSlowThreshold
	}

	mu.Lock()
	root = logger
	slowThreshold = threshold
	mu.Unlock()
	return nil
}

// buildSink selects the write target for log records.
func buildSink(opts Options) (zapcore.WriteSyncer, error) {
	if opts.Output != nil {
		return opts.Output, nil
	}
	switch opts.Destination {
	case "", DestinationConsole:
		return zapcore.Lock(os.Stderr), nil
	case DestinationFile:
		if opts.FilePath == "" {
			return nil, fmt.Errorf("file destination requires a file path")
		}
		return zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    opts.FileSizeLimit,
			MaxBackups: opts.FileBackupCount,
		}), nil
	default:
		return nil, fmt.Errorf("unknown log destination %q", opts.Destination)
	}
}

// ConfigureFromEnv applies logging options sourced from SKOGLIB_LOG_*
// environment variables. Safe to call multiple times; with an unchanged
// environment the result is identical.
//
// Recognized variables:
//
//	SKOGLIB_LOG_LEVEL            debug|info|warn|error
//	SKOGLIB_LOG_FORMAT           simple|detailed
//	SKOGLIB_LOG_FILE             switches to the file destination at this path
//	SKOGLIB_LOG_FILE_SIZE_LIMIT  rotation threshold in megabytes
//	SKOGLIB_LOG_FILE_BACKUPS     rotated files to keep
func ConfigureFromEnv() error {
	opts := DefaultOptions()

	if v := os.Getenv(envPrefix + "LEVEL"); v != "" {
		opts.Level = strings.ToLower(v)
	}
	if v := os.Getenv(envPrefix + "FORMAT"); v != "" {
		opts.Format = strings.ToLower(v)
	}
	if v := os.Getenv(envPrefix + "FILE"); v != "" {
		opts.Destination = DestinationFile
		opts.FilePath = v
	}
	if v := os.Getenv(envPrefix + "FILE_SIZE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid %sFILE_SIZE_LIMIT %q: must be a positive integer", envPrefix, v)
		}
		opts.FileSizeLimit = n
	}
	if v := os.Getenv(envPrefix + "FILE_BACKUPS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid %sFILE_BACKUPS %q: must be a non-negative integer", envPrefix, v)
		}
		opts.FileBackupCount = n
	}

	return Configure(opts)
}

// SetLevel changes the minimum severity for all loggers immediately.
func SetLevel(l zapcore.Level) {
	level.SetLevel(l)
}

// parseLevel converts a level name to a zap level.
func parseLevel(name string) (zapcore.Level, error) {
	switch strings.ToLower(name) {
	case "", "warn", "warning":
		return zap.WarnLevel, nil
	case "debug":
		return zap.DebugLevel, nil
	case "info":
		return zap.InfoLevel, nil
	case "error":
		return zap.ErrorLevel, nil
	default:
		return zap.WarnLevel, fmt.Errorf("unknown log level %q", name)
	}
}
