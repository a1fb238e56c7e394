// Package config provides process-wide configuration for skoglib.
//
// The configuration is a lazily-initialized singleton: the first Get call
// loads built-in defaults, applies SKOGLIB_* environment overrides and caches
// the result under mutual exclusion. Reset clears both the settings and the
// executable resolution cache, which is mainly useful for test isolation.
// Explicit instances built with Default, FromEnv or Merge can be injected
// into a runner instead of the singleton.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/skogai/skoglib/errdefs"
	"github.com/skogai/skoglib/logging"
)

// EnvPrefix is the prefix for configuration environment variables.
const EnvPrefix = "SKOGLIB"

// Built-in defaults.
const (
	DefaultTimeout       = 30 * time.Second
	DefaultMaxOutputSize = 10 << 20 // 10 MiB per captured stream
	DefaultLogLevel      = "info"
)

// validate is the shared validator instance.
var validate = validator.New()

// Config is the process-wide settings snapshot.
//
// All fields are read-only after construction except the internal resolution
// cache, which is guarded for concurrent use. A zero Config is usable but
// uncached; prefer Default or FromEnv.
type Config struct {
	// DefaultTimeout bounds executions that do not set their own timeout.
	DefaultTimeout time.Duration `validate:"gt=0"`

	// MaxOutputSize caps each captured output stream, in bytes.
	MaxOutputSize int64 `validate:"gt=0"`

	// LogLevel is the default severity for the logging bridge.
	LogLevel string `validate:"oneof=debug info warn error"`

	// SearchPaths are consulted, in order, before the host PATH when
	// resolving bare executable names.
	SearchPaths []string

	// cache maps executable name to validated absolute path.
	cache *resolveCache
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DefaultTimeout: DefaultTimeout,
		MaxOutputSize:  DefaultMaxOutputSize,
		LogLevel:       DefaultLogLevel,
		cache:          newResolveCache(),
	}
}

// Validate checks the configuration values, returning a ConfigurationInvalid
// error naming the offending field on failure.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return errdefs.NewConfigurationInvalid(
				fieldName(fe.Field()),
				fe.Value(),
				fmt.Sprintf("failed %q constraint", fe.Tag()),
				nil,
			)
		}
		return err
	}

	// A search path that exists but is not a directory is a configuration
	// mistake; a missing one is only worth a warning.
	logger := logging.GetLogger("config")
	for _, p := range c.SearchPaths {
		fi, err := os.Stat(p)
		if err != nil {
			logger.Warn("search path does not exist", zap.String("path", p))
			continue
		}
		if !fi.IsDir() {
			return errdefs.NewConfigurationInvalid("search_paths", p, "not a directory", nil)
		}
	}
	return nil
}

// fieldName maps Go struct field names to their configuration names.
func fieldName(goField string) string {
	switch goField {
	case "DefaultTimeout":
		return "default_timeout"
	case "MaxOutputSize":
		return "max_output_size"
	case "LogLevel":
		return "log_level"
	case "SearchPaths":
		return "search_paths"
	default:
		return goField
	}
}

// Singleton state. The pointer is read lock-free; initialization and reset
// are serialized by the mutex so two concurrent first accesses cannot run
// the loading side effects twice.
var (
	mu      sync.Mutex
	current atomic.Pointer[Config]
)

// Get returns the process-wide configuration, loading it from the
// environment on first use.
func Get() (*Config, error) {
	if c := current.Load(); c != nil {
		return c, nil
	}

	mu.Lock()
	defer mu.Unlock()
	if c := current.Load(); c != nil {
		return c, nil
	}

	c, err := FromEnv()
	if err != nil {
		return nil, err
	}
	current.Store(c)
	return c, nil
}

// Reset clears the cached configuration and its resolution cache. The next
// Get re-initializes lazily. Intended for test isolation.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	if c := current.Load(); c != nil {
		c.cache.clear()
	}
	current.Store(nil)
	logging.GetLogger("config").Debug("configuration reset")
}

// FromEnv loads built-in defaults and applies environment overrides using
// the SKOGLIB_ prefix and upper-cased field names:
//
//	SKOGLIB_DEFAULT_TIMEOUT   seconds (number) or a Go duration string
//	SKOGLIB_MAX_OUTPUT_SIZE   bytes
//	SKOGLIB_LOG_LEVEL         debug|info|warn|error
//	SKOGLIB_SEARCH_PATHS      list-separator-joined directories
//
// A value that fails coercion yields a ConfigurationInvalid error carrying
// the field, the raw value and the parse failure as cause.
func FromEnv() (*Config, error) {
	c := Default()

	if v, ok := os.LookupEnv(EnvPrefix + "_DEFAULT_TIMEOUT"); ok {
		d, err := parseTimeout(v)
		if err != nil {
			return nil, errdefs.NewConfigurationInvalid(
				"default_timeout", v, "must be seconds or a duration string", err)
		}
		c.DefaultTimeout = d
	}

	if v, ok := os.LookupEnv(EnvPrefix + "_MAX_OUTPUT_SIZE"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, errdefs.NewConfigurationInvalid(
				"max_output_size", v, "must be an integer byte count", err)
		}
		c.MaxOutputSize = n
	}

	if v, ok := os.LookupEnv(EnvPrefix + "_LOG_LEVEL"); ok {
		c.LogLevel = strings.ToLower(v)
	}

	if v, ok := os.LookupEnv(EnvPrefix + "_SEARCH_PATHS"); ok {
		for _, p := range filepath.SplitList(v) {
			if strings.TrimSpace(p) != "" {
				c.SearchPaths = append(c.SearchPaths, p)
			}
		}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	logging.GetLogger("config").Debug("configuration loaded",
		zap.Duration("default_timeout", c.DefaultTimeout),
		zap.Int64("max_output_size", c.MaxOutputSize),
		zap.String("log_level", c.LogLevel),
		zap.Int("search_paths", len(c.SearchPaths)),
	)
	return c, nil
}

// parseTimeout accepts a bare number of seconds or a Go duration string.
func parseTimeout(v string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("timeout must be positive")
		}
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive")
	}
	return d, nil
}

// Merge returns a new configuration with overrides' set fields taking
// precedence over base. Zero-valued override fields keep base's value.
// Neither input is mutated; the result starts with an empty resolution cache.
func Merge(base, overrides *Config) *Config {
	out := &Config{
		DefaultTimeout: base.DefaultTimeout,
		MaxOutputSize:  base.MaxOutputSize,
		LogLevel:       base.LogLevel,
		SearchPaths:    append([]string(nil), base.SearchPaths...),
		cache:          newResolveCache(),
	}
	if overrides == nil {
		return out
	}

	if overrides.DefaultTimeout > 0 {
		out.DefaultTimeout = overrides.DefaultTimeout
	}
	if overrides.MaxOutputSize > 0 {
		out.MaxOutputSize = overrides.MaxOutputSize
	}
	if overrides.LogLevel != "" {
		out.LogLevel = overrides.LogLevel
	}
	if overrides.SearchPaths != nil {
		out.SearchPaths = append([]string(nil), overrides.SearchPaths...)
	}
	return out
}
