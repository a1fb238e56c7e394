package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skogai/skoglib/errdefs"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 30*time.Second, cfg.DefaultTimeout)
	assert.Equal(t, int64(10<<20), cfg.MaxOutputSize)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.SearchPaths)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "zero timeout",
			mutate:    func(c *Config) { c.DefaultTimeout = 0 },
			wantField: "default_timeout",
		},
		{
			name:      "negative output size",
			mutate:    func(c *Config) { c.MaxOutputSize = -1 },
			wantField: "max_output_size",
		},
		{
			name:      "unknown log level",
			mutate:    func(c *Config) { c.LogLevel = "loud" },
			wantField: "log_level",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, errdefs.ErrConfigurationInvalid))
			assert.Equal(t, tc.wantField, errdefs.GetContext(err)["field"])
		})
	}
}

func TestValidate_SearchPathNotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	cfg := Default()
	cfg.SearchPaths = []string{file}

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errdefs.ErrConfigurationInvalid))
	assert.Equal(t, file, errdefs.GetContext(err)["raw_value"])
}

func TestValidate_MissingSearchPathWarnsOnly(t *testing.T) {
	cfg := Default()
	cfg.SearchPaths = []string{filepath.Join(t.TempDir(), "absent")}

	require.NoError(t, cfg.Validate())
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, Default().DefaultTimeout, cfg.DefaultTimeout)
	assert.Equal(t, Default().MaxOutputSize, cfg.MaxOutputSize)
}

func TestFromEnv_Overrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SKOGLIB_DEFAULT_TIMEOUT", "5")
	t.Setenv("SKOGLIB_MAX_OUTPUT_SIZE", "1024")
	t.Setenv("SKOGLIB_LOG_LEVEL", "DEBUG")
	t.Setenv("SKOGLIB_SEARCH_PATHS", dir)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.DefaultTimeout)
	assert.Equal(t, int64(1024), cfg.MaxOutputSize)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{dir}, cfg.SearchPaths)
}

func TestFromEnv_DurationString(t *testing.T) {
	t.Setenv("SKOGLIB_DEFAULT_TIMEOUT", "1m30s")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.DefaultTimeout)
}

func TestFromEnv_FractionalSeconds(t *testing.T) {
	t.Setenv("SKOGLIB_DEFAULT_TIMEOUT", "0.5")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, cfg.DefaultTimeout)
}

func TestFromEnv_BadValues(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		wantField string
	}{
		{name: "garbage timeout", key: "SKOGLIB_DEFAULT_TIMEOUT", value: "soon", wantField: "default_timeout"},
		{name: "negative timeout", key: "SKOGLIB_DEFAULT_TIMEOUT", value: "-3", wantField: "default_timeout"},
		{name: "garbage output size", key: "SKOGLIB_MAX_OUTPUT_SIZE", value: "big", wantField: "max_output_size"},
		{name: "unknown log level", key: "SKOGLIB_LOG_LEVEL", value: "loudest", wantField: "log_level"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)

			_, err := FromEnv()
			require.Error(t, err)
			assert.True(t, errors.Is(err, errdefs.ErrConfigurationInvalid))

			ctx := errdefs.GetContext(err)
			assert.Equal(t, tc.wantField, ctx["field"])
			assert.Equal(t, tc.value, ctx["raw_value"])
		})
	}
}

func TestGet_Singleton(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	first, err := Get()
	require.NoError(t, err)
	second, err := Get()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestGet_ConcurrentFirstUse(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	const goroutines = 16
	results := make([]*Config, goroutines)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cfg, err := Get()
			if err != nil {
				t.Error(err)
				return
			}
			results[i] = cfg
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		assert.Same(t, results[0], results[i])
	}
}

func TestReset_PicksUpNewEnvironment(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	before, err := Get()
	require.NoError(t, err)
	assert.Equal(t, Default().DefaultTimeout, before.DefaultTimeout)

	t.Setenv("SKOGLIB_DEFAULT_TIMEOUT", "2")
	Reset()

	after, err := Get()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, after.DefaultTimeout)
}

func TestMerge(t *testing.T) {
	base := Default()
	base.SearchPaths = []string{"/base/bin"}

	merged := Merge(base, &Config{
		DefaultTimeout: 5 * time.Second,
		SearchPaths:    []string{"/override/bin"},
	})

	assert.Equal(t, 5*time.Second, merged.DefaultTimeout)
	assert.Equal(t, base.MaxOutputSize, merged.MaxOutputSize)
	assert.Equal(t, base.LogLevel, merged.LogLevel)
	assert.Equal(t, []string{"/override/bin"}, merged.SearchPaths)

	// Inputs stay untouched.
	assert.Equal(t, 30*time.Second, base.DefaultTimeout)
	assert.Equal(t, []string{"/base/bin"}, base.SearchPaths)
}

func TestMerge_NilOverrides(t *testing.T) {
	base := Default()
	merged := Merge(base, nil)

	assert.Equal(t, base.DefaultTimeout, merged.DefaultTimeout)
	assert.NotSame(t, base, merged)
}

func TestParseTimeout(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "5", want: 5 * time.Second},
		{in: "0.25", want: 250 * time.Millisecond},
		{in: "45s", want: 45 * time.Second},
		{in: "2m", want: 2 * time.Minute},
		{in: "0", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "-5s", wantErr: true},
		{in: "soon", wantErr: true},
	}

	for _, tc := range tests {
		got, err := parseTimeout(tc.in)
		if tc.wantErr {
			assert.Error(t, err, "parseTimeout(%q)", tc.in)
			continue
		}
		require.NoError(t, err, "parseTimeout(%q)", tc.in)
		assert.Equal(t, tc.want, got, "parseTimeout(%q)", tc.in)
	}
}
