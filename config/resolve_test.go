package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skogai/skoglib/errdefs"
)

// writeFakeExecutable creates an executable file named name under dir and
// returns its path.
func writeFakeExecutable(t *testing.T, dir, name string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("executable bit semantics are unix-only")
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755))
	return path
}

func TestFindExecutable_EmptyName(t *testing.T) {
	_, err := Default().FindExecutable("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errdefs.ErrNotFound))
}

func TestFindExecutable_SearchPaths(t *testing.T) {
	dir := t.TempDir()
	want := writeFakeExecutable(t, dir, "fake-tool")

	cfg := Default()
	cfg.SearchPaths = []string{dir}

	got, err := cfg.FindExecutable("fake-tool")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFindExecutable_ExtraPathsBeforeSearchPaths(t *testing.T) {
	searchDir := t.TempDir()
	extraDir := t.TempDir()
	writeFakeExecutable(t, searchDir, "fake-tool")
	want := writeFakeExecutable(t, extraDir, "fake-tool")

	cfg := Default()
	cfg.SearchPaths = []string{searchDir}

	got, err := cfg.FindExecutable("fake-tool", extraDir)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFindExecutable_SkipsNonExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("executable bit semantics are unix-only")
	}
	plain := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(plain, "fake-tool"), []byte("data"), 0o644))
	execDir := t.TempDir()
	want := writeFakeExecutable(t, execDir, "fake-tool")

	cfg := Default()
	cfg.SearchPaths = []string{plain, execDir}

	got, err := cfg.FindExecutable("fake-tool")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFindExecutable_NotFoundListsSearchedPaths(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()

	cfg := Default()
	cfg.SearchPaths = []string{dirA, dirB}

	_, err := cfg.FindExecutable("definitely-no-such-tool-xyzzy")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errdefs.ErrNotFound))

	searched, ok := errdefs.GetContext(err)["search_paths"].([]string)
	require.True(t, ok)
	assert.Contains(t, searched, dirA)
	assert.Contains(t, searched, dirB)
	for _, p := range filepath.SplitList(os.Getenv("PATH")) {
		if p != "" {
			assert.Contains(t, searched, p)
		}
	}
}

func TestFindExecutable_CacheHit(t *testing.T) {
	dir := t.TempDir()
	path := writeFakeExecutable(t, dir, "fake-tool")

	cfg := Default()
	cfg.SearchPaths = []string{dir}

	first, err := cfg.FindExecutable("fake-tool")
	require.NoError(t, err)

	// A cached entry is served without re-walking the directories.
	require.NoError(t, os.Remove(path))
	second, err := cfg.FindExecutable("fake-tool")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFindExecutable_PathQualified(t *testing.T) {
	dir := t.TempDir()
	path := writeFakeExecutable(t, dir, "fake-tool")

	got, err := Default().FindExecutable(path)
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestFindExecutable_PathQualifiedMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent-tool")

	_, err := Default().FindExecutable(missing)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errdefs.ErrNotFound))

	searched, ok := errdefs.GetContext(err)["search_paths"].([]string)
	require.True(t, ok)
	assert.Equal(t, []string{filepath.Dir(missing)}, searched)
}

func TestFindExecutable_HostPathFallback(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fixture uses unix shell tools")
	}

	got, err := Default().FindExecutable("sh")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}

func TestValidateExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("executable bit semantics are unix-only")
	}
	dir := t.TempDir()
	cfg := Default()

	t.Run("valid", func(t *testing.T) {
		path := writeFakeExecutable(t, dir, "ok-tool")
		require.NoError(t, cfg.ValidateExecutable(path))
	})

	t.Run("missing", func(t *testing.T) {
		err := cfg.ValidateExecutable(filepath.Join(dir, "absent"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, errdefs.ErrConfigurationInvalid))
		assert.Equal(t, "does not exist", errdefs.GetContext(err)["reason"])
	})

	t.Run("directory", func(t *testing.T) {
		err := cfg.ValidateExecutable(dir)
		require.Error(t, err)
		assert.Equal(t, "not a regular file", errdefs.GetContext(err)["reason"])
	})

	t.Run("not executable", func(t *testing.T) {
		path := filepath.Join(dir, "plain-file")
		require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))

		err := cfg.ValidateExecutable(path)
		require.Error(t, err)
		assert.Equal(t, "not executable", errdefs.GetContext(err)["reason"])
	})
}

func TestResolveCache_NilSafety(t *testing.T) {
	var rc *resolveCache

	_, ok := rc.get("anything")
	assert.False(t, ok)
	assert.NotPanics(t, func() {
		rc.put("anything", "/bin/anything")
		rc.clear()
	})
}

func TestResolveCache_Clear(t *testing.T) {
	rc := newResolveCache()
	rc.put("tool", "/bin/tool")

	got, ok := rc.get("tool")
	require.True(t, ok)
	assert.Equal(t, "/bin/tool", got)

	rc.clear()
	_, ok = rc.get("tool")
	assert.False(t, ok)
}
