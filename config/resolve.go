package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/skogai/skoglib/errdefs"
	"github.com/skogai/skoglib/logging"
)

// resolveCache maps executable name to validated absolute path. Entries are
// only inserted after the candidate passed the executability check, so a
// cached lookup never hands out an unvalidated path. Concurrent writes for
// the same name resolve last-write-wins.
type resolveCache struct {
	mu    sync.RWMutex
	paths map[string]string
}

func newResolveCache() *resolveCache {
	return &resolveCache{paths: make(map[string]string)}
}

func (rc *resolveCache) get(name string) (string, bool) {
	if rc == nil {
		return "", false
	}
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	p, ok := rc.paths[name]
	return p, ok
}

func (rc *resolveCache) put(name, path string) {
	if rc == nil {
		return
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.paths[name] = path
}

func (rc *resolveCache) clear() {
	if rc == nil {
		return
	}
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.paths = make(map[string]string)
}

// FindExecutable resolves name to an absolute executable path.
//
// A name containing a path separator bypasses the search entirely: it must
// already point at an executable file or a NotFound error is returned. Bare
// names are searched in extraPaths first, then the configured SearchPaths,
// then every directory on the host PATH. A hit is cached; a miss returns a
// NotFound error listing every path that was searched.
func (c *Config) FindExecutable(name string, extraPaths ...string) (string, error) {
	logger := logging.GetLogger("config")

	if name == "" {
		return "", errdefs.NewNotFound(name, nil)
	}

	// Path-qualified names are validated in place.
	if filepath.IsAbs(name) || strings.ContainsRune(name, os.PathSeparator) {
		if isExecutable(name) {
			abs, err := filepath.Abs(name)
			if err != nil {
				return "", errdefs.NewNotFound(name, []string{filepath.Dir(name)})
			}
			return abs, nil
		}
		return "", errdefs.NewNotFound(name, []string{filepath.Dir(name)})
	}

	if hit, ok := c.cache.get(name); ok {
		logger.Debug("resolved from cache",
			zap.String("name", name), zap.String("path", hit))
		return hit, nil
	}

	dirs := make([]string, 0, len(extraPaths)+len(c.SearchPaths))
	dirs = append(dirs, extraPaths...)
	dirs = append(dirs, c.SearchPaths...)
	dirs = append(dirs, filepath.SplitList(os.Getenv("PATH"))...)

	searched := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		searched = append(searched, dir)

		candidate := filepath.Join(dir, name)
		if !isExecutable(candidate) {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		c.cache.put(name, abs)
		logger.Debug("resolved executable",
			zap.String("name", name), zap.String("path", abs))
		return abs, nil
	}

	return "", errdefs.NewNotFound(name, searched)
}

// ValidateExecutable confirms that path exists, is a regular file and is
// executable, returning a ConfigurationInvalid error otherwise.
func (c *Config) ValidateExecutable(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return errdefs.NewConfigurationInvalid("executable", path, "does not exist", err)
	}
	if !fi.Mode().IsRegular() {
		return errdefs.NewConfigurationInvalid("executable", path, "not a regular file", nil)
	}
	if !hasExecMode(path, fi) {
		return errdefs.NewConfigurationInvalid("executable", path, "not executable", nil)
	}
	return nil
}

// isExecutable reports whether path is an existing executable regular file.
func isExecutable(path string) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fi.Mode().IsRegular() && hasExecMode(path, fi)
}
