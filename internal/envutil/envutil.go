// Package envutil provides environment variable utilities.
package envutil

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Snapshot returns the current process environment merged with overrides.
// Explicit override values win over inherited ones; inherited variables are
// never removed. The result is sorted for deterministic spawns.
func Snapshot(overrides map[string]string) []string {
	inherited := os.Environ()
	if len(overrides) == 0 {
		return inherited
	}

	merged := make(map[string]string, len(inherited)+len(overrides))
	for _, kv := range inherited {
		if idx := strings.IndexByte(kv, '='); idx > 0 {
			merged[kv[:idx]] = kv[idx+1:]
		}
	}
	for k, v := range overrides {
		merged[k] = v
	}

	return Build(merged)
}

// Merge merges base with override maps. Override values take precedence.
func Merge(base, override map[string]string) map[string]string {
	result := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		result[k] = v
	}
	for k, v := range override {
		result[k] = v
	}
	return result
}

// Build creates a sorted KEY=value slice from an environment map.
func Build(env map[string]string) []string {
	result := make([]string, 0, len(env))
	for k, v := range env {
		result = append(result, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(result)
	return result
}
