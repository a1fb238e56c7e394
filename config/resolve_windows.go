//go:build windows

package config

import (
	"os"
	"path/filepath"
	"strings"
)

// hasExecMode reports whether the file extension marks it runnable.
func hasExecMode(path string, _ os.FileInfo) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".exe", ".bat", ".cmd", ".com":
		return true
	default:
		return false
	}
}
