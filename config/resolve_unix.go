//go:build unix

package config

import "os"

// hasExecMode reports whether the file carries any execute permission bit.
func hasExecMode(_ string, fi os.FileInfo) bool {
	return fi.Mode().Perm()&0o111 != 0
}
