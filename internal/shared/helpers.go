// Package shared provides common utility functions used across multiple
// packages in the xcsign codebase.
package shared

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome replaces a leading ~ with the current user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// AnchorPath joins a relative path onto base. Absolute paths and an empty
// base leave path unchanged.
func AnchorPath(base string, path string) string {
	if base == "" || path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
