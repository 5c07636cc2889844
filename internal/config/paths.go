// Package config resolves where litedo keeps its local state.
package config

import (
	"os"
	"path/filepath"
)

// DirName is the name of the litedo state directory under the home dir.
const DirName = ".litedo"

// GetGlobalConfigDir returns the path to the global state directory (~/.litedo).
// It's a variable to allow overriding in tests.
var GetGlobalConfigDir = func() (string, error) {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "litedo"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DirName), nil
}
