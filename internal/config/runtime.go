package config

import (
	"os"
	"path/filepath"
)

const defaultRuntimeDir = ".lexbot"

// GetRuntimePath resolves the runtime directory before any env file is
// loaded, so only the process environment is consulted.
func GetRuntimePath() string {
	path := os.Getenv("LEXBOT_RUNTIME_PATH")
	if path == "" {
		path = defaultRuntimeDir
	}

	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return path
}
