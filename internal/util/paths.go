package util

import (
	"os"
	"path/filepath"
	"strings"
)

// HomeDir returns the user's home directory
func HomeDir() string {
	home, _ := os.UserHomeDir()
	return home
}

// ConfigPath returns the bookmarkdown config directory, honoring
// XDG_CONFIG_HOME when set.
func ConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "bookmarkdown")
	}
	return filepath.Join(HomeDir(), ".config", "bookmarkdown")
}

// StatePath returns the directory holding per-document sync state.
func StatePath() string {
	return filepath.Join(ConfigPath(), "state")
}

// ExpandPath resolves a leading ~ to the home directory and relative paths
// against baseDir.
func ExpandPath(path, baseDir string) string {
	if path == "~" {
		return HomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(HomeDir(), path[2:])
	}
	if !filepath.IsAbs(path) && baseDir != "" {
		return filepath.Join(baseDir, path)
	}
	return path
}
