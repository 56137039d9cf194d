package util

import (
	"path/filepath"
	"testing"
)

func TestHomeDir(t *testing.T) {
	home := HomeDir()
	if home == "" {
		t.Error("HomeDir() returned empty string")
	}

	// Verify it's an absolute path
	if !filepath.IsAbs(home) {
		t.Errorf("HomeDir() returned relative path: %s", home)
	}
}

func TestConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	expected := filepath.Join(HomeDir(), ".config", "bookmarkdown")
	if path := ConfigPath(); path != expected {
		t.Errorf("ConfigPath() = %q, want %q", path, expected)
	}
}

func TestConfigPathHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	expected := filepath.Join("/custom/config", "bookmarkdown")
	if path := ConfigPath(); path != expected {
		t.Errorf("ConfigPath() = %q, want %q", path, expected)
	}
}

func TestStatePath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	expected := filepath.Join("/custom/config", "bookmarkdown", "state")
	if path := StatePath(); path != expected {
		t.Errorf("StatePath() = %q, want %q", path, expected)
	}
}

func TestExpandPath(t *testing.T) {
	tests := map[string]struct {
		path    string
		baseDir string
		want    string
	}{
		"tilde alone":        {path: "~", baseDir: "", want: HomeDir()},
		"tilde prefix":       {path: "~/bookmarks", baseDir: "", want: filepath.Join(HomeDir(), "bookmarks")},
		"absolute unchanged": {path: "/etc/bookmarks", baseDir: "/base", want: "/etc/bookmarks"},
		"relative to base":   {path: "bookmarks.json", baseDir: "/base", want: "/base/bookmarks.json"},
		"relative no base":   {path: "bookmarks.json", baseDir: "", want: "bookmarks.json"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := ExpandPath(tt.path, tt.baseDir); got != tt.want {
				t.Errorf("ExpandPath(%q, %q) = %q, want %q", tt.path, tt.baseDir, got, tt.want)
			}
		})
	}
}
