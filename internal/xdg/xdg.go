// Package xdg provides helpers to resolve XDG Base Directory paths for querydeck.
// It implements the XDG Base Directory specification for determining where the
// configuration file and the console log live, falling back to the traditional
// locations under the home directory when the XDG variables are unset.
package xdg

import (
	"os"
	"path/filepath"
)

const appName = "querydeck"

// ConfigDir returns the XDG config directory for querydeck.
// The directory is created with private permissions (0700) if missing.
// It falls back to ~/.config/querydeck when XDG_CONFIG_HOME is unset.
func ConfigDir() (string, error) {
	return ensure("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the XDG state directory for querydeck.
// The directory is created with private permissions (0700) if missing.
// It falls back to ~/.local/state/querydeck when XDG_STATE_HOME is unset.
func StateDir() (string, error) {
	return ensure("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func ensure(env, fallback string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, fallback)
	}
	dir := filepath.Join(base, appName)
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}
