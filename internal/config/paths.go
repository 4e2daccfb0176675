package config

import (
	"os"
	"path/filepath"
)

// UserConfigPath returns the XDG-compliant user config path
// (~/.config/shiplog/config.yml). XDG_CONFIG_HOME is honored when set.
func UserConfigPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "shiplog", "config.yml"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "shiplog", "config.yml"), nil
}

// ProjectConfigPath returns the project-local config path relative to the
// current working directory (.shiplog/config.yml).
func ProjectConfigPath() string {
	return filepath.Join(".shiplog", "config.yml")
}
