package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// AppDirName is the directory under the XDG base dirs that holds translater files.
const AppDirName = "translater"

// Dir returns $XDG_CONFIG_HOME/translater, falling back to ~/.config/translater.
func Dir() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, AppDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.New("unable to resolve user home for config dir fallback")
	}
	return filepath.Join(home, ".config", AppDirName), nil
}

// FilePath returns explicit when set, otherwise name inside Dir.
func FilePath(explicit, name string) (string, error) {
	if strings.TrimSpace(explicit) != "" {
		return explicit, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// ResolvePath locates config.yaml: --config, then the config dir.
func ResolvePath(explicit string) (string, error) {
	return FilePath(explicit, "config.yaml")
}
