package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// EnvConfig names a config file when -config is not given.
const EnvConfig = "MESHCOLLIDE_CONFIG"

// Load builds the effective config: defaults, then the config file, then flags.
// The result is validated.
func Load() (*Config, error) {
	cfg := Default()

	if path := configSource(); path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// configSource picks the file to load. A path from -config or the environment
// must exist; the search locations are optional.
func configSource() string {
	if path := ConfigPath(); path != "" {
		return path
	}
	if path := os.Getenv(EnvConfig); path != "" {
		return path
	}
	return findConfigFile()
}

// findConfigFile returns the first of ./meshcollide.yaml and
// ConfigDir()/meshcollide.yaml that exists.
func findConfigFile() string {
	for _, path := range []string{FileName, DefaultPath()} {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the per-user config directory for the current OS.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "MeshCollide")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "MeshCollide")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "meshcollide")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "meshcollide")
	}
}

// loadFromFile merges a YAML file over cfg. Unknown keys are rejected so that a
// misspelled setting is reported instead of silently keeping its default.
// An empty file leaves cfg unchanged.
func loadFromFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
