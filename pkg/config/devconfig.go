package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	// LocalConfigFile is the project-local developer config filename.
	LocalConfigFile = "pkgsync.local.toml"
	appName         = "pkgsync"
	envPrefix       = "PKGSYNC"
)

// DevConfig holds developer-specific configuration that is NOT committed
// to version control. It is resolved with Viper precedence:
// CLI flags > PKGSYNC_* environment > pkgsync.local.toml (project-local) >
// $XDG_CONFIG_HOME/pkgsync/config.toml (global).
type DevConfig struct {
	// Conflict is the policy for existing files: prompt, overwrite or ignore.
	Conflict string `toml:"conflict,omitempty" mapstructure:"conflict"`
	// Unsupported lists file name globs that are never synchronized.
	Unsupported []string `toml:"unsupported,omitempty" mapstructure:"unsupported"`
	// Store overrides the package store root.
	Store string `toml:"store,omitempty" mapstructure:"store"`
}

// Overrides are values set on the command line. Zero values are not applied.
type Overrides struct {
	Conflict string
	Store    string
}

// LoadDevConfig resolves developer configuration for the project in dir using
// Viper's merge semantics.
func LoadDevConfig(dir string, flags Overrides) (*DevConfig, error) {
	return loadDevConfig(flags, GlobalConfigPath(), filepath.Join(dir, LocalConfigFile))
}

// loadDevConfig is the internal implementation that accepts explicit paths,
// making it testable without touching the real config directory.
func loadDevConfig(flags Overrides, globalPath, localPath string) (*DevConfig, error) {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetDefault("conflict", "prompt")

	// Lowest priority: global config
	if _, err := os.Stat(globalPath); err == nil {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", globalPath, err)
		}
	}

	// Higher priority: project-local config
	if _, err := os.Stat(localPath); err == nil {
		v.SetConfigFile(localPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", localPath, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	for _, key := range []string{"conflict", "unsupported", "store"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	// Highest priority: CLI flags
	if flags.Conflict != "" {
		v.Set("conflict", flags.Conflict)
	}
	if flags.Store != "" {
		v.Set("store", flags.Store)
	}

	cfg := &DevConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling dev config: %w", err)
	}

	return cfg, nil
}

// GlobalConfigPath returns $XDG_CONFIG_HOME/pkgsync/config.toml.
func GlobalConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.toml")
}

// WriteLocalDevConfig persists developer config to pkgsync.local.toml in the
// given project directory.
func WriteLocalDevConfig(projectDir string, cfg *DevConfig) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling dev config: %w", err)
	}

	path := filepath.Join(projectDir, LocalConfigFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}
