// Package config manages the user settings file written to
// <dataDir>/config.yaml. Values resolve in the order: built-in defaults,
// the settings file, then CONAN_PANEL_* environment variables. The schema
// is versioned to support forward-compatible migrations.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/conan-io/conan-panel/internal/catalog"
	"github.com/conan-io/conan-panel/internal/fileutil"
)

const (
	settingsVersion = 1
	dataDirName     = ".conan-vs-extension"
	configFile      = "config.yaml"
	envPrefix       = "CONAN_PANEL"
)

// Settings is the persistent user configuration.
// Version field enables future migrations.
type Settings struct {
	// ConanExecutable is the configured path to the conan binary. Empty
	// means "not configured"; the panel stays disabled until it is set or
	// conan is found on PATH.
	ConanExecutable string        `mapstructure:"conan_executable" yaml:"conan_executable"`
	CatalogURL      string        `mapstructure:"catalog_url" yaml:"catalog_url"`
	CatalogFile     string        `mapstructure:"catalog_file" yaml:"catalog_file,omitempty"`
	Timeout         time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Version         int           `mapstructure:"version" yaml:"version"`
}

// Default returns the settings used when nothing is configured.
func Default() *Settings {
	return &Settings{
		CatalogURL: catalog.DefaultURL,
		Timeout:    30 * time.Second,
		Version:    settingsVersion,
	}
}

// DefaultDataDir returns ~/.conan-vs-extension, the directory holding the
// catalog cache, settings and logs.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return dataDirName
	}
	return filepath.Join(home, dataDirName)
}

// ConfigPath returns the path to the settings file for the given data directory.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, configFile)
}

// CatalogPath returns the catalog cache location: the configured file, or
// targets-data.json inside dataDir.
func (s *Settings) CatalogPath(dataDir string) string {
	if s.CatalogFile != "" {
		return s.CatalogFile
	}
	return filepath.Join(dataDir, catalog.FileName)
}

// Read resolves settings for dataDir. A missing settings file is not an
// error; defaults and environment still apply.
func Read(dataDir string) (*Settings, error) {
	return read(dataDir, true)
}

// ReadFile resolves defaults and the settings file only, ignoring
// CONAN_PANEL_* variables. Use it as the base for Write so environment
// overrides never end up in the file.
func ReadFile(dataDir string) (*Settings, error) {
	return read(dataDir, false)
}

func read(dataDir string, withEnv bool) (*Settings, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("conan_executable", def.ConanExecutable)
	v.SetDefault("catalog_url", def.CatalogURL)
	v.SetDefault("catalog_file", def.CatalogFile)
	v.SetDefault("timeout", def.Timeout)
	v.SetDefault("version", def.Version)

	if withEnv {
		v.SetEnvPrefix(envPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	path := ConfigPath(dataDir)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read settings %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}

	// Future: handle s.Version < settingsVersion migrations here.

	return &s, nil
}

// Write persists settings to <dataDir>/config.yaml.
func Write(dataDir string, s *Settings) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if s.Version == 0 {
		s.Version = settingsVersion
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := fileutil.WriteFile(ConfigPath(dataDir), data, 0o600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
