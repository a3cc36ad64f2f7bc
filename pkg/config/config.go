// Package config loads and saves the optional YAML defaults file. None of
// the cmd/zwzniff commands calls Load; they take their settings from flags
// and the port constants below.
package config

import (
	"os"
	"path/filepath"

	zwerrors "github.com/drunlade/zwzniff/pkg/errors"

	"gopkg.in/yaml.v3"
)

// DefaultPTIPort is the default listening port for PTI consumers (§6).
const DefaultPTIPort = 4905

// DefaultGeneratorPort is the port the generator command listens on.
const DefaultGeneratorPort = 9000

// Config holds process-wide defaults as read from or written to the file.
type Config struct {
	Serial   SerialConfig   `yaml:"serial"`
	Network  NetworkConfig  `yaml:"network"`
	Database DatabaseConfig `yaml:"database"`
	LogLevel string         `yaml:"log_level,omitempty"`
}

// SerialConfig holds defaults for the serial-attached sniffer source.
type SerialConfig struct {
	Port   string `yaml:"port,omitempty"`
	Region string `yaml:"region,omitempty"`
}

// NetworkConfig holds defaults for PTI/proxy network peers.
type NetworkConfig struct {
	PTIPort       int `yaml:"pti_port,omitempty"`
	GeneratorPort int `yaml:"generator_port,omitempty"`
}

// DatabaseConfig holds defaults for the persistent frame index.
type DatabaseConfig struct {
	Path string `yaml:"path,omitempty"`
}

// Default returns a Config populated with the built-in defaults.
func Default() *Config {
	return &Config{
		Network: NetworkConfig{
			PTIPort:       DefaultPTIPort,
			GeneratorPort: DefaultGeneratorPort,
		},
		LogLevel: "info",
	}
}

// Load reads the config file from its XDG location, merging over the
// built-in defaults. A missing file is not an error — Default() is
// returned unchanged.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, zwerrors.Wrap(zwerrors.CategoryTransport, "resolve config path", err)
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, zwerrors.Wrap(zwerrors.CategoryTransport, "read config file", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, zwerrors.Wrap(zwerrors.CategorySchema, "parse config file", err)
	}
	return cfg, nil
}

// Path returns the location of the config file under the user's XDG config
// directory: $XDG_CONFIG_HOME/zwzniff/config.yaml (or platform equivalent).
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "zwzniff", "config.yaml"), nil
}

// Save writes cfg to its XDG location, creating parent directories as needed.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return zwerrors.Wrap(zwerrors.CategoryTransport, "resolve config path", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zwerrors.Wrap(zwerrors.CategoryTransport, "create config directory", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return zwerrors.Wrap(zwerrors.CategorySchema, "marshal config", err)
	}
	return os.WriteFile(path, data, 0o644)
}
