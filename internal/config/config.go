// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values like "60s" parse directly.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Config is the root watcher configuration. Flags override these values;
// everything is fixed for the lifetime of a session.
type Config struct {
	ServerURL    string   `yaml:"server_url"`
	ReadTimeout  Duration `yaml:"read_timeout"`
	Top          int      `yaml:"top"`
	ShowLogLines bool     `yaml:"show_loglines"`
	PartyOnly    bool     `yaml:"party_only"`
	TUI          bool     `yaml:"tui"`
	LogFile      string   `yaml:"log_file"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		ServerURL:   "ws://127.0.0.1:10501/ws",
		ReadTimeout: Duration(60 * time.Second),
		Top:         8,
	}
}

// Load loads YAML config and validates it against a CUE schema. A missing
// config file is not an error; defaults apply.
func Load(configPath, cueSchemaPath string) (*Config, error) {
	cfg := Default()
	if configPath == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if cueSchemaPath != "" {
		if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
			return nil, err
		}
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = Duration(60 * time.Second)
	}
	if cfg.Top < 0 {
		cfg.Top = 0
	}
	return cfg, nil
}
