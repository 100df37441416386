// Package config loads daemon configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Duration wraps time.Duration so YAML values like "90m" parse.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Value() time.Duration {
	return time.Duration(d)
}

// Config is the full daemon configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database,omitempty"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Storms   StormsConfig   `yaml:"storms,omitempty"`
	Debug    bool           `yaml:"debug,omitempty"`
}

// ServerConfig configures the HTTP API listener.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// DatabaseConfig configures the optional PostgreSQL store. When the
// connection string is empty the daemon runs with the local archive only.
type DatabaseConfig struct {
	ConnectionString string `yaml:"connection_string,omitempty"`
}

// ArchiveConfig configures the local SQLite cache.
type ArchiveConfig struct {
	Path string `yaml:"path"`
}

// FetchConfig configures the periodic OMNIWeb retrieval.
type FetchConfig struct {
	Parameters      []string `yaml:"parameters"`
	Interval        Duration `yaml:"interval"`
	LookbackDays    int      `yaml:"lookback_days"`
	BaseURLOverride string   `yaml:"base_url_override,omitempty"`
}

// StormsConfig configures storm detection over the fetched Dst series.
type StormsConfig struct {
	Threshold float64  `yaml:"threshold"`
	Gap       Duration `yaml:"gap"`
}

// Load reads and validates the configuration at filename, filling in
// defaults for unset fields.
func Load(filename string) (*Config, error) {
	cfgFile, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(cfgFile, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = ":8081"
	}
	if len(c.Fetch.Parameters) == 0 {
		c.Fetch.Parameters = []string{"Kp", "Dst", "AE", "N_p", "V_flow", "Bz_GSM"}
	}
	if c.Fetch.Interval == 0 {
		c.Fetch.Interval = Duration(time.Hour)
	}
	if c.Fetch.LookbackDays == 0 {
		c.Fetch.LookbackDays = 7
	}
	if c.Storms.Threshold == 0 {
		c.Storms.Threshold = -40
	}
	if c.Storms.Gap == 0 {
		c.Storms.Gap = Duration(2 * time.Hour)
	}
}

func (c *Config) validate() error {
	if c.Archive.Path == "" {
		return fmt.Errorf("config: archive.path is required")
	}
	if c.Fetch.Interval.Value() < time.Minute {
		return fmt.Errorf("config: fetch.interval %v is below one minute", c.Fetch.Interval.Value())
	}
	if c.Fetch.LookbackDays < 1 || c.Fetch.LookbackDays > 31 {
		return fmt.Errorf("config: fetch.lookback_days %d outside 1..31", c.Fetch.LookbackDays)
	}
	if c.Storms.Threshold >= 0 {
		return fmt.Errorf("config: storms.threshold %v must be negative", c.Storms.Threshold)
	}
	return nil
}
