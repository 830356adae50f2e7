// Package config handles configuration loading and shared data structures.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied by Load for missing values.
const (
	DefaultGNSSURL      = "http://127.0.0.1:8000"
	DefaultPollInterval = 500 * time.Millisecond
	DefaultZoom         = 13
)

// DefaultCenter is the initial map center in GCJ-02 (Guangzhou).
var DefaultCenter = [2]float64{113.265181, 23.128150}

// Config represents the root configuration file structure.
type Config struct {
	GNSSURL      string        `yaml:"gnss_url" json:"-"`
	JSAPI        string        `yaml:"js_api" json:"js_api"`
	SecurityCode string        `yaml:"security_code" json:"-"` // never served
	Center       [2]float64    `yaml:"center" json:"center"`   // GCJ-02 [lng, lat]
	PollInterval time.Duration `yaml:"poll_interval" json:"-"`
	Zoom         int           `yaml:"zoom" json:"zoom"`
}

// legacy accepts the camelCase keys of older api config JSON files.
type legacy struct {
	GNSSURL      string `yaml:"gnssUrl"`
	JSAPI        string `yaml:"jsApi"`
	SecurityCode string `yaml:"securityCode"`
}

// Load reads and parses the YAML configuration file from the specified path.
// JSON files are accepted as well.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse decodes configuration data and fills defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	var old legacy
	if err := yaml.Unmarshal(data, &old); err != nil {
		return nil, err
	}
	if cfg.GNSSURL == "" {
		cfg.GNSSURL = old.GNSSURL
	}
	if cfg.JSAPI == "" {
		cfg.JSAPI = old.JSAPI
	}
	if cfg.SecurityCode == "" {
		cfg.SecurityCode = old.SecurityCode
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.GNSSURL == "" {
		c.GNSSURL = DefaultGNSSURL
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.Zoom <= 0 {
		c.Zoom = DefaultZoom
	}
	if c.Center == [2]float64{} {
		c.Center = DefaultCenter
	}
}
