// Package config loads the process configuration from YAML.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"mercury/pkg/logger"
)

type KafkaConfig struct {
	Enabled      bool     `yaml:"enabled"`
	Brokers      []string `yaml:"brokers"`
	TradeTopic   string   `yaml:"trade_topic"`
	SummaryTopic string   `yaml:"summary_topic"`
}

type JournalConfig struct {
	Dir         string `yaml:"dir"`
	SegmentSize int64  `yaml:"segment_size"`
}

type Config struct {
	WatchDir     string        `yaml:"watch_dir"`
	OutputDir    string        `yaml:"output_dir"`
	RegistryDir  string        `yaml:"registry_dir"`
	PollInterval Duration      `yaml:"poll_interval"`
	Journal      JournalConfig `yaml:"journal"`
	Kafka        KafkaConfig   `yaml:"kafka"`
	Log          logger.Config `yaml:"log"`
}

// Default matches the reference layout: everything under the working
// directory, one-second polling.
func Default() *Config {
	return &Config{
		WatchDir:     "exchange",
		OutputDir:    "exchange/out",
		RegistryDir:  "exchange/registry",
		PollInterval: Duration{time.Second},
		Journal: JournalConfig{
			Dir:         "exchange/journal",
			SegmentSize: 2 * 1024 * 1024,
		},
		Kafka: KafkaConfig{
			TradeTopic:   "mercury.trades",
			SummaryTopic: "mercury.book",
		},
		Log: logger.Config{Level: "info"},
	}
}

// Load reads path and overlays it onto the defaults. An empty path
// returns the defaults as-is.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.WatchDir == "" {
		return fmt.Errorf("config: watch_dir is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("config: output_dir is required")
	}
	if c.PollInterval.Duration <= 0 {
		return fmt.Errorf("config: poll_interval must be positive")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka enabled but no brokers configured")
	}
	return nil
}

// Duration accepts either a Go duration string ("1s", "500ms") or a
// bare integer meaning seconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value == nil {
		return nil
	}
	s := strings.TrimSpace(value.Value)
	if value.Tag == "!!int" {
		s += "s"
	}
	dd, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", value.Value, err)
	}
	d.Duration = dd
	return nil
}
