package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abtiwary/pulsewire/internal/adapters/kafka"
	"github.com/abtiwary/pulsewire/internal/ports"
)

type Config struct {
	Target   TargetConfig   `yaml:"target"`
	Policy   ports.Policy   `yaml:"policy"`
	Kafka    kafka.Config   `yaml:"kafka"`
	Postgres PostgresConfig `yaml:"postgres"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

type TargetConfig struct {
	URL          string         `yaml:"url"`
	Interval     ports.Duration `yaml:"interval"`
	ProbeTimeout ports.Duration `yaml:"probe_timeout"`
}

type PostgresConfig struct {
	ConnString string `yaml:"conn_string"`
	Table      string `yaml:"table"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) ApplyDefaults() {
	if c.Target.Interval <= 0 {
		c.Target.Interval = ports.Duration(5 * time.Second)
	}
	if c.Target.ProbeTimeout <= 0 {
		c.Target.ProbeTimeout = ports.Duration(30 * time.Second)
	}
	if c.Policy.QueueCapacity <= 0 {
		c.Policy.QueueCapacity = 1024
	}
	// 0 means unset; an explicit "never retry" is spelled -1.
	if c.Policy.PublishRetries == 0 {
		c.Policy.PublishRetries = 5
	}
	if c.Policy.PublishBackoff <= 0 {
		c.Policy.PublishBackoff = ports.Duration(500 * time.Millisecond)
	}
	if c.Policy.PacingDelay < 0 {
		c.Policy.PacingDelay = 0
	}
	if c.Policy.OnPublishFailure == "" {
		c.Policy.OnPublishFailure = ports.PublishRetryDrop
	}
	if c.Postgres.Table == "" {
		c.Postgres.Table = "health_data"
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9100"
	}

	c.Kafka.ApplyDefaults()
}

func (c *Config) Validate() error {
	if c.Target.URL == "" {
		return fmt.Errorf("target.url is required")
	}
	if err := c.Kafka.Validate(); err != nil {
		return fmt.Errorf("kafka config: %w", err)
	}
	if c.Postgres.ConnString == "" {
		return fmt.Errorf("postgres.conn_string is required")
	}
	if c.Policy.PublishRetries < -1 {
		return fmt.Errorf("policy.publish_retries must be >= -1, got %d", c.Policy.PublishRetries)
	}
	switch c.Policy.OnPublishFailure {
	case ports.PublishRetryDrop, ports.PublishAbort:
	default:
		return fmt.Errorf("policy.on_publish_failure must be %q or %q, got %q",
			ports.PublishRetryDrop, ports.PublishAbort, c.Policy.OnPublishFailure)
	}
	return nil
}
