package pulsewire

import (
	"github.com/abtiwary/pulsewire/internal/adapters/kafka"
	"github.com/abtiwary/pulsewire/internal/app/config"
	"github.com/abtiwary/pulsewire/internal/ports"
)

// Config re-exports the root configuration struct so downstream projects can
// construct or modify it programmatically.
type Config = config.Config

type (
	// TargetConfig identifies the monitored endpoint and the poll cadence.
	TargetConfig = config.TargetConfig
	// Policy controls queue sizing and the relay's publish behavior.
	Policy = ports.Policy
	// Duration is a YAML-friendly time.Duration.
	Duration = ports.Duration
	// KafkaConfig holds broker, topic, and TLS details shared by the relay
	// and the sink.
	KafkaConfig = kafka.Config
	// PostgresConfig configures the store.
	PostgresConfig = config.PostgresConfig
	// MetricsConfig configures the metrics HTTP server.
	MetricsConfig = config.MetricsConfig
)

// LoadConfig loads YAML from disk using the internal config reader.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}
