package pulsewire

import (
	base "github.com/abtiwary/pulsewire/pkg/pulsewire"
)

// Re-exported errors for convenience.
var (
	ErrChannelStoreClosed = base.ErrChannelStoreClosed
	ErrQueueClosed        = base.ErrQueueClosed
)

// Type aliases so consumers can import github.com/abtiwary/pulsewire directly.
type (
	Config              = base.Config
	TargetConfig        = base.TargetConfig
	Policy              = base.Policy
	Duration            = base.Duration
	KafkaConfig         = base.KafkaConfig
	PostgresConfig      = base.PostgresConfig
	MetricsConfig       = base.MetricsConfig
	Flow                = base.Flow
	FlowOption          = base.FlowOption
	StreamInOption      = base.StreamInOption
	StreamOutOption     = base.StreamOutOption
	Runtime             = base.Runtime
	RuntimeOption       = base.RuntimeOption
	State               = base.State
	HealthRecord        = base.HealthRecord
	RecordSink          = base.RecordSink
	Prober              = base.Prober
	ProbeResult         = base.ProbeResult
	RecordQueue         = base.RecordQueue
	Publisher           = base.Publisher
	Subscriber          = base.Subscriber
	Store               = base.Store
	Observability       = base.Observability
	Field               = base.Field
	ExternalRelay       = base.ExternalRelay
	ExternalRelayConfig = base.ExternalRelayConfig
)

// Lifecycle states.
const (
	StateStarting = base.StateStarting
	StateRunning  = base.StateRunning
	StateDraining = base.StateDraining
	StateStopped  = base.StateStopped
)

// StatusUnreachable marks probes that never produced a protocol-level response.
const StatusUnreachable = base.StatusUnreachable

// Config helpers.
func LoadConfig(path string) (*Config, error) {
	return base.LoadConfig(path)
}

// Flow builder helpers.
func Conf(path string, opts ...FlowOption) (*Flow, error) {
	return base.Conf(path, opts...)
}

func ConfFromConfig(cfg *Config, opts ...FlowOption) (*Flow, error) {
	return base.ConfFromConfig(cfg, opts...)
}

func WithFlowOptions(opts ...RuntimeOption) FlowOption {
	return base.WithFlowOptions(opts...)
}

func StreamInProber(p Prober) StreamInOption {
	return base.StreamInProber(p)
}

func StreamInQueue(q RecordQueue) StreamInOption {
	return base.StreamInQueue(q)
}

func StreamInObservability(obs Observability) StreamInOption {
	return base.StreamInObservability(obs)
}

func StreamOutPublisher(p Publisher) StreamOutOption {
	return base.StreamOutPublisher(p)
}

func StreamOutSubscriber(s Subscriber) StreamOutOption {
	return base.StreamOutSubscriber(s)
}

func StreamOutStore(s Store) StreamOutOption {
	return base.StreamOutStore(s)
}

func StreamOutObservability(obs Observability) StreamOutOption {
	return base.StreamOutObservability(obs)
}

func StreamOutCallback(name string, fn RecordSink) StreamOutOption {
	return base.StreamOutCallback(name, fn)
}

// Runtime and options.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	return base.NewRuntime(cfg, opts...)
}

func WithProber(p Prober) RuntimeOption {
	return base.WithProber(p)
}

func WithQueue(q RecordQueue) RuntimeOption {
	return base.WithQueue(q)
}

func WithPublisher(p Publisher) RuntimeOption {
	return base.WithPublisher(p)
}

func WithSubscriber(s Subscriber) RuntimeOption {
	return base.WithSubscriber(s)
}

func WithStore(s Store) RuntimeOption {
	return base.WithStore(s)
}

func WithObservability(obs Observability) RuntimeOption {
	return base.WithObservability(obs)
}

// Store adapters.
func NewCallbackStore(name string, fn RecordSink) Store {
	return base.NewCallbackStore(name, fn)
}

func NewChannelStore(name string, buffer int) (Store, <-chan HealthRecord, func()) {
	return base.NewChannelStore(name, buffer)
}

// External relay.
func NewExternalRelay(cfg *ExternalRelayConfig, pub Publisher, opts ...RuntimeOption) (*ExternalRelay, error) {
	return base.NewExternalRelay(cfg, pub, opts...)
}
