package pulsewire

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/abtiwary/pulsewire/internal/adapters/queue"
	"github.com/abtiwary/pulsewire/internal/app/pipeline"
	"github.com/abtiwary/pulsewire/internal/ports"
)

// ExternalRelayConfig configures the queue and publish policy used by callers.
type ExternalRelayConfig struct {
	Policy Policy
}

func (c *ExternalRelayConfig) applyDefaults() {
	if c.Policy.QueueCapacity <= 0 {
		c.Policy.QueueCapacity = 1024
	}
	// 0 means unset; an explicit "never retry" is spelled -1.
	if c.Policy.PublishRetries == 0 {
		c.Policy.PublishRetries = 5
	}
	if c.Policy.OnPublishFailure == "" {
		c.Policy.OnPublishFailure = ports.PublishRetryDrop
	}
}

func (c *ExternalRelayConfig) validate() error {
	if c.Policy.PublishRetries < -1 {
		return fmt.Errorf("policy.publish_retries must be >= -1, got %d", c.Policy.PublishRetries)
	}
	switch c.Policy.OnPublishFailure {
	case ports.PublishRetryDrop, ports.PublishAbort:
		return nil
	default:
		return fmt.Errorf("policy.on_publish_failure must be %q or %q, got %q",
			ports.PublishRetryDrop, ports.PublishAbort, c.Policy.OnPublishFailure)
	}
}

// ExternalRelay exposes the bounded queue + publish policy to external
// producers: callers push their own HealthRecords and the relay forwards
// them to the supplied publisher, without running a poller.
type ExternalRelay struct {
	queue *queue.MemQueue

	cancel   context.CancelFunc
	doneCh   chan struct{}
	stopOnce sync.Once
	relayErr error
}

// NewExternalRelay wires a bounded queue and relay loop around the publisher
// so callers can push records while reusing the backpressure and retry
// policies.
func NewExternalRelay(cfg *ExternalRelayConfig, pub Publisher, opts ...RuntimeOption) (*ExternalRelay, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if pub == nil {
		return nil, fmt.Errorf("publisher is required")
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	var overrides runtimeOverrides
	for _, opt := range opts {
		if opt != nil {
			opt(&overrides)
		}
	}
	obs := overrides.observability
	if obs == nil {
		obs = &logObs{}
	}

	q := queue.NewMemQueue(cfg.Policy.QueueCapacity)
	ctx, cancel := context.WithCancel(context.Background())

	r := &ExternalRelay{
		queue:  q,
		cancel: cancel,
		doneCh: make(chan struct{}),
	}

	go func() {
		defer close(r.doneCh)
		r.relayErr = pipeline.RunRelay(ctx, q, pub, cfg.Policy, obs)
	}()

	return r, nil
}

// Publish enqueues the record, blocking while the queue is full.
func (r *ExternalRelay) Publish(ctx context.Context, rec HealthRecord) error {
	return r.queue.Enqueue(ctx, &rec)
}

// Close drains the queue and waits for the relay loop to exit, respecting
// the provided context. Callers must stop publishing before Close.
func (r *ExternalRelay) Close(ctx context.Context) error {
	r.stopOnce.Do(func() {
		r.queue.Close()
	})

	select {
	case <-r.doneCh:
		return r.relayErr
	case <-ctx.Done():
		r.cancel()
		<-r.doneCh
		return ctx.Err()
	}
}

// logObs is the minimal observability used when an ExternalRelay runs inside
// a process that already owns the Prometheus default registry.
type logObs struct{}

func (l *logObs) LogInfo(msg string, fields ...Field) {}

func (l *logObs) LogError(msg string, err error, fields ...Field) {
	if err != nil {
		log.Printf("ERROR: %s: %v", msg, err)
	}
}

func (l *logObs) LogCritical(msg string, err error, fields ...Field) {
	if err != nil {
		log.Printf("CRITICAL: %s: %v", msg, err)
	}
}

func (l *logObs) IncCounter(name string, v float64) {}

func (l *logObs) ObserveLatency(name string, seconds float64) {}

func (l *logObs) SetGauge(name string, v float64) {}

func (l *logObs) RecordSkip(raw []byte, err error) {
	if err != nil {
		if len(raw) > 512 {
			raw = raw[:512]
		}
		log.Printf("SKIP message payload=%q err=%v", raw, err)
	}
}
