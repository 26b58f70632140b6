package kafka

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/abtiwary/pulsewire/internal/ports"
)

// Publisher writes encoded records to the fixed topic. The client is pinned
// to a single attempt per message: retry behavior belongs to the relay's
// publish policy, not to the library.
type Publisher struct {
	writer *kafkago.Writer
}

func NewPublisher(cfg Config, tlsCfg *tls.Config) *Publisher {
	return &Publisher{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafkago.LeastBytes{},
			RequiredAcks: kafkago.RequireOne,
			MaxAttempts:  1,
			Transport: &kafkago.Transport{
				TLS:         tlsCfg,
				DialTimeout: cfg.DialTimeout.Std(),
			},
		},
	}
}

func (p *Publisher) Publish(ctx context.Context, value []byte) error {
	if err := p.writer.WriteMessages(ctx, kafkago.Message{Value: value}); err != nil {
		return fmt.Errorf("publish to %s: %w", p.writer.Topic, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// Ping verifies that at least one configured broker accepts connections.
// Establishing reachability is a startup precondition for both the relay and
// the sink.
func Ping(ctx context.Context, cfg Config, tlsCfg *tls.Config) error {
	dialer := &kafkago.Dialer{
		Timeout:   cfg.DialTimeout.Std(),
		DualStack: true,
		TLS:       tlsCfg,
	}

	var errs []error
	for _, broker := range cfg.Brokers {
		conn, err := dialer.DialContext(ctx, "tcp", broker)
		if err != nil {
			errs = append(errs, fmt.Errorf("dial %s: %w", broker, err))
			continue
		}
		_ = conn.Close()
		return nil
	}
	return fmt.Errorf("no broker reachable: %w", errors.Join(errs...))
}

var _ ports.Publisher = (*Publisher)(nil)
