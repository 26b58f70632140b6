package kafka

import (
	"context"
	"crypto/tls"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/abtiwary/pulsewire/internal/ports"
)

// Subscriber reads the fixed topic from the earliest retained offset so a
// restart replays history already on the broker but not yet stored. The
// pipeline assumes a single partition.
type Subscriber struct {
	reader *kafkago.Reader
}

func NewSubscriber(cfg Config, tlsCfg *tls.Config) *Subscriber {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   cfg.Brokers,
		Topic:     cfg.Topic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10 << 20,
		Dialer: &kafkago.Dialer{
			Timeout:   cfg.DialTimeout.Std(),
			DualStack: true,
			TLS:       tlsCfg,
		},
	})
	// ReadMessage starts wherever SetOffset points; pin it to the oldest
	// retained message rather than relying on the reader's default.
	_ = reader.SetOffset(kafkago.FirstOffset)
	return &Subscriber{reader: reader}
}

func (s *Subscriber) Next(ctx context.Context) ([]byte, error) {
	msg, err := s.reader.ReadMessage(ctx)
	if err != nil {
		return nil, fmt.Errorf("read from %s: %w", s.reader.Config().Topic, err)
	}
	return msg.Value, nil
}

func (s *Subscriber) Close() error {
	return s.reader.Close()
}

var _ ports.Subscriber = (*Subscriber)(nil)
