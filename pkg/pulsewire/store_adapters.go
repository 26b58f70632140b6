package pulsewire

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/abtiwary/pulsewire/internal/domain"
)

// ErrChannelStoreClosed is returned when a channel store receives a record
// after being closed.
var ErrChannelStoreClosed = errors.New("pulsewire: channel store closed")

// RecordSink is invoked with each record the sink stage persists.
type RecordSink func(HealthRecord) error

// NewCallbackStore adapts a RecordSink into a full ports.Store implementation
// so callers can plug arbitrary functions without defining structs.
func NewCallbackStore(name string, fn RecordSink) Store {
	if name == "" {
		name = "callback"
	}
	return &callbackStore{name: name, fn: fn}
}

// NewChannelStore exposes records via a channel; it returns the store, the
// read-only channel, and a close function that the caller should invoke
// during shutdown.
func NewChannelStore(name string, buffer int) (Store, <-chan HealthRecord, func()) {
	if name == "" {
		name = "channel"
	}
	if buffer < 0 {
		buffer = 0
	}
	ch := make(chan HealthRecord, buffer)
	s := &channelStore{
		name:   name,
		ch:     ch,
		closed: make(chan struct{}),
	}
	return s, ch, func() { s.close() }
}

type callbackStore struct {
	name string
	fn   RecordSink
}

func (s *callbackStore) Insert(ctx context.Context, r *domain.HealthRecord) error {
	if s.fn == nil {
		return fmt.Errorf("callback store %q: nil handler", s.name)
	}
	return s.fn(*r)
}

func (s *callbackStore) Name() string { return s.name }

func (s *callbackStore) Close() error { return nil }

type channelStore struct {
	name   string
	ch     chan HealthRecord
	closed chan struct{}
	once   sync.Once
}

func (s *channelStore) Insert(ctx context.Context, r *domain.HealthRecord) error {
	select {
	case <-s.closed:
		return ErrChannelStoreClosed
	default:
	}

	select {
	case <-s.closed:
		return ErrChannelStoreClosed
	case <-ctx.Done():
		return ctx.Err()
	case s.ch <- *r:
		return nil
	}
}

func (s *channelStore) Name() string { return s.name }

func (s *channelStore) Close() error {
	s.close()
	return nil
}

func (s *channelStore) close() {
	s.once.Do(func() {
		close(s.closed)
		close(s.ch)
	})
}
