package ports

import (
	"context"
	"errors"

	"github.com/abtiwary/pulsewire/internal/domain"
)

// ErrQueueClosed is the terminal Dequeue error every RecordQueue
// implementation returns once it is closed and drained.
var ErrQueueClosed = errors.New("pulsewire: queue closed")

// RecordQueue is the bounded FIFO hand-off between the poller and the relay.
// Enqueue blocks while the queue is full; Dequeue blocks while it is empty.
// Close is producer-side: it must only be called once the producer has
// stopped, after which Dequeue drains the remaining records and then returns
// a terminal error.
type RecordQueue interface {
	Enqueue(ctx context.Context, r *domain.HealthRecord) error
	Dequeue(ctx context.Context) (*domain.HealthRecord, error)
	Close()
	Len() int
}
