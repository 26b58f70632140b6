package queue

import (
	"context"
	"sync"

	"github.com/abtiwary/pulsewire/internal/domain"
	"github.com/abtiwary/pulsewire/internal/ports"
)

// MemQueue is a bounded in-memory FIFO between one producer and one consumer.
// A full queue blocks the producer rather than dropping records; this is the
// pipeline's only backpressure mechanism.
type MemQueue struct {
	ch        chan *domain.HealthRecord
	closeOnce sync.Once
}

func NewMemQueue(capacity int) *MemQueue {
	if capacity <= 0 {
		capacity = 1
	}
	return &MemQueue{ch: make(chan *domain.HealthRecord, capacity)}
}

// Enqueue blocks while the queue is full. It must not be called after Close.
func (q *MemQueue) Enqueue(ctx context.Context, r *domain.HealthRecord) error {
	select {
	case q.ch <- r:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dequeue blocks while the queue is empty. After Close it keeps returning
// the remaining records in order, then ports.ErrQueueClosed.
func (q *MemQueue) Dequeue(ctx context.Context) (*domain.HealthRecord, error) {
	select {
	case r, ok := <-q.ch:
		if !ok {
			return nil, ports.ErrQueueClosed
		}
		return r, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close marks the producer side done. Callers must guarantee the producer
// has stopped first.
func (q *MemQueue) Close() {
	q.closeOnce.Do(func() { close(q.ch) })
}

func (q *MemQueue) Len() int {
	return len(q.ch)
}

var _ ports.RecordQueue = (*MemQueue)(nil)
