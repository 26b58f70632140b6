package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abtiwary/pulsewire/internal/domain"
	"github.com/abtiwary/pulsewire/internal/ports"
)

func TestMemQueueFIFO(t *testing.T) {
	ctx := context.Background()
	q := NewMemQueue(4)

	for i := 1; i <= 4; i++ {
		rec := &domain.HealthRecord{StatusCode: i}
		if err := q.Enqueue(ctx, rec); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}
	if q.Len() != 4 {
		t.Fatalf("expected length 4, got %d", q.Len())
	}

	for i := 1; i <= 4; i++ {
		rec, err := q.Dequeue(ctx)
		if err != nil {
			t.Fatalf("dequeue %d: %v", i, err)
		}
		if rec.StatusCode != i {
			t.Fatalf("expected record %d, got %d", i, rec.StatusCode)
		}
	}
	if q.Len() != 0 {
		t.Fatalf("queue should be empty, got %d", q.Len())
	}
}

func TestMemQueueBackpressure(t *testing.T) {
	ctx := context.Background()
	q := NewMemQueue(2)

	if err := q.Enqueue(ctx, &domain.HealthRecord{StatusCode: 1}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := q.Enqueue(ctx, &domain.HealthRecord{StatusCode: 2}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	unblocked := make(chan error, 1)
	go func() {
		unblocked <- q.Enqueue(ctx, &domain.HealthRecord{StatusCode: 3})
	}()

	select {
	case err := <-unblocked:
		t.Fatalf("enqueue beyond capacity should block, returned %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	if _, err := q.Dequeue(ctx); err != nil {
		t.Fatalf("dequeue: %v", err)
	}

	select {
	case err := <-unblocked:
		if err != nil {
			t.Fatalf("blocked enqueue should succeed after dequeue, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("enqueue did not unblock after the consumer made room")
	}

	// No record was dropped or overwritten while the producer was blocked.
	for want := 2; want <= 3; want++ {
		rec, err := q.Dequeue(ctx)
		if err != nil {
			t.Fatalf("dequeue: %v", err)
		}
		if rec.StatusCode != want {
			t.Fatalf("expected record %d, got %d", want, rec.StatusCode)
		}
	}
}

func TestMemQueueEnqueueCancellation(t *testing.T) {
	q := NewMemQueue(1)
	if err := q.Enqueue(context.Background(), &domain.HealthRecord{}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- q.Enqueue(ctx, &domain.HealthRecord{})
	}()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("enqueue did not observe cancellation")
	}
}

func TestMemQueueDequeueCancellation(t *testing.T) {
	q := NewMemQueue(1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := q.Dequeue(ctx)
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("dequeue did not observe cancellation")
	}
}

func TestMemQueueCloseDrains(t *testing.T) {
	ctx := context.Background()
	q := NewMemQueue(4)

	for i := 1; i <= 3; i++ {
		if err := q.Enqueue(ctx, &domain.HealthRecord{StatusCode: i}); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}
	q.Close()
	q.Close() // idempotent

	for i := 1; i <= 3; i++ {
		rec, err := q.Dequeue(ctx)
		if err != nil {
			t.Fatalf("dequeue after close: %v", err)
		}
		if rec.StatusCode != i {
			t.Fatalf("expected record %d after close, got %d", i, rec.StatusCode)
		}
	}

	if _, err := q.Dequeue(ctx); !errors.Is(err, ports.ErrQueueClosed) {
		t.Fatalf("expected ErrQueueClosed once drained, got %v", err)
	}
}
