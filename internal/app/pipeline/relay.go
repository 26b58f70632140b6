package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/abtiwary/pulsewire/internal/ports"
)

// RunRelay drains the queue in FIFO order and forwards each record to the
// stream topic. It returns nil when the queue is closed and drained or the
// context is cancelled; it returns an error only under the "abort" publish
// policy, which the supervisor treats as fatal.
func RunRelay(ctx context.Context, q ports.RecordQueue, pub ports.Publisher, pol ports.Policy, obs ports.Observability) error {
	for {
		rec, err := q.Dequeue(ctx)
		if err != nil {
			// Either the queue is closed and fully drained or the context
			// ended; both mean the relay is finished.
			if !errors.Is(err, ports.ErrQueueClosed) && ctx.Err() == nil {
				obs.LogError("relay_dequeue_failed", err)
			}
			return nil
		}

		b, err := rec.Encode()
		if err != nil {
			// The record cannot be represented on the wire; nothing
			// downstream can ever use it.
			obs.LogError("relay_encode_failed", err)
			continue
		}

		if err := publishWithPolicy(ctx, pub, b, pol, obs); err != nil {
			if pol.OnPublishFailure == ports.PublishAbort {
				return fmt.Errorf("publish aborted: %w", err)
			}
			obs.LogError("relay_publish_dropped", err, ports.Field{Key: "payload", Value: string(b)})
			obs.IncCounter("pulse_records_dropped_total", 1)
			continue
		}
		obs.IncCounter("pulse_records_published_total", 1)

		// Pacing is a broker courtesy, not a correctness requirement.
		if pol.PacingDelay > 0 {
			sleep(ctx, pol.PacingDelay.Std())
		}
	}
}

// publishWithPolicy attempts the publish up to 1+PublishRetries times with a
// fixed backoff between attempts.
func publishWithPolicy(ctx context.Context, pub ports.Publisher, value []byte, pol ports.Policy, obs ports.Observability) error {
	attempts := pol.PublishRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			obs.IncCounter("pulse_publish_retries_total", 1)
			if !sleep(ctx, pol.PublishBackoff.Std()) {
				return lastErr
			}
		}
		if lastErr = pub.Publish(ctx, value); lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return lastErr
		}
	}
	return lastErr
}
