package pipeline

import (
	"context"
	"time"

	"github.com/abtiwary/pulsewire/internal/domain"
	"github.com/abtiwary/pulsewire/internal/ports"
)

// receiveRetryPause bounds how fast the sink re-polls the stream after a
// transient receive failure.
const receiveRetryPause = time.Second

// RunSink consumes the stream and persists one row per message. Decode and
// insert form one unit of work; any failure in that unit is logged with the
// raw payload and the message is skipped, so a poisoned message never
// terminates the subscription.
func RunSink(ctx context.Context, sub ports.Subscriber, st ports.Store, obs ports.Observability) {
	for {
		raw, err := sub.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			obs.LogError("sink_receive_failed", err)
			if !sleep(ctx, receiveRetryPause) {
				return
			}
			continue
		}

		rec, err := domain.Decode(raw)
		if err != nil {
			obs.RecordSkip(raw, err)
			continue
		}

		start := time.Now()
		if err := st.Insert(ctx, rec); err != nil {
			if ctx.Err() != nil {
				return
			}
			obs.RecordSkip(raw, err)
			continue
		}
		obs.ObserveLatency("pulse_sink_commit_seconds", time.Since(start).Seconds())
		obs.IncCounter("pulse_rows_stored_total", 1)
	}
}
