package pipeline

import (
	"context"
	"time"

	"github.com/abtiwary/pulsewire/internal/domain"
	"github.com/abtiwary/pulsewire/internal/ports"
)

// RunPoller probes the target once per interval until the context is
// cancelled, producing exactly one HealthRecord per tick. A failed probe
// becomes a sentinel-status record, never a loop abort. The delay is fixed:
// each period is probe duration plus interval, so a slow probe never causes
// a catch-up burst.
func RunPoller(ctx context.Context, pr ports.Prober, q ports.RecordQueue, target string, interval time.Duration, obs ports.Observability) {
	for {
		observedAt := float64(time.Now().UnixNano()) / float64(time.Second)

		rec := &domain.HealthRecord{ObservedAt: observedAt}
		res, err := pr.Probe(ctx, target)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			obs.LogError("probe_failed", err, ports.Field{Key: "target", Value: target})
			obs.IncCounter("pulse_probe_failures_total", 1)
			rec.StatusCode = domain.StatusUnreachable
		} else {
			rec.StatusCode = res.StatusCode
			rec.Body = res.Body
			rec.Latency = res.Elapsed.Seconds()
			obs.ObserveLatency("pulse_probe_latency_seconds", rec.Latency)
		}
		obs.IncCounter("pulse_probes_total", 1)

		if err := q.Enqueue(ctx, rec); err != nil {
			return
		}

		if !sleep(ctx, interval) {
			return
		}
	}
}

// sleep waits for d or until cancellation; it reports whether the full wait
// elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
