package ports

import (
	"context"
	"time"
)

// ProbeResult is the raw outcome of one successful probe.
type ProbeResult struct {
	StatusCode int
	Body       string
	Elapsed    time.Duration
}

// Prober issues a single outbound health check. A returned error means the
// probe never produced a protocol-level response; no retry is built in.
type Prober interface {
	Probe(ctx context.Context, url string) (ProbeResult, error)
}
