package httpprobe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/abtiwary/pulsewire/internal/ports"
)

// Prober performs one HTTP GET per call and reports status, body, and the
// wall-clock time from request start to body completion. Transport-level
// failures are returned as errors; non-2xx statuses are not errors, they are
// observations.
type Prober struct {
	client *http.Client
}

func New(timeout time.Duration) *Prober {
	return &Prober{client: &http.Client{Timeout: timeout}}
}

// NewWithClient lets callers supply their own transport (proxies, custom TLS).
func NewWithClient(client *http.Client) *Prober {
	if client == nil {
		client = http.DefaultClient
	}
	return &Prober{client: client}
}

func (p *Prober) Probe(ctx context.Context, url string) (ports.ProbeResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ports.ProbeResult{}, fmt.Errorf("build probe request: %w", err)
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return ports.ProbeResult{}, fmt.Errorf("probe %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ports.ProbeResult{}, fmt.Errorf("read probe body from %s: %w", url, err)
	}

	return ports.ProbeResult{
		StatusCode: resp.StatusCode,
		Body:       string(body),
		Elapsed:    time.Since(start),
	}, nil
}

var _ ports.Prober = (*Prober)(nil)
