package pipeline

import (
	"context"
	"sync"

	"github.com/abtiwary/pulsewire/internal/domain"
	"github.com/abtiwary/pulsewire/internal/ports"
)

// scriptedProber replays a fixed sequence of outcomes, then repeats the last.
type scriptedProber struct {
	mu      sync.Mutex
	results []ports.ProbeResult
	errs    []error
	calls   int
}

func (p *scriptedProber) Probe(ctx context.Context, url string) (ports.ProbeResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.calls
	if i >= len(p.results) {
		i = len(p.results) - 1
	}
	p.calls++
	return p.results[i], p.errs[i]
}

// capturePublisher records every published payload; fail counts down before
// publishes start succeeding. failAlways never succeeds.
type capturePublisher struct {
	mu         sync.Mutex
	published  [][]byte
	fail       int
	failAlways bool
	failErr    error
}

func (p *capturePublisher) Publish(ctx context.Context, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failAlways || p.fail > 0 {
		if p.fail > 0 {
			p.fail--
		}
		return p.failErr
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	p.published = append(p.published, cp)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func (p *capturePublisher) messages() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]byte, len(p.published))
	copy(out, p.published)
	return out
}

// scriptedSubscriber yields a fixed message sequence, then blocks until the
// context is cancelled.
type scriptedSubscriber struct {
	mu       sync.Mutex
	messages [][]byte
	next     int
}

func (s *scriptedSubscriber) Next(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	if s.next < len(s.messages) {
		msg := s.messages[s.next]
		s.next++
		s.mu.Unlock()
		return msg, nil
	}
	s.mu.Unlock()
	<-ctx.Done()
	return nil, ctx.Err()
}

func (s *scriptedSubscriber) Close() error { return nil }

// memStore keeps inserted records in order; failOn makes the n-th insert
// (1-based) fail once.
type memStore struct {
	mu      sync.Mutex
	rows    []domain.HealthRecord
	calls   int
	failOn  int
	failErr error
}

func (m *memStore) Insert(ctx context.Context, r *domain.HealthRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failOn != 0 && m.calls == m.failOn {
		return m.failErr
	}
	m.rows = append(m.rows, *r)
	return nil
}

func (m *memStore) Name() string { return "memory" }

func (m *memStore) Close() error { return nil }

func (m *memStore) stored() []domain.HealthRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.HealthRecord, len(m.rows))
	copy(out, m.rows)
	return out
}

// countingObs counts metric increments and skips; log methods are no-ops.
type countingObs struct {
	mu       sync.Mutex
	counters map[string]float64
	skips    int
}

func newCountingObs() *countingObs {
	return &countingObs{counters: make(map[string]float64)}
}

func (o *countingObs) LogInfo(msg string, fields ...ports.Field) {}

func (o *countingObs) LogError(msg string, err error, fields ...ports.Field) {}

func (o *countingObs) LogCritical(msg string, err error, fields ...ports.Field) {}

func (o *countingObs) ObserveLatency(name string, seconds float64) {}

func (o *countingObs) SetGauge(name string, v float64) {}

func (o *countingObs) IncCounter(name string, v float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.counters[name] += v
}

func (o *countingObs) RecordSkip(raw []byte, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.skips++
}

func (o *countingObs) counter(name string) float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.counters[name]
}

func (o *countingObs) skipCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.skips
}

var (
	_ ports.Prober        = (*scriptedProber)(nil)
	_ ports.Publisher     = (*capturePublisher)(nil)
	_ ports.Subscriber    = (*scriptedSubscriber)(nil)
	_ ports.Store         = (*memStore)(nil)
	_ ports.Observability = (*countingObs)(nil)
)
