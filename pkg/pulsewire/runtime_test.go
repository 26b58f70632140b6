package pulsewire

import (
	"context"
	"testing"
	"time"

	"github.com/abtiwary/pulsewire/internal/adapters/queue"
)

func TestNewRuntimeWithCustomAdapters(t *testing.T) {
	cfg := testConfig()

	proberStub := &stubProber{}
	queueStub := queue.NewMemQueue(4)
	pubStub := newGatePublisher()
	subStub := &idleSubscriber{}
	storeStub := &stubStore{}
	obsStub := &stubObservability{}

	rt, err := NewRuntime(
		cfg,
		WithProber(proberStub),
		WithQueue(queueStub),
		WithPublisher(pubStub),
		WithSubscriber(subStub),
		WithStore(storeStub),
		WithObservability(obsStub),
	)
	if err != nil {
		t.Fatalf("NewRuntime returned error: %v", err)
	}

	if rt.prober != proberStub {
		t.Fatal("expected custom prober to be used")
	}
	if rt.queue != RecordQueue(queueStub) {
		t.Fatal("expected custom queue to be used")
	}
	if rt.publisher != Publisher(pubStub) {
		t.Fatal("expected custom publisher to be used")
	}
	if rt.subscriber != Subscriber(subStub) {
		t.Fatal("expected custom subscriber to be used")
	}
	if rt.store != Store(storeStub) {
		t.Fatal("expected custom store to be used")
	}
	if rt.obs != Observability(obsStub) {
		t.Fatal("expected custom observability to be used")
	}
	if rt.db != nil {
		t.Fatal("expected db to be nil when a custom store is provided")
	}
	if rt.State() != StateStarting {
		t.Fatalf("expected state starting before Start, got %s", rt.State())
	}
}

func TestNewRuntimeRequiresConfig(t *testing.T) {
	if _, err := NewRuntime(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestRuntimeGracefulShutdownDrainsQueue(t *testing.T) {
	cfg := testConfig()
	cfg.Target.Interval = 0
	cfg.Policy.QueueCapacity = 8

	prober := &stubProber{res: ProbeResult{StatusCode: 200, Body: "ok", Elapsed: 50 * time.Millisecond}}
	q := queue.NewMemQueue(cfg.Policy.QueueCapacity)
	pub := newGatePublisher()

	rt, err := NewRuntime(
		cfg,
		WithProber(prober),
		WithQueue(q),
		WithPublisher(pub),
		WithSubscriber(&idleSubscriber{}),
		WithStore(&stubStore{}),
		WithObservability(&stubObservability{}),
	)
	if err != nil {
		t.Fatalf("NewRuntime: %v", err)
	}
	if err := rt.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if rt.State() != StateRunning {
		t.Fatalf("expected state running, got %s", rt.State())
	}

	// With the publisher gated, the poller fills the queue.
	deadline := time.Now().Add(2 * time.Second)
	for q.Len() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if q.Len() < 3 {
		t.Fatalf("queue never filled, length %d", q.Len())
	}

	shutdownErr := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		shutdownErr <- rt.Shutdown(ctx)
	}()

	// Draining cancels the poller first, then lets the relay forward
	// everything already queued once the publisher unblocks.
	pub.release()

	select {
	case err := <-shutdownErr:
		if err != nil {
			t.Fatalf("Shutdown: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown did not complete")
	}

	if rt.State() != StateStopped {
		t.Fatalf("expected state stopped, got %s", rt.State())
	}
	if q.Len() != 0 {
		t.Fatalf("expected the queue to be drained, %d records remain", q.Len())
	}
	if pub.count() == 0 {
		t.Fatal("expected queued records to be forwarded during draining")
	}

	// No new records are produced after the stop.
	probesAfter := prober.probeCount()
	published := pub.count()
	time.Sleep(50 * time.Millisecond)
	if prober.probeCount() != probesAfter {
		t.Fatal("poller kept probing after shutdown")
	}
	if pub.count() != published {
		t.Fatal("relay kept publishing after shutdown")
	}
}

func TestRuntimeShutdownWithExpiredContext(t *testing.T) {
	cfg := testConfig()
	cfg.Target.Interval = 0
	cfg.Policy.QueueCapacity = 2

	prober := &stubProber{res: ProbeResult{StatusCode: 200, Body: "ok"}}
	q := queue.NewMemQueue(cfg.Policy.QueueCapacity)
	pub := newGatePublisher() // never released: the relay stays parked

	rt, err := NewRuntime(
		cfg,
		WithProber(prober),
		WithQueue(q),
		WithPublisher(pub),
		WithSubscriber(&idleSubscriber{}),
		WithStore(&stubStore{}),
		WithObservability(&stubObservability{}),
	)
	if err != nil {
		t.Fatalf("NewRuntime: %v", err)
	}
	if err := rt.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Let the poller wedge on a full queue so shutdown races it mid-enqueue.
	deadline := time.Now().Add(2 * time.Second)
	for q.Len() < cfg.Policy.QueueCapacity && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// An already-done context must still stop the poller before the queue
	// closes; a live poller enqueueing into a closed queue panics.
	_ = rt.Shutdown(ctx)

	if rt.State() != StateStopped {
		t.Fatalf("expected state stopped, got %s", rt.State())
	}

	probes := prober.probeCount()
	time.Sleep(20 * time.Millisecond)
	if prober.probeCount() != probes {
		t.Fatal("poller kept probing after shutdown")
	}
}

func TestRuntimeRunStopsOnContextCancel(t *testing.T) {
	cfg := testConfig()
	cfg.Target.Interval = Duration(time.Hour)

	pub := newGatePublisher()
	pub.release()

	rt, err := NewRuntime(
		cfg,
		WithProber(&stubProber{res: ProbeResult{StatusCode: 200}}),
		WithPublisher(pub),
		WithSubscriber(&idleSubscriber{}),
		WithStore(&stubStore{}),
		WithObservability(&stubObservability{}),
	)
	if err != nil {
		t.Fatalf("NewRuntime: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- rt.Run(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run after cancel: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	if rt.State() != StateStopped {
		t.Fatalf("expected state stopped, got %s", rt.State())
	}
}

func TestStateString(t *testing.T) {
	cases := map[State]string{
		StateStarting: "starting",
		StateRunning:  "running",
		StateDraining: "draining",
		StateStopped:  "stopped",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
}
