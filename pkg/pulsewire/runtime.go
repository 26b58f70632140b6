package pulsewire

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abtiwary/pulsewire/internal/adapters/httpprobe"
	"github.com/abtiwary/pulsewire/internal/adapters/kafka"
	"github.com/abtiwary/pulsewire/internal/adapters/observability"
	"github.com/abtiwary/pulsewire/internal/adapters/queue"
	"github.com/abtiwary/pulsewire/internal/adapters/store"
	"github.com/abtiwary/pulsewire/internal/app/pipeline"
	"github.com/abtiwary/pulsewire/internal/ports"
)

// State is the supervisor lifecycle phase.
type State int32

const (
	StateStarting State = iota
	StateRunning
	StateDraining
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// RuntimeOption customizes the dependencies used by Runtime.
type RuntimeOption func(*runtimeOverrides)

type runtimeOverrides struct {
	prober        ports.Prober
	queue         ports.RecordQueue
	publisher     ports.Publisher
	subscriber    ports.Subscriber
	store         ports.Store
	observability ports.Observability
}

// WithProber injects a custom prober (TCP dial, gRPC health, simulators, etc.).
func WithProber(p Prober) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.prober = p
	}
}

// WithQueue swaps the in-memory queue for a caller-provided implementation.
func WithQueue(q RecordQueue) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.queue = q
	}
}

// WithPublisher injects a custom stream publisher.
func WithPublisher(p Publisher) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.publisher = p
	}
}

// WithSubscriber injects a custom stream subscriber.
func WithSubscriber(s Subscriber) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.subscriber = s
	}
}

// WithStore injects a custom store so records can land anywhere.
func WithStore(s Store) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.store = s
	}
}

// WithObservability plugs in a custom observability backend.
func WithObservability(obs Observability) RuntimeOption {
	return func(o *runtimeOverrides) {
		o.observability = obs
	}
}

// Runtime wires up the poller → queue → relay and stream → sink stages and
// supervises their lifecycle: Starting → Running → Draining → Stopped.
type Runtime struct {
	cfg    *Config
	policy ports.Policy
	obs    ports.Observability

	prober     ports.Prober
	queue      ports.RecordQueue
	publisher  ports.Publisher
	subscriber ports.Subscriber
	store      ports.Store
	db         *sql.DB

	state atomic.Int32

	pollerCancel context.CancelFunc
	relayCancel  context.CancelFunc
	sinkCancel   context.CancelFunc
	pollerDone   chan struct{}
	relayDone    chan struct{}
	sinkDone     chan struct{}
	relayErr     error

	metricsSrv  *http.Server
	gaugeStopCh chan struct{}
}

// NewRuntime performs the Starting phase: it builds the default adapters for
// anything not overridden, constructs the shared broker TLS configuration
// exactly once, and verifies that the broker and the database are reachable.
// Either being unreachable is fatal; no stage starts.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	var overrides runtimeOverrides
	for _, opt := range opts {
		if opt != nil {
			opt(&overrides)
		}
	}

	obs := overrides.observability
	if obs == nil {
		obs = observability.NewPromObs()
	}

	q := overrides.queue
	if q == nil {
		q = queue.NewMemQueue(cfg.Policy.QueueCapacity)
	}

	prober := overrides.prober
	if prober == nil {
		prober = httpprobe.New(cfg.Target.ProbeTimeout.Std())
	}

	pub := overrides.publisher
	sub := overrides.subscriber
	if pub == nil || sub == nil {
		tlsCfg, err := cfg.Kafka.BuildTLS()
		if err != nil {
			return nil, fmt.Errorf("kafka tls: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(context.Background(), cfg.Kafka.DialTimeout.Std())
		err = kafka.Ping(pingCtx, cfg.Kafka, tlsCfg)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("kafka unreachable: %w", err)
		}
		if pub == nil {
			pub = kafka.NewPublisher(cfg.Kafka, tlsCfg)
		}
		if sub == nil {
			sub = kafka.NewSubscriber(cfg.Kafka, tlsCfg)
		}
	}

	var (
		db  *sql.DB
		st  ports.Store
		err error
	)
	if overrides.store != nil {
		st = overrides.store
	} else {
		db, err = sql.Open("postgres", cfg.Postgres.ConnString)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("postgres unreachable: %w", err)
		}
		st = store.NewPostgresStore(db, cfg.Postgres.Table)
	}

	rt := &Runtime{
		cfg:        cfg,
		policy:     cfg.Policy,
		obs:        obs,
		prober:     prober,
		queue:      q,
		publisher:  pub,
		subscriber: sub,
		store:      st,
		db:         db,
	}
	rt.state.Store(int32(StateStarting))
	return rt, nil
}

// State reports the current lifecycle phase.
func (r *Runtime) State() State {
	return State(r.state.Load())
}

// Start launches the three stage goroutines, the metrics server, and the
// queue gauge loop. It returns immediately; call Run to block on a context.
func (r *Runtime) Start() error {
	if r == nil {
		return fmt.Errorf("runtime is nil")
	}

	var pollerCtx, relayCtx, sinkCtx context.Context
	pollerCtx, r.pollerCancel = context.WithCancel(context.Background())
	relayCtx, r.relayCancel = context.WithCancel(context.Background())
	sinkCtx, r.sinkCancel = context.WithCancel(context.Background())

	r.pollerDone = make(chan struct{})
	go func() {
		defer close(r.pollerDone)
		pipeline.RunPoller(pollerCtx, r.prober, r.queue, r.cfg.Target.URL, r.cfg.Target.Interval.Std(), r.obs)
	}()

	r.relayDone = make(chan struct{})
	go func() {
		defer close(r.relayDone)
		r.relayErr = pipeline.RunRelay(relayCtx, r.queue, r.publisher, r.policy, r.obs)
	}()

	r.sinkDone = make(chan struct{})
	go func() {
		defer close(r.sinkDone)
		pipeline.RunSink(sinkCtx, r.subscriber, r.store, r.obs)
	}()

	r.startMetrics()
	r.state.Store(int32(StateRunning))
	return nil
}

// Run starts the runtime and blocks until the context is cancelled or the
// relay aborts fatally (the "abort" publish policy), then drains and stops.
func (r *Runtime) Run(ctx context.Context) error {
	if err := r.Start(); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
	case <-r.relayDone:
		if r.relayErr != nil {
			r.obs.LogCritical("relay_aborted", r.relayErr)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	shutErr := r.Shutdown(shutdownCtx)
	// Shutdown has waited on relayDone, so relayErr is settled by now.
	return errors.Join(r.relayErr, shutErr)
}

// Shutdown performs the Draining phase: stop producing, let the relay forward
// everything already queued, stop the sink, then close every external
// resource best-effort. Each closure is attempted even if an earlier one
// failed; failures are joined, not raised mid-teardown.
func (r *Runtime) Shutdown(ctx context.Context) error {
	r.state.Store(int32(StateDraining))

	if r.pollerCancel != nil {
		r.pollerCancel()
		// The queue must not close while the poller can still enqueue.
		// Cancellation makes this wait prompt (probe, enqueue, and sleep
		// are all cancellable), so it is not bounded by ctx.
		<-r.pollerDone
	}

	r.queue.Close()

	if r.relayDone != nil {
		select {
		case <-r.relayDone:
		case <-ctx.Done():
			// Give up on draining; unblock the relay wherever it is.
			if r.relayCancel != nil {
				r.relayCancel()
			}
			<-r.relayDone
		}
	}
	if r.relayCancel != nil {
		r.relayCancel()
	}

	if r.sinkCancel != nil {
		r.sinkCancel()
		select {
		case <-r.sinkDone:
		case <-ctx.Done():
		}
	}

	r.state.Store(int32(StateStopped))

	var errs []error
	if r.gaugeStopCh != nil {
		close(r.gaugeStopCh)
		r.gaugeStopCh = nil
	}
	if r.metricsSrv != nil {
		if err := r.metricsSrv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, err)
		}
	}
	if r.publisher != nil {
		if err := r.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
	}
	if r.subscriber != nil {
		if err := r.subscriber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close subscriber: %w", err))
		}
	}
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (r *Runtime) startMetrics() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.metricsSrv = &http.Server{
		Addr:    r.cfg.Metrics.Addr,
		Handler: mux,
	}

	go func() {
		if err := r.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("metrics server exited: %v", err)
		}
	}()

	r.gaugeStopCh = make(chan struct{})
	go r.recordQueueGauge(r.gaugeStopCh, time.Second)
}

func (r *Runtime) recordQueueGauge(stop <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.obs.SetGauge("pulse_queue_length", float64(r.queue.Len()))
		}
	}
}
