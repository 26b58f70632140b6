package observability

import (
	"log"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/abtiwary/pulsewire/internal/ports"
)

type PromObs struct {
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	histos   map[string]prometheus.Observer
}

func NewPromObs() *PromObs {
	probes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pulse_probes_total",
		Help: "Total probes issued, including failed ones.",
	})
	probeFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pulse_probe_failures_total",
		Help: "Probes that produced no protocol-level response.",
	})
	published := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pulse_records_published_total",
		Help: "Records successfully forwarded to the stream topic.",
	})
	publishRetries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pulse_publish_retries_total",
		Help: "Publish attempts repeated after a transient failure.",
	})
	dropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pulse_records_dropped_total",
		Help: "Records abandoned after the publish retry budget was exhausted.",
	})
	stored := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pulse_rows_stored_total",
		Help: "Rows committed to the database by the sink.",
	})
	skipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pulse_sink_skipped_total",
		Help: "Stream messages skipped after a decode or persistence failure.",
	})
	queueGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pulse_queue_length",
		Help: "Current number of records buffered between poller and relay.",
	})
	probeLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pulse_probe_latency_seconds",
		Help:    "Wall-clock probe duration from request start to body completion.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
	})
	sinkLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pulse_sink_commit_seconds",
		Help:    "Time to insert and commit one record.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})

	prometheus.MustRegister(probes, probeFailures, published, publishRetries,
		dropped, stored, skipped, queueGauge, probeLatency, sinkLatency)

	return &PromObs{
		counters: map[string]prometheus.Counter{
			"pulse_probes_total":            probes,
			"pulse_probe_failures_total":    probeFailures,
			"pulse_records_published_total": published,
			"pulse_publish_retries_total":   publishRetries,
			"pulse_records_dropped_total":   dropped,
			"pulse_rows_stored_total":       stored,
			"pulse_sink_skipped_total":      skipped,
		},
		gauges: map[string]prometheus.Gauge{
			"pulse_queue_length": queueGauge,
		},
		histos: map[string]prometheus.Observer{
			"pulse_probe_latency_seconds": probeLatency,
			"pulse_sink_commit_seconds":   sinkLatency,
		},
	}
}

func (p *PromObs) LogInfo(msg string, fields ...ports.Field) {}

func (p *PromObs) LogError(msg string, err error, fields ...ports.Field) {
	if err != nil {
		log.Printf("ERROR: %s: %v", msg, err)
	}
}

func (p *PromObs) LogCritical(msg string, err error, fields ...ports.Field) {
	if err != nil {
		log.Printf("CRITICAL: %s: %v", msg, err)
	}
}

func (p *PromObs) IncCounter(name string, v float64) {
	if c, ok := p.counters[name]; ok {
		c.Add(v)
	}
}

func (p *PromObs) ObserveLatency(name string, seconds float64) {
	if h, ok := p.histos[name]; ok {
		h.Observe(seconds)
	}
}

func (p *PromObs) SetGauge(name string, v float64) {
	if g, ok := p.gauges[name]; ok {
		g.Set(v)
	}
}

func (p *PromObs) RecordSkip(raw []byte, err error) {
	p.IncCounter("pulse_sink_skipped_total", 1)
	if err != nil {
		log.Printf("SKIP message payload=%q err=%v", truncate(raw, 512), err)
	}
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}

var _ ports.Observability = (*PromObs)(nil)
