package pulsewire

import (
	"github.com/abtiwary/pulsewire/internal/domain"
	"github.com/abtiwary/pulsewire/internal/ports"
)

// HealthRecord is the observation that flows through the poller → queue →
// relay → stream → sink pipeline. It mirrors the internal domain type so
// custom adapters can reference it.
type HealthRecord = domain.HealthRecord

// StatusUnreachable marks probes that never produced a protocol-level response.
const StatusUnreachable = domain.StatusUnreachable

// Prober issues one outbound health check per call.
type Prober = ports.Prober

// ProbeResult is the raw outcome of a successful probe.
type ProbeResult = ports.ProbeResult

// RecordQueue is the bounded FIFO that decouples the poller from the relay.
type RecordQueue = ports.RecordQueue

// ErrQueueClosed is the terminal Dequeue error a RecordQueue returns once it
// is closed and drained; custom queue implementations must return it too.
var ErrQueueClosed = ports.ErrQueueClosed

// Publisher forwards encoded records to the message-stream topic.
type Publisher = ports.Publisher

// Subscriber consumes the topic from the earliest retained offset.
type Subscriber = ports.Subscriber

// Store persists one record per call with an individual commit.
type Store = ports.Store

// Observability emits metrics/logs about probes, publishes, and skips.
type Observability = ports.Observability

// Field is a structured log field used by Observability implementations.
type Field = ports.Field
