package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// StatusUnreachable is the sentinel status for probes that never produced a
// protocol-level response (connection refused, DNS failure, timeout).
const StatusUnreachable = 0

// ErrEncode wraps failures to represent a record in the wire format.
var ErrEncode = errors.New("pulsewire: encode health record")

// ErrDecode wraps failures to rebuild a record from wire bytes.
var ErrDecode = errors.New("pulsewire: decode health record")

// HealthRecord is the canonical result of one probe. It is immutable once
// built: the relay and sink only ever read it.
type HealthRecord struct {
	ObservedAt float64 `json:"timestamp"`
	StatusCode int     `json:"response_status"`
	Body       string  `json:"response_data"`
	Latency    float64 `json:"response_time"`
}

// Encode serializes the record as field-name-keyed JSON so consumers can
// tolerate producers adding optional fields later.
func (r *HealthRecord) Encode() ([]byte, error) {
	if math.IsNaN(r.Latency) || math.IsInf(r.Latency, 0) {
		return nil, fmt.Errorf("%w: non-finite latency %f", ErrEncode, r.Latency)
	}
	if math.IsNaN(r.ObservedAt) || math.IsInf(r.ObservedAt, 0) {
		return nil, fmt.Errorf("%w: non-finite timestamp %f", ErrEncode, r.ObservedAt)
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return b, nil
}

// Decode rebuilds a HealthRecord from wire bytes. Every field is required;
// unknown fields are ignored.
func Decode(b []byte) (*HealthRecord, error) {
	var raw struct {
		ObservedAt *float64 `json:"timestamp"`
		StatusCode *int     `json:"response_status"`
		Body       *string  `json:"response_data"`
		Latency    *float64 `json:"response_time"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	switch {
	case raw.ObservedAt == nil:
		return nil, fmt.Errorf("%w: missing field %q", ErrDecode, "timestamp")
	case raw.StatusCode == nil:
		return nil, fmt.Errorf("%w: missing field %q", ErrDecode, "response_status")
	case raw.Body == nil:
		return nil, fmt.Errorf("%w: missing field %q", ErrDecode, "response_data")
	case raw.Latency == nil:
		return nil, fmt.Errorf("%w: missing field %q", ErrDecode, "response_time")
	}
	return &HealthRecord{
		ObservedAt: *raw.ObservedAt,
		StatusCode: *raw.StatusCode,
		Body:       *raw.Body,
		Latency:    *raw.Latency,
	}, nil
}
