package store

import (
	"sync/atomic"
	"time"
)

// MetricsSnapshot is a point-in-time copy of a store's counters.
type MetricsSnapshot struct {
	Updates   int64
	Rejected  int64
	Callbacks int64

	// LastUpdate is when the most recent update committed; zero if none has.
	LastUpdate time.Time
}

// Metrics counts store activity. Safe for concurrent use.
type Metrics struct {
	updates    atomic.Int64
	rejected   atomic.Int64
	callbacks  atomic.Int64
	lastUpdate atomic.Int64 // unix nanoseconds
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordUpdate counts a committed update made at t.
func (m *Metrics) RecordUpdate(t time.Time) {
	m.updates.Add(1)
	m.lastUpdate.Store(t.UnixNano())
}

func (m *Metrics) RecordRejected() {
	m.rejected.Add(1)
}

func (m *Metrics) RecordCallback() {
	m.callbacks.Add(1)
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		Updates:   m.updates.Load(),
		Rejected:  m.rejected.Load(),
		Callbacks: m.callbacks.Load(),
	}
	if ns := m.lastUpdate.Load(); ns != 0 {
		snap.LastUpdate = time.Unix(0, ns)
	}
	return snap
}
