// Package telemetry holds the process-wide latency ring buffer shared
// by the job manager, the sync lint service, and the monitoring
// service's GET /metrics handler. It is split out from monitoring
// itself so the producers (job, lint) don't have to import the
// consumer (monitoring), which would otherwise cycle back through
// monitoring's own calls into job.Stats and cache.Stats.
//
// Adapted from the teacher's MetricsCollector ring buffer
// (monitoring/metrics.go): a single mutex replaces the teacher's
// lock-free CAS loop, since this service answers a handful of
// requests per second rather than the teacher's >1M events/sec
// target, and a mutex never drops a sample under concurrent Add.
package telemetry

import (
	"sync"
	"time"

	"linthub.app/pkg/models"
)

type ring struct {
	mu      sync.Mutex
	samples []time.Duration
	next    int
	full    bool
}

func newRing(capacity int) *ring {
	return &ring{samples: make([]time.Duration, capacity)}
}

func (r *ring) add(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples[r.next] = d
	r.next = (r.next + 1) % len(r.samples)
	if r.next == 0 {
		r.full = true
	}
}

func (r *ring) snapshot() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		out := make([]time.Duration, r.next)
		copy(out, r.samples[:r.next])
		return out
	}
	out := make([]time.Duration, len(r.samples))
	copy(out, r.samples)
	return out
}

var executionLatency = newRing(10000)

// RecordExecution records one linter execution's wall time, called by
// the job manager and the sync lint service after every run attempt.
func RecordExecution(d time.Duration) {
	executionLatency.add(d)
}

// ExecutionSummary returns the current percentile summary over the
// retained execution samples.
func ExecutionSummary() models.LatencySummary {
	return models.CalculateLatencySummary(executionLatency.snapshot())
}
