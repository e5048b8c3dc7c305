package monitoring

import (
	"context"
	"testing"
)

func TestHealth_DegradedWhenNoLintersAvailable(t *testing.T) {
	s := &Service{}
	resp, err := s.health(context.Background())
	if err != nil {
		t.Fatalf("health() error = %v", err)
	}
	if resp.Status != "degraded" {
		t.Fatalf("status = %s, want degraded (no store, no runner available in test process)", resp.Status)
	}
	if resp.Store {
		t.Fatal("expected store to be unreachable in a unit test process")
	}
}

func TestMetrics_ReturnsLatencySummaryEvenWithNoSamples(t *testing.T) {
	s := &Service{}
	resp, err := s.metrics(context.Background())
	if err != nil {
		t.Fatalf("metrics() error = %v", err)
	}
	if resp.Latency.Count != 0 {
		t.Fatalf("Count = %d, want 0 with no recorded executions", resp.Latency.Count)
	}
}
