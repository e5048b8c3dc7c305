package models

import (
	"testing"
	"time"
)

func TestCalculateLatencySummary(t *testing.T) {
	samples := []time.Duration{
		10 * time.Millisecond,
		20 * time.Millisecond,
		30 * time.Millisecond,
		40 * time.Millisecond,
		50 * time.Millisecond,
	}

	summary := CalculateLatencySummary(samples)

	if summary.Count != 5 {
		t.Errorf("Count = %d, want 5", summary.Count)
	}
	if summary.Min != 10*time.Millisecond {
		t.Errorf("Min = %v, want 10ms", summary.Min)
	}
	if summary.Max != 50*time.Millisecond {
		t.Errorf("Max = %v, want 50ms", summary.Max)
	}
	if summary.P50 != 30*time.Millisecond {
		t.Errorf("P50 = %v, want 30ms", summary.P50)
	}
}

func TestCalculateLatencySummary_Empty(t *testing.T) {
	summary := CalculateLatencySummary(nil)
	if summary.Count != 0 {
		t.Errorf("expected zero-value summary for empty input, got %+v", summary)
	}
}

func TestLatencySummary_AvgLatency(t *testing.T) {
	ls := LatencySummary{Count: 4, Sum: 100 * time.Millisecond}
	if got := ls.AvgLatency(); got != 25*time.Millisecond {
		t.Errorf("AvgLatency() = %v, want 25ms", got)
	}

	empty := LatencySummary{}
	if got := empty.AvgLatency(); got != 0 {
		t.Errorf("AvgLatency() on empty = %v, want 0", got)
	}
}
