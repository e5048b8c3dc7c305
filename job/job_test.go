package job

import (
	"context"
	"testing"

	"linthub.app/pkg/models"
)

func TestCanTransition_LegalEdges(t *testing.T) {
	cases := []struct {
		from, to models.JobStatus
		want     bool
	}{
		{models.JobPending, models.JobRunning, true},
		{models.JobPending, models.JobCancelled, true},
		{models.JobPending, models.JobCompleted, false},
		{models.JobRunning, models.JobCompleted, true},
		{models.JobRunning, models.JobFailed, true},
		{models.JobRunning, models.JobCancelled, true},
		{models.JobRunning, models.JobPending, false},
		{models.JobCompleted, models.JobRunning, false},
		{models.JobFailed, models.JobCancelled, false},
		{models.JobCancelled, models.JobRunning, false},
	}

	for _, tc := range cases {
		got := canTransition(tc.from, tc.to)
		if got != tc.want {
			t.Errorf("canTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestTransitions_TerminalStatesAreClosed(t *testing.T) {
	for _, status := range []models.JobStatus{models.JobCompleted, models.JobFailed, models.JobCancelled} {
		edges := transitions[status]
		if len(edges) != 0 {
			t.Errorf("terminal status %s has outgoing edges: %v", status, edges)
		}
	}
}

func TestManager_Stats_SubmittedTracksPending(t *testing.T) {
	m := &Manager{}
	m.recordSubmitted()
	m.recordSubmitted()

	stats := m.Stats()
	if stats.Pending != 2 {
		t.Fatalf("Pending = %d, want 2", stats.Pending)
	}
}

func TestManager_Stats_StartedMovesRunningFromPending(t *testing.T) {
	m := &Manager{}
	m.recordSubmitted()
	m.recordStarted()

	stats := m.Stats()
	if stats.Pending != 0 || stats.Running != 1 {
		t.Fatalf("stats = %+v, want Pending=0 Running=1", stats)
	}
}

func TestManager_Stats_TerminalMovesRunningToOutcome(t *testing.T) {
	m := &Manager{}
	m.recordSubmitted()
	m.recordStarted()
	m.recordTerminal(models.JobCompleted)

	stats := m.Stats()
	if stats.Running != 0 || stats.Completed != 1 {
		t.Fatalf("stats = %+v, want Running=0 Completed=1", stats)
	}
}

func TestManager_Submit_RejectsAtCapacity(t *testing.T) {
	m := &Manager{sem: make(chan struct{}, 1), handles: make(map[string]*handle)}
	m.sem <- struct{}{}

	_, err := m.Submit(context.Background(), SubmitRequest{})
	if err != ErrAtCapacity {
		t.Fatalf("err = %v, want ErrAtCapacity", err)
	}
}
