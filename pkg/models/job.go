package models

import "time"

// JobStatus is a state in the job state machine (§4.5).
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
	JobCancelled JobStatus = "cancelled"
)

// IsTerminal reports whether status permits no further transitions.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobCompleted, JobFailed, JobCancelled:
		return true
	default:
		return false
	}
}

// JobInput is mutually exclusive: exactly one of Text/Archive is set.
type JobInput struct {
	Text     string `json:"text,omitempty"`
	Archive  []byte `json:"archive,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// Job is the durable record owned exclusively by the job manager (§3).
type Job struct {
	ID              string
	Linter          string
	Format          string
	Options         CanonicalOptions
	Input           JobInput
	Status          JobStatus
	Result          *LinterResult
	Error           string
	CreatedAt       time.Time
	StartedAt       *time.Time
	CompletedAt     *time.Time
	ExecutionTimeMs int64
}

// JobSnapshot is the read-only view returned by status(id).
type JobSnapshot struct {
	ID              string        `json:"job_id"`
	Status          JobStatus     `json:"status"`
	Linter          string        `json:"linter"`
	Format          string        `json:"format"`
	Result          *LinterResult `json:"result,omitempty"`
	Error           string        `json:"error,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	StartedAt       *time.Time    `json:"started_at,omitempty"`
	CompletedAt     *time.Time    `json:"completed_at,omitempty"`
	ExecutionTimeMs int64         `json:"execution_time_ms,omitempty"`
}

// Snapshot projects a Job into its externally visible shape.
func (j *Job) Snapshot() JobSnapshot {
	return JobSnapshot{
		ID:              j.ID,
		Status:          j.Status,
		Linter:          j.Linter,
		Format:          j.Format,
		Result:          j.Result,
		Error:           j.Error,
		CreatedAt:       j.CreatedAt,
		StartedAt:       j.StartedAt,
		CompletedAt:     j.CompletedAt,
		ExecutionTimeMs: j.ExecutionTimeMs,
	}
}

// JobStats mirrors the job manager's stats() operation.
type JobStats struct {
	Running   int `json:"running"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Cancelled int `json:"cancelled"`
}
