package pubsub

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Event versioning strategy:
// - Version 1: Initial schema
// - Future versions: Add fields, never remove (backward compatible)
// - Consumers should check Version and handle appropriately

const (
	// EventVersion1 is the current event schema version
	EventVersion1 = 1
)

// InvalidationEvent represents a cache invalidation request.
// This event is published to TopicCacheInvalidate.
//
// Invalidation modes:
//   - Exact keys: Provide Keys slice (hot-tier keys, see models.Key.HotKey)
//   - Pattern-based: Provide Pattern (e.g., "*|eslint|*|*")
//   - Combination: Both Keys and Pattern can be set
type InvalidationEvent struct {
	Version int `json:"version"`

	// Service that triggered the invalidation (e.g., "cache", "store")
	Service string `json:"service"`

	// Keys to invalidate (exact hot-tier keys). Can be empty if Pattern is set.
	Keys []string `json:"keys,omitempty"`

	// Pattern for wildcard invalidation. Optional.
	Pattern string `json:"pattern,omitempty"`

	TriggeredAt time.Time         `json:"triggered_at"`
	Meta        map[string]string `json:"meta,omitempty"`
	RequestID   string            `json:"request_id"`
}

// Validate checks if the InvalidationEvent is well-formed.
func (e *InvalidationEvent) Validate() error {
	if e.Version != EventVersion1 {
		return fmt.Errorf("unsupported event version: %d", e.Version)
	}
	if e.Service == "" {
		return errors.New("service field is required")
	}
	if len(e.Keys) == 0 && e.Pattern == "" {
		return errors.New("at least one of keys or pattern must be set")
	}
	if e.TriggeredAt.IsZero() {
		return errors.New("triggered_at cannot be zero")
	}
	if e.RequestID == "" {
		return errors.New("request_id is required for tracing")
	}
	return nil
}

// ToJSON serializes the event to JSON.
func (e *InvalidationEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// InvalidationEventFromJSON deserializes an InvalidationEvent from JSON.
func InvalidationEventFromJSON(data []byte) (*InvalidationEvent, error) {
	var e InvalidationEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("failed to unmarshal InvalidationEvent: %w", err)
	}
	return &e, nil
}

// JobEvent represents a job lifecycle transition into a terminal state
// (completed, failed, cancelled, timeout — §4.5). Published by the job
// manager to the matching Topic* constant.
type JobEvent struct {
	Version int `json:"version"`

	JobID  string `json:"job_id"`
	Linter string `json:"linter"`
	Format string `json:"format"`
	Status string `json:"status"`

	ExecutionTimeMs int64  `json:"execution_time_ms"`
	Error           string `json:"error,omitempty"`

	CompletedAt time.Time         `json:"completed_at"`
	Meta        map[string]string `json:"meta,omitempty"`
	RequestID   string            `json:"request_id"`
}

// Validate checks if the JobEvent is well-formed.
func (e *JobEvent) Validate() error {
	if e.Version != EventVersion1 {
		return fmt.Errorf("unsupported event version: %d", e.Version)
	}
	if e.JobID == "" {
		return errors.New("job_id is required")
	}
	validStatuses := map[string]bool{"completed": true, "failed": true, "cancelled": true, "timeout": true}
	if !validStatuses[e.Status] {
		return fmt.Errorf("invalid status: %s", e.Status)
	}
	if e.CompletedAt.IsZero() {
		return errors.New("completed_at cannot be zero")
	}
	return nil
}

// ToJSON serializes the event to JSON.
func (e *JobEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// JobEventFromJSON deserializes a JobEvent from JSON.
func JobEventFromJSON(data []byte) (*JobEvent, error) {
	var e JobEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JobEvent: %w", err)
	}
	return &e, nil
}
