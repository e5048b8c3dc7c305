package pubsub

import (
	"testing"
	"time"
)

func TestInvalidationEvent_Validate(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		event   InvalidationEvent
		wantErr bool
	}{
		{
			name: "valid with keys",
			event: InvalidationEvent{
				Version:     EventVersion1,
				Service:     "cache-manager",
				Keys:        []string{"user:123", "user:456"},
				TriggeredAt: now,
				RequestID:   "req-123",
			},
			wantErr: false,
		},
		{
			name: "valid with pattern",
			event: InvalidationEvent{
				Version:     EventVersion1,
				Service:     "api-gateway",
				Pattern:     "users:*",
				TriggeredAt: now,
				RequestID:   "req-456",
			},
			wantErr: false,
		},
		{
			name: "valid with both keys and pattern",
			event: InvalidationEvent{
				Version:     EventVersion1,
				Service:     "cache-manager",
				Keys:        []string{"user:123"},
				Pattern:     "sessions:*",
				TriggeredAt: now,
				RequestID:   "req-789",
			},
			wantErr: false,
		},
		{
			name: "invalid version",
			event: InvalidationEvent{
				Version:     999,
				Service:     "cache-manager",
				Keys:        []string{"user:123"},
				TriggeredAt: now,
				RequestID:   "req-123",
			},
			wantErr: true,
		},
		{
			name: "missing service",
			event: InvalidationEvent{
				Version:     EventVersion1,
				Keys:        []string{"user:123"},
				TriggeredAt: now,
				RequestID:   "req-123",
			},
			wantErr: true,
		},
		{
			name: "missing keys and pattern",
			event: InvalidationEvent{
				Version:     EventVersion1,
				Service:     "cache-manager",
				TriggeredAt: now,
				RequestID:   "req-123",
			},
			wantErr: true,
		},
		{
			name: "zero triggered_at",
			event: InvalidationEvent{
				Version:   EventVersion1,
				Service:   "cache-manager",
				Keys:      []string{"user:123"},
				RequestID: "req-123",
			},
			wantErr: true,
		},
		{
			name: "missing request_id",
			event: InvalidationEvent{
				Version:     EventVersion1,
				Service:     "cache-manager",
				Keys:        []string{"user:123"},
				TriggeredAt: now,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestInvalidationEvent_JSON(t *testing.T) {
	now := time.Now().Truncate(time.Second) // Truncate for JSON comparison

	event := InvalidationEvent{
		Version:     EventVersion1,
		Service:     "cache-manager",
		Keys:        []string{"user:123", "user:456"},
		Pattern:     "sessions:*",
		TriggeredAt: now,
		Meta:        map[string]string{"reason": "user_logout"},
		RequestID:   "req-123",
	}

	// Marshal to JSON
	data, err := event.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	// Unmarshal from JSON
	decoded, err := InvalidationEventFromJSON(data)
	if err != nil {
		t.Fatalf("InvalidationEventFromJSON() error = %v", err)
	}

	// Verify fields
	if decoded.Version != event.Version {
		t.Errorf("Version = %v, want %v", decoded.Version, event.Version)
	}
	if decoded.Service != event.Service {
		t.Errorf("Service = %v, want %v", decoded.Service, event.Service)
	}
	if len(decoded.Keys) != len(event.Keys) {
		t.Errorf("Keys length = %v, want %v", len(decoded.Keys), len(event.Keys))
	}
	if decoded.Pattern != event.Pattern {
		t.Errorf("Pattern = %v, want %v", decoded.Pattern, event.Pattern)
	}
	if !decoded.TriggeredAt.Equal(event.TriggeredAt) {
		t.Errorf("TriggeredAt = %v, want %v", decoded.TriggeredAt, event.TriggeredAt)
	}
	if decoded.Meta["reason"] != event.Meta["reason"] {
		t.Errorf("Meta[reason] = %v, want %v", decoded.Meta["reason"], event.Meta["reason"])
	}
	if decoded.RequestID != event.RequestID {
		t.Errorf("RequestID = %v, want %v", decoded.RequestID, event.RequestID)
	}
}

func TestJobEvent_Validate(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		event   JobEvent
		wantErr bool
	}{
		{
			name: "valid completed",
			event: JobEvent{
				Version:         EventVersion1,
				JobID:           "job-1",
				Linter:          "eslint",
				Format:          "json",
				Status:          "completed",
				ExecutionTimeMs: 120,
				CompletedAt:     now,
				RequestID:       "req-123",
			},
			wantErr: false,
		},
		{
			name: "valid timeout",
			event: JobEvent{
				Version:     EventVersion1,
				JobID:       "job-2",
				Status:      "timeout",
				CompletedAt: now,
			},
			wantErr: false,
		},
		{
			name: "invalid version",
			event: JobEvent{
				Version:     999,
				JobID:       "job-1",
				Status:      "completed",
				CompletedAt: now,
			},
			wantErr: true,
		},
		{
			name: "missing job_id",
			event: JobEvent{
				Version:     EventVersion1,
				Status:      "completed",
				CompletedAt: now,
			},
			wantErr: true,
		},
		{
			name: "invalid status",
			event: JobEvent{
				Version:     EventVersion1,
				JobID:       "job-1",
				Status:      "unknown",
				CompletedAt: now,
			},
			wantErr: true,
		},
		{
			name: "zero completed_at",
			event: JobEvent{
				Version: EventVersion1,
				JobID:   "job-1",
				Status:  "failed",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestJobEvent_JSON(t *testing.T) {
	now := time.Now().Truncate(time.Second)

	event := JobEvent{
		Version:         EventVersion1,
		JobID:           "job-42",
		Linter:          "pylint",
		Format:          "sarif",
		Status:          "failed",
		ExecutionTimeMs: 4200,
		Error:           "exit code 2",
		CompletedAt:     now,
		Meta:            map[string]string{"workspace": "ws-1"},
		RequestID:       "req-456",
	}

	data, err := event.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	decoded, err := JobEventFromJSON(data)
	if err != nil {
		t.Fatalf("JobEventFromJSON() error = %v", err)
	}

	if decoded.JobID != event.JobID {
		t.Errorf("JobID = %v, want %v", decoded.JobID, event.JobID)
	}
	if decoded.Status != event.Status {
		t.Errorf("Status = %v, want %v", decoded.Status, event.Status)
	}
	if decoded.ExecutionTimeMs != event.ExecutionTimeMs {
		t.Errorf("ExecutionTimeMs = %v, want %v", decoded.ExecutionTimeMs, event.ExecutionTimeMs)
	}
	if decoded.Error != event.Error {
		t.Errorf("Error = %v, want %v", decoded.Error, event.Error)
	}
	if !decoded.CompletedAt.Equal(event.CompletedAt) {
		t.Errorf("CompletedAt = %v, want %v", decoded.CompletedAt, event.CompletedAt)
	}
}