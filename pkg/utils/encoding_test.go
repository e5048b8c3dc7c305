package utils

import (
	"testing"
	"time"

	"linthub.app/pkg/models"
	"linthub.app/pkg/pubsub"
)

func TestMarshalUnmarshalEntry(t *testing.T) {
	now := time.Now().Truncate(time.Second)

	entry := &models.CacheEntry{
		ID:          "entry-1",
		Linter:      "eslint",
		Format:      "json",
		ContentHash: "abc123",
		OptionsHash: "def456",
		Result:      []byte(`{"issues":[]}`),
		Status:      models.CacheSuccess,
		CreatedAt:   now,
		ExpiresAt:   now.Add(time.Hour),
	}

	data, err := MarshalEntry(entry)
	if err != nil {
		t.Fatalf("MarshalEntry() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("MarshalEntry() returned empty data")
	}

	decoded, err := UnmarshalEntry(data)
	if err != nil {
		t.Fatalf("UnmarshalEntry() error = %v", err)
	}

	if decoded.ID != entry.ID {
		t.Errorf("ID = %v, want %v", decoded.ID, entry.ID)
	}
	if decoded.Linter != entry.Linter {
		t.Errorf("Linter = %v, want %v", decoded.Linter, entry.Linter)
	}
	if string(decoded.Result) != string(entry.Result) {
		t.Errorf("Result = %v, want %v", string(decoded.Result), string(entry.Result))
	}
	if !decoded.CreatedAt.Equal(entry.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", decoded.CreatedAt, entry.CreatedAt)
	}
	if !decoded.ExpiresAt.Equal(entry.ExpiresAt) {
		t.Errorf("ExpiresAt = %v, want %v", decoded.ExpiresAt, entry.ExpiresAt)
	}
	if decoded.Status != entry.Status {
		t.Errorf("Status = %v, want %v", decoded.Status, entry.Status)
	}
}

func TestMarshalEntry_Nil(t *testing.T) {
	_, err := MarshalEntry(nil)
	if err == nil {
		t.Error("MarshalEntry(nil) should return error")
	}
}

func TestUnmarshalEntry_Empty(t *testing.T) {
	_, err := UnmarshalEntry([]byte{})
	if err == nil {
		t.Error("UnmarshalEntry(empty) should return error")
	}
}

func TestUnmarshalEntry_Invalid(t *testing.T) {
	_, err := UnmarshalEntry([]byte("invalid json"))
	if err == nil {
		t.Error("UnmarshalEntry(invalid) should return error")
	}
}

func TestMarshalUnmarshalEvent_InvalidationEvent(t *testing.T) {
	now := time.Now().Truncate(time.Second)

	event := &pubsub.InvalidationEvent{
		Version:     pubsub.EventVersion1,
		Service:     "cache",
		Keys:        []string{"abc|eslint|json|def"},
		Pattern:     "eslint|*|*|*",
		TriggeredAt: now,
		Meta:        map[string]string{"reason": "admin_clear"},
		RequestID:   "req-123",
	}

	data, err := MarshalEvent(event)
	if err != nil {
		t.Fatalf("MarshalEvent() error = %v", err)
	}

	var decoded pubsub.InvalidationEvent
	err = UnmarshalEvent(data, &decoded)
	if err != nil {
		t.Fatalf("UnmarshalEvent() error = %v", err)
	}

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
	if decoded.RequestID != event.RequestID {
		t.Errorf("RequestID = %v, want %v", decoded.RequestID, event.RequestID)
	}
}

func TestMarshalUnmarshalEvent_JobEvent(t *testing.T) {
	now := time.Now().Truncate(time.Second)

	event := &pubsub.JobEvent{
		Version:         pubsub.EventVersion1,
		JobID:           "job-1",
		Linter:          "shellcheck",
		Format:          "text",
		Status:          "completed",
		ExecutionTimeMs: 250,
		CompletedAt:     now,
		Meta:            map[string]string{"workspace": "ws-1"},
		RequestID:       "req-456",
	}

	data, err := MarshalEvent(event)
	if err != nil {
		t.Fatalf("MarshalEvent() error = %v", err)
	}

	var decoded pubsub.JobEvent
	err = UnmarshalEvent(data, &decoded)
	if err != nil {
		t.Fatalf("UnmarshalEvent() error = %v", err)
	}

	if decoded.Status != event.Status {
		t.Errorf("Status = %v, want %v", decoded.Status, event.Status)
	}
	if decoded.ExecutionTimeMs != event.ExecutionTimeMs {
		t.Errorf("ExecutionTimeMs = %v, want %v", decoded.ExecutionTimeMs, event.ExecutionTimeMs)
	}
	if decoded.JobID != event.JobID {
		t.Errorf("JobID = %v, want %v", decoded.JobID, event.JobID)
	}
}

func TestMarshalEvent_Nil(t *testing.T) {
	_, err := MarshalEvent(nil)
	if err == nil {
		t.Error("MarshalEvent(nil) should return error")
	}
}

func TestUnmarshalEvent_Nil(t *testing.T) {
	err := UnmarshalEvent([]byte("{}"), nil)
	if err == nil {
		t.Error("UnmarshalEvent() with nil pointer should return error")
	}
}

func TestUnmarshalEvent_Empty(t *testing.T) {
	var event pubsub.InvalidationEvent
	err := UnmarshalEvent([]byte{}, &event)
	if err == nil {
		t.Error("UnmarshalEvent(empty) should return error")
	}
}

func TestMarshalUnmarshalJSON(t *testing.T) {
	data := map[string]interface{}{
		"name":  "test",
		"count": 42,
		"tags":  []string{"tag1", "tag2"},
	}

	encoded, err := MarshalJSON(data)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}

	var decoded map[string]interface{}
	err = UnmarshalJSON(encoded, &decoded)
	if err != nil {
		t.Fatalf("UnmarshalJSON() error = %v", err)
	}

	if decoded["name"] != data["name"] {
		t.Errorf("name = %v, want %v", decoded["name"], data["name"])
	}
	if decoded["count"].(float64) != float64(data["count"].(int)) {
		t.Errorf("count = %v, want %v", decoded["count"], data["count"])
	}
}

func TestCompactJSON(t *testing.T) {
	pretty := []byte(`{
  "name": "test",
  "count": 42
}`)

	compacted, err := CompactJSON(pretty)
	if err != nil {
		t.Fatalf("CompactJSON() error = %v", err)
	}

	expected := `{"name":"test","count":42}`
	if string(compacted) != expected {
		t.Errorf("CompactJSON() = %s, want %s", string(compacted), expected)
	}
}

func TestCompactJSON_Invalid(t *testing.T) {
	_, err := CompactJSON([]byte("invalid json"))
	if err == nil {
		t.Error("CompactJSON(invalid) should return error")
	}
}

func TestPrettyJSON(t *testing.T) {
	compact := []byte(`{"name":"test","count":42}`)

	pretty, err := PrettyJSON(compact)
	if err != nil {
		t.Fatalf("PrettyJSON() error = %v", err)
	}

	if len(pretty) <= len(compact) {
		t.Error("PrettyJSON() should produce larger output with formatting")
	}

	var v interface{}
	err = UnmarshalJSON(pretty, &v)
	if err != nil {
		t.Errorf("PrettyJSON() produced invalid JSON: %v", err)
	}
}

func TestPrettyJSON_Invalid(t *testing.T) {
	_, err := PrettyJSON([]byte("invalid json"))
	if err == nil {
		t.Error("PrettyJSON(invalid) should return error")
	}
}

func TestEstimateEncodedSize(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  int
	}{
		{"empty map", map[string]string{}, 2},
		{"small string", "hello", 7},
		{"number", 42, 2},
		{"array", []int{1, 2, 3}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size := EstimateEncodedSize(tt.value)
			if size < tt.want-2 || size > tt.want+10 {
				t.Errorf("EstimateEncodedSize() = %d, want ~%d", size, tt.want)
			}
		})
	}
}

func TestEstimateEncodedSize_Invalid(t *testing.T) {
	ch := make(chan int)
	size := EstimateEncodedSize(ch)
	if size != 0 {
		t.Errorf("EstimateEncodedSize(unmarshalable) = %d, want 0", size)
	}
}

func BenchmarkMarshalEntry(b *testing.B) {
	entry := &models.CacheEntry{
		ID:          "entry-1",
		Linter:      "eslint",
		Format:      "json",
		ContentHash: "abc123",
		OptionsHash: "def456",
		Result:      []byte(`{"issues":[]}`),
		Status:      models.CacheSuccess,
		CreatedAt:   time.Now(),
		ExpiresAt:   time.Now().Add(time.Hour),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		MarshalEntry(entry)
	}
}

func BenchmarkUnmarshalEntry(b *testing.B) {
	entry := &models.CacheEntry{
		ID:        "entry-1",
		Linter:    "eslint",
		Result:    []byte(`{"issues":[]}`),
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}

	data, _ := MarshalEntry(entry)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		UnmarshalEntry(data)
	}
}

func BenchmarkMarshalEvent(b *testing.B) {
	event := &pubsub.InvalidationEvent{
		Version:     pubsub.EventVersion1,
		Service:     "cache",
		Keys:        []string{"abc|eslint|json|def"},
		TriggeredAt: time.Now(),
		RequestID:   "req-123",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		MarshalEvent(event)
	}
}
