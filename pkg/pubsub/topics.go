// Package pubsub provides topic names and event type definitions for the
// lint pipeline's event-driven side channel: cache invalidation fan-out
// and job lifecycle notifications. Generalized from the teacher's
// pkg/pubsub/topics.go, which defined cache.invalidate/refresh/warm
// topics for its distributed cache; this keeps the invalidation topic
// and replaces the warming topics with the job lifecycle events §4.5
// requires.
//
// Design Notes:
//   - Topics are defined as constants to avoid typos and enable compile-time checks.
//   - Version field in events enables schema evolution without breaking consumers.
//   - No direct Encore dependencies to keep pkg/ reusable across services.
package pubsub

// Topic name constants for Encore Pub/Sub integration.
const (
	// TopicCacheInvalidate is published when cache entries need invalidation.
	// Event type: InvalidationEvent
	// Publishers: cache service (Invalidate, when it removed at least one row)
	// Subscribers: cache service hot-tier sweeper
	TopicCacheInvalidate = "cache.invalidate"

	// TopicJobCompleted is published when a job finishes successfully.
	// Event type: JobEvent
	TopicJobCompleted = "job.completed"

	// TopicJobFailed is published when a job finishes with a runner or
	// pipeline error.
	// Event type: JobEvent
	TopicJobFailed = "job.failed"

	// TopicJobCancelled is published when a job is cancelled before
	// reaching a terminal state.
	// Event type: JobEvent
	TopicJobCancelled = "job.cancelled"

	// TopicJobTimeout is published when a job is terminated for exceeding
	// its configured timeout.
	// Event type: JobEvent
	TopicJobTimeout = "job.timeout"
)

// AllTopics returns all defined topic names.
func AllTopics() []string {
	return []string{
		TopicCacheInvalidate,
		TopicJobCompleted,
		TopicJobFailed,
		TopicJobCancelled,
		TopicJobTimeout,
	}
}

// IsValidTopic checks if the given topic name is recognized.
func IsValidTopic(topic string) bool {
	for _, t := range AllTopics() {
		if t == topic {
			return true
		}
	}
	return false
}

// TopicMetadata provides descriptive information about topics.
type TopicMetadata struct {
	Name        string
	Description string
	EventType   string
}

// GetTopicMetadata returns metadata for all topics.
func GetTopicMetadata() []TopicMetadata {
	return []TopicMetadata{
		{
			Name:        TopicCacheInvalidate,
			Description: "Cache invalidation events for key or pattern-based clearing",
			EventType:   "InvalidationEvent",
		},
		{
			Name:        TopicJobCompleted,
			Description: "Job finished successfully",
			EventType:   "JobEvent",
		},
		{
			Name:        TopicJobFailed,
			Description: "Job finished with an error",
			EventType:   "JobEvent",
		},
		{
			Name:        TopicJobCancelled,
			Description: "Job was cancelled before completion",
			EventType:   "JobEvent",
		},
		{
			Name:        TopicJobTimeout,
			Description: "Job exceeded its configured timeout",
			EventType:   "JobEvent",
		},
	}
}
