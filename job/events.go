package job

import (
	"context"
	"time"

	epubsub "encore.dev/pubsub"

	"linthub.app/pkg/models"
	"linthub.app/pkg/obslog"
	"linthub.app/pkg/pubsub"
)

// Lifecycle topics fan out terminal job transitions (§4.5 "Events"),
// replacing the teacher's cache-warming topics of the same shape:
// one topic per terminal outcome, each carrying a JobEvent.
var (
	topicJobCompleted = epubsub.NewTopic[*pubsub.JobEvent](
		pubsub.TopicJobCompleted, epubsub.TopicConfig{DeliveryGuarantee: epubsub.AtLeastOnce})
	topicJobFailed = epubsub.NewTopic[*pubsub.JobEvent](
		pubsub.TopicJobFailed, epubsub.TopicConfig{DeliveryGuarantee: epubsub.AtLeastOnce})
	topicJobCancelled = epubsub.NewTopic[*pubsub.JobEvent](
		pubsub.TopicJobCancelled, epubsub.TopicConfig{DeliveryGuarantee: epubsub.AtLeastOnce})
	topicJobTimeout = epubsub.NewTopic[*pubsub.JobEvent](
		pubsub.TopicJobTimeout, epubsub.TopicConfig{DeliveryGuarantee: epubsub.AtLeastOnce})
)

// publish emits one JobEvent to the topic matching the job's terminal
// outcome. Publish failures are logged and swallowed: the status
// transition already persisted, and a lost notification must never
// fail the job itself.
func (m *Manager) publish(ctx context.Context, job *models.Job, status models.JobStatus, errMsg string, execMs int64, timedOut bool) {
	requestID := obslog.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = obslog.NewRequestID()
	}

	eventStatus := string(status)
	topic := topicJobFailed
	switch {
	case timedOut:
		eventStatus = "timeout"
		topic = topicJobTimeout
	case status == models.JobCompleted:
		topic = topicJobCompleted
	case status == models.JobCancelled:
		topic = topicJobCancelled
	case status == models.JobFailed:
		topic = topicJobFailed
	}

	event := &pubsub.JobEvent{
		Version:         pubsub.EventVersion1,
		JobID:           job.ID,
		Linter:          job.Linter,
		Format:          job.Format,
		Status:          eventStatus,
		ExecutionTimeMs: execMs,
		Error:           errMsg,
		CompletedAt:     time.Now().UTC(),
		RequestID:       requestID,
	}

	if _, err := topic.Publish(ctx, event); err != nil {
		m.log.Warn(ctx, "failed to publish job event", map[string]interface{}{"error": err.Error(), "job_id": job.ID})
	}
}
