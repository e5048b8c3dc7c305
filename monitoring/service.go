// Package monitoring implements the Metrics & Health surface (GET
// /metrics, GET /health): a read-only aggregation over the cache, job,
// runner, and store services. Generalized from the teacher's
// monitoring service, cut down from a distributed-cache-cluster
// dashboard with sliding-window anomaly detection and alerting to the
// single aggregate snapshot and readiness check this system exposes
// — there is no multi-node cluster here to alert on, and no dashboard
// consumer in front of this service.
package monitoring

import (
	"context"
	"errors"
	"time"

	"linthub.app/cache"
	"linthub.app/job"
	"linthub.app/pkg/models"
	"linthub.app/pkg/telemetry"
	"linthub.app/runner"
	"linthub.app/store"
)

//encore:service
type Service struct{}

var svc *Service

func initService() (*Service, error) {
	return &Service{}, nil
}

func init() {
	var err error
	svc, err = initService()
	if err != nil {
		panic(err)
	}
}

// MetricsResponse is the aggregate snapshot returned by GET /metrics.
type MetricsResponse struct {
	Timestamp time.Time              `json:"timestamp"`
	Cache     cache.StatsResponse    `json:"cache"`
	Jobs      models.JobStats        `json:"jobs"`
	Linters   []runner.Availability  `json:"linters"`
	Latency   models.LatencySummary  `json:"latency"`
	Persisted []store.MetricsSummary `json:"persisted"`
}

// Metrics aggregates current counters from the cache, job, and runner
// services plus an hour of persisted store metrics.
//
//encore:api public method=GET path=/metrics
func Metrics(ctx context.Context) (*MetricsResponse, error) {
	if svc == nil {
		return nil, errors.New("monitoring service not initialized")
	}
	return svc.metrics(ctx)
}

func (s *Service) metrics(ctx context.Context) (*MetricsResponse, error) {
	resp := &MetricsResponse{
		Timestamp: time.Now().UTC(),
		Latency:   telemetry.ExecutionSummary(),
	}

	if cacheStats, err := cache.Stats(ctx); err == nil {
		resp.Cache = *cacheStats
	}

	if jobStats, err := job.Stats(ctx); err == nil {
		resp.Jobs = *jobStats
	}

	names := runner.Names()
	resp.Linters = make([]runner.Availability, 0, len(names))
	for _, name := range names {
		resp.Linters = append(resp.Linters, runner.Probe(ctx, name))
	}

	since := time.Now().Add(-1 * time.Hour).Unix()
	if summary, err := store.GetMetricsSummary(ctx, since); err == nil {
		resp.Persisted = summary.Summaries
	}

	return resp, nil
}

// HealthResponse reports readiness: degraded if the store is
// unreachable or no configured linter is available to run.
type HealthResponse struct {
	Status  string   `json:"status"`
	Store   bool     `json:"store"`
	Linters []string `json:"available_linters"`
}

// Health reports store and runner readiness for GET /health.
//
//encore:api public method=GET path=/health
func Health(ctx context.Context) (*HealthResponse, error) {
	if svc == nil {
		return nil, errors.New("monitoring service not initialized")
	}
	return svc.health(ctx)
}

func (s *Service) health(ctx context.Context) (*HealthResponse, error) {
	storeOK := false
	if h, err := store.Health(ctx); err == nil {
		storeOK = h.Ready
	}

	var available []string
	for _, name := range runner.Names() {
		if runner.Probe(ctx, name).Available {
			available = append(available, name)
		}
	}

	status := "ok"
	if !storeOK || len(available) == 0 {
		status = "degraded"
	}

	return &HealthResponse{Status: status, Store: storeOK, Linters: available}, nil
}
