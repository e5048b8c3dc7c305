package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"linthub.app/pkg/models"
)

// RecordMetric writes a single best-effort metric row (§4.1
// record_metric). Failures are logged, never propagated — a metrics
// write must not break the caller's request.
//
//encore:api private method=POST path=/store/metrics
func RecordMetric(ctx context.Context, m *models.MetricRow) (*CreateJobResponse, error) {
	if svc == nil {
		return nil, errors.New("store service not initialized")
	}
	svc.RecordMetric(ctx, m)
	return &CreateJobResponse{Success: true}, nil
}

func (s *Service) RecordMetric(ctx context.Context, m *models.MetricRow) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}

	labelsJSON, err := json.Marshal(m.Labels)
	if err != nil {
		labelsJSON = []byte("{}")
	}

	const query = `
		INSERT INTO api_metrics (id, name, value, labels, recorded_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := s.db.Exec(ctx, query, m.ID, m.Name, m.Value, labelsJSON, m.Timestamp); err != nil {
		s.log.Warn(ctx, "record_metric failed", map[string]interface{}{"error": err.Error(), "name": m.Name})
	}
}

// MetricsSummary is the aggregate consumed by the `/metrics` surface
// (§6). Not part of the distilled spec's store contract; added so a
// single store query can answer GET /metrics without every service
// re-deriving its own counters.
type MetricsSummary struct {
	Name  string  `json:"name"`
	Count int64   `json:"count"`
	Sum   float64 `json:"sum"`
	Avg   float64 `json:"avg"`
}

// GetMetricsSummary aggregates recorded metric values by name since a
// cutoff time.
//
//encore:api private method=GET path=/store/metrics/summary
func GetMetricsSummary(ctx context.Context, sinceUnixSeconds int64) (*GetMetricsSummaryResponse, error) {
	if svc == nil {
		return nil, errors.New("store service not initialized")
	}
	summaries, err := svc.GetMetricsSummary(ctx, time.Unix(sinceUnixSeconds, 0).UTC())
	if err != nil {
		return nil, err
	}
	return &GetMetricsSummaryResponse{Summaries: summaries}, nil
}

type GetMetricsSummaryResponse struct {
	Summaries []MetricsSummary `json:"summaries"`
}

func (s *Service) GetMetricsSummary(ctx context.Context, since time.Time) ([]MetricsSummary, error) {
	const query = `
		SELECT name, COUNT(*), COALESCE(SUM(value), 0), COALESCE(AVG(value), 0)
		FROM api_metrics
		WHERE recorded_at >= $1
		GROUP BY name
		ORDER BY name
	`
	rows, err := s.db.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("get_metrics_summary: %w", err)
	}
	defer rows.Close()

	var out []MetricsSummary
	for rows.Next() {
		var row MetricsSummary
		if err := rows.Scan(&row.Name, &row.Count, &row.Sum, &row.Avg); err != nil {
			return nil, fmt.Errorf("get_metrics_summary: scan: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get_metrics_summary: %w", err)
	}
	return out, nil
}
