package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"linthub.app/pkg/models"
)

// CreateJob persists a new job record, always in status pending at
// creation (§4.1 create_job).
//
//encore:api private method=POST path=/store/jobs
func CreateJob(ctx context.Context, job *models.Job) (*CreateJobResponse, error) {
	if svc == nil {
		return nil, errors.New("store service not initialized")
	}
	if err := svc.CreateJob(ctx, job); err != nil {
		return nil, err
	}
	return &CreateJobResponse{Success: true}, nil
}

type CreateJobResponse struct {
	Success bool `json:"success"`
}

func (s *Service) CreateJob(ctx context.Context, job *models.Job) error {
	optionsJSON, err := json.Marshal(job.Options)
	if err != nil {
		return fmt.Errorf("create_job: marshal options: %w", err)
	}
	inputJSON, err := json.Marshal(job.Input)
	if err != nil {
		return fmt.Errorf("create_job: marshal input: %w", err)
	}

	const query = `
		INSERT INTO lint_jobs (id, linter, format, options, input, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = s.db.Exec(ctx, query,
		job.ID, job.Linter, job.Format, optionsJSON, inputJSON,
		string(job.Status), job.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create_job: %w", err)
	}
	return nil
}

// GetJob returns a job by id, or nil if not found (§4.1 get_job).
//
//encore:api private method=GET path=/store/jobs/:id
func GetJob(ctx context.Context, id string) (*GetJobResponse, error) {
	if svc == nil {
		return nil, errors.New("store service not initialized")
	}
	job, err := svc.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	return &GetJobResponse{Job: job}, nil
}

type GetJobResponse struct {
	Job *models.Job `json:"job,omitempty"`
}

func (s *Service) GetJob(ctx context.Context, id string) (*models.Job, error) {
	const query = `
		SELECT id, linter, format, options, input, status, result, error_message,
		       created_at, started_at, completed_at, execution_time_ms
		FROM lint_jobs
		WHERE id = $1
	`

	var job models.Job
	var status string
	var optionsJSON, inputJSON []byte
	var result []byte

	err := s.db.QueryRow(ctx, query, id).Scan(
		&job.ID, &job.Linter, &job.Format, &optionsJSON, &inputJSON, &status,
		&result, &job.Error, &job.CreatedAt, &job.StartedAt, &job.CompletedAt,
		&job.ExecutionTimeMs,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get_job: %w", err)
	}

	job.Status = models.JobStatus(status)
	if err := json.Unmarshal(optionsJSON, &job.Options); err != nil {
		return nil, fmt.Errorf("get_job: unmarshal options: %w", err)
	}
	if err := json.Unmarshal(inputJSON, &job.Input); err != nil {
		return nil, fmt.Errorf("get_job: unmarshal input: %w", err)
	}
	if len(result) > 0 {
		var r models.LinterResult
		if err := json.Unmarshal(result, &r); err == nil {
			job.Result = &r
		}
	}
	return &job, nil
}

// UpdateJobStatusParams carries the fields update_job_status may set.
// Result/Error/StartedAt/Duration are pointers so callers can omit fields
// that don't apply to the transition being recorded.
type UpdateJobStatusParams struct {
	Status          models.JobStatus
	StartedAt       *time.Time
	Result          *models.LinterResult
	Error           string
	ExecutionTimeMs *int64
}

// UpdateJobStatus applies a state transition and optional result/error
// payload to a job (§4.1 update_job_status). The store writes the given
// status as-is; it does not check the transition against the current one.
//
//encore:api private method=PATCH path=/store/jobs/:id
func UpdateJobStatus(ctx context.Context, id string, p *UpdateJobStatusParams) (*CreateJobResponse, error) {
	if svc == nil {
		return nil, errors.New("store service not initialized")
	}
	if err := svc.UpdateJobStatus(ctx, id, p); err != nil {
		return nil, err
	}
	return &CreateJobResponse{Success: true}, nil
}

func (s *Service) UpdateJobStatus(ctx context.Context, id string, p *UpdateJobStatusParams) error {
	var resultJSON []byte
	if p.Result != nil {
		var err error
		resultJSON, err = json.Marshal(p.Result)
		if err != nil {
			return fmt.Errorf("update_job_status: marshal result: %w", err)
		}
	}

	var completedAt *time.Time
	if models.JobStatus(p.Status).IsTerminal() {
		now := time.Now().UTC()
		completedAt = &now
	}

	var execMs int64
	if p.ExecutionTimeMs != nil {
		execMs = *p.ExecutionTimeMs
	}

	const query = `
		UPDATE lint_jobs
		SET status = $2,
		    started_at = COALESCE($3, started_at),
		    result = COALESCE($4, result),
		    error_message = $5,
		    completed_at = COALESCE($6, completed_at),
		    execution_time_ms = CASE WHEN $7 > 0 THEN $7 ELSE execution_time_ms END
		WHERE id = $1
	`
	_, err := s.db.Exec(ctx, query,
		id, string(p.Status), p.StartedAt, nullIfEmpty(resultJSON), p.Error,
		completedAt, execMs,
	)
	if err != nil {
		return fmt.Errorf("update_job_status: %w", err)
	}
	return nil
}

func nullIfEmpty(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return b
}

// ListPendingJobs returns up to limit jobs in status pending, oldest
// first (§4.1 list_pending_jobs).
//
//encore:api private method=GET path=/store/jobs/pending
func ListPendingJobs(ctx context.Context, limit int) (*ListPendingJobsResponse, error) {
	if svc == nil {
		return nil, errors.New("store service not initialized")
	}
	jobs, err := svc.ListPendingJobs(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &ListPendingJobsResponse{Jobs: jobs}, nil
}

type ListPendingJobsResponse struct {
	Jobs []*models.Job `json:"jobs"`
}

func (s *Service) ListPendingJobs(ctx context.Context, limit int) ([]*models.Job, error) {
	if limit <= 0 {
		limit = 100
	}

	const query = `
		SELECT id FROM lint_jobs
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2
	`
	rows, err := s.db.Query(ctx, query, string(models.JobPending), limit)
	if err != nil {
		return nil, fmt.Errorf("list_pending_jobs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list_pending_jobs: scan: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list_pending_jobs: %w", err)
	}

	jobs := make([]*models.Job, 0, len(ids))
	for _, id := range ids {
		job, err := s.GetJob(ctx, id)
		if err != nil {
			return nil, err
		}
		if job != nil {
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

// CleanupOldJobs deletes terminal jobs older than olderThanDays (§4.1
// cleanup_old_jobs).
//
//encore:api private method=POST path=/store/jobs/cleanup
func CleanupOldJobs(ctx context.Context, olderThanDays int) (*DeleteCacheResponse, error) {
	if svc == nil {
		return nil, errors.New("store service not initialized")
	}
	n, err := svc.CleanupOldJobs(ctx, olderThanDays)
	if err != nil {
		return nil, err
	}
	return &DeleteCacheResponse{Deleted: n}, nil
}

func (s *Service) CleanupOldJobs(ctx context.Context, olderThanDays int) (int64, error) {
	if olderThanDays <= 0 {
		olderThanDays = 30
	}

	const query = `
		DELETE FROM lint_jobs
		WHERE status IN ($1, $2, $3)
		  AND completed_at < NOW() - make_interval(days => $4)
	`
	result, err := s.db.Exec(ctx, query,
		string(models.JobCompleted), string(models.JobFailed), string(models.JobCancelled),
		olderThanDays,
	)
	if err != nil {
		return 0, fmt.Errorf("cleanup_old_jobs: %w", err)
	}
	return result.RowsAffected(), nil
}
