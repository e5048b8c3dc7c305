package job

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"

	"linthub.app/pkg/models"
	"linthub.app/workspace"
)

//encore:service
type jobService struct {
	mgr *Manager
}

var svc *jobService

func initService() (*jobService, error) {
	baseDir := os.Getenv("LINTHUB_WORKSPACE_DIR")
	if baseDir == "" {
		baseDir = filepath.Join(os.TempDir(), "linthub-workspaces")
	}
	wsMgr, err := workspace.NewManager(baseDir, workspace.DefaultPolicy())
	if err != nil {
		return nil, err
	}
	mgr := NewManager(Config{WorkspaceBaseDir: baseDir}, wsMgr)
	return &jobService{mgr: mgr}, nil
}

func init() {
	var err error
	svc, err = initService()
	if err != nil {
		panic(err)
	}
}

// SubmitBody is the async submission request body (§6 POST .../async).
type SubmitBody struct {
	Text            string                 `json:"text,omitempty"`
	Archive         string                 `json:"archive,omitempty"`
	Filename        string                 `json:"filename,omitempty"`
	ValidateAll     *bool                  `json:"validate_all,omitempty"`
	ExcludePatterns []string               `json:"exclude_patterns,omitempty"`
	IncludePatterns []string               `json:"include_patterns,omitempty"`
	LogLevel        string                 `json:"log_level,omitempty"`
	TimeoutMs       *int                   `json:"timeout_ms,omitempty"`
	Fix             *bool                  `json:"fix,omitempty"`
	ConfigFile      string                 `json:"config_file,omitempty"`
	Rules           map[string]interface{} `json:"rules,omitempty"`
}

// SubmitResponse echoes the created job's id (§6 response shape).
type SubmitResponse struct {
	JobID string `json:"job_id"`
}

// Submit accepts raw text or a base64 archive, queues an async job, and
// returns immediately with its id (§4.5 "submit", §6 async endpoint).
//
//encore:api public method=POST path=/:linter/:format/async
func Submit(ctx context.Context, linter, format string, body *SubmitBody) (*SubmitResponse, error) {
	if svc == nil {
		return nil, errors.New("job service not initialized")
	}
	return svc.submit(ctx, linter, format, body)
}

func (s *jobService) submit(ctx context.Context, linter, format string, body *SubmitBody) (*SubmitResponse, error) {
	opts := &models.Options{
		ValidateAll:     body.ValidateAll,
		ExcludePatterns: body.ExcludePatterns,
		IncludePatterns: body.IncludePatterns,
		LogLevel:        body.LogLevel,
		Timeout:         body.TimeoutMs,
		Fix:             body.Fix,
		ConfigFile:      body.ConfigFile,
		Rules:           body.Rules,
	}
	canonical := models.Canonicalize(opts)

	input := models.JobInput{Filename: body.Filename}
	if body.Archive != "" {
		raw, decodeErr := decodeBase64Input(body.Archive)
		if decodeErr != nil {
			return nil, decodeErr
		}
		input.Archive = raw
	} else {
		input.Text = body.Text
	}

	id, err := s.mgr.Submit(ctx, SubmitRequest{Linter: linter, Format: format, Input: input, Options: canonical})
	if err != nil {
		return nil, err
	}
	return &SubmitResponse{JobID: id}, nil
}

// Status returns the current snapshot of a job (§4.5 "status", §6 GET /jobs/:id).
//
//encore:api public method=GET path=/jobs/:id
func Status(ctx context.Context, id string) (*models.JobSnapshot, error) {
	if svc == nil {
		return nil, errors.New("job service not initialized")
	}
	snap, err := svc.mgr.Status(ctx, id)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, models.NewAPIError(models.ErrJobNotFound, "job not found", nil)
	}
	return snap, nil
}

// CancelResponse reports whether the cancellation took effect (§8
// Testable Property 5: idempotent on terminal jobs).
type CancelResponse struct {
	Cancelled bool `json:"cancelled"`
}

// Cancel requests cancellation of an in-flight job (§4.5 "cancel",
// §6 DELETE /jobs/:id).
//
//encore:api public method=DELETE path=/jobs/:id
func Cancel(ctx context.Context, id string) (*CancelResponse, error) {
	if svc == nil {
		return nil, errors.New("job service not initialized")
	}
	ok, err := svc.mgr.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}
	return &CancelResponse{Cancelled: ok}, nil
}

// Stats mirrors §4.5 "stats" (§6 GET /jobs/stats).
//
//encore:api public method=GET path=/jobs/stats
func Stats(ctx context.Context) (*models.JobStats, error) {
	if svc == nil {
		return nil, errors.New("job service not initialized")
	}
	stats := svc.mgr.Stats()
	return &stats, nil
}

// decodeBase64Input decodes the submission's archive payload. The job
// manager dispatches on gzip magic bytes, not on this endpoint, so the
// raw decoded bytes are stored as-is.
func decodeBase64Input(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, models.NewAPIError(models.ErrInvalidContentEncode, "malformed base64 archive payload", err)
	}
	return data, nil
}
