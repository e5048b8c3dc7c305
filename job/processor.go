package job

import (
	"context"
	"time"

	"linthub.app/cache"
	"linthub.app/pkg/models"
	"linthub.app/pkg/telemetry"
	"linthub.app/pkg/utils"
	"linthub.app/runner"
	"linthub.app/store"
	"linthub.app/workspace"
)

// process runs the seven-step pipeline of §4.5 "Processing (per job)".
// Once the job is marked running, it always attempts workspace cleanup
// and a terminal status update, regardless of which later step failed;
// if marking it running fails, it logs and returns without either.
func (m *Manager) process(ctx context.Context, rec *models.Job) {
	start := time.Now()

	if _, err := store.UpdateJobStatus(ctx, rec.ID, &store.UpdateJobStatusParams{
		Status:    models.JobRunning,
		StartedAt: &start,
	}); err != nil {
		m.log.Error(ctx, "failed to mark job running", map[string]interface{}{"error": err.Error(), "job_id": rec.ID})
		return
	}
	m.recordStarted()

	result, status, failMsg, timedOut := m.execute(ctx, rec)

	elapsed := time.Since(start)
	telemetry.RecordExecution(elapsed)
	execMs := elapsed.Milliseconds()
	params := &store.UpdateJobStatusParams{
		Status:          status,
		Result:          result,
		Error:           failMsg,
		ExecutionTimeMs: &execMs,
	}
	if _, err := store.UpdateJobStatus(ctx, rec.ID, params); err != nil {
		m.log.Error(ctx, "failed to record job outcome", map[string]interface{}{"error": err.Error(), "job_id": rec.ID})
	}

	m.recordTerminal(status)
	m.publish(ctx, rec, status, failMsg, execMs, timedOut)
}

// execute performs steps 2-6: cache lookup, workspace materialization,
// runner invocation, and cache write. It never panics; every failure
// mode resolves to a terminal job status. The final return reports
// whether the failure was specifically a timeout, so process() can
// route the lifecycle event to job.timeout rather than job.failed.
func (m *Manager) execute(ctx context.Context, rec *models.Job) (*models.LinterResult, models.JobStatus, string, bool) {
	contentHash, optionsHash, content, err := m.fingerprint(rec)
	if err != nil {
		return nil, models.JobFailed, err.Error(), false
	}

	key := models.Key{Linter: rec.Linter, Format: rec.Format, ContentHash: contentHash, OptionsHash: optionsHash}
	if entry, ok := cache.Get(ctx, key); ok {
		result, err := cache.DecodeResult(entry)
		if err != nil {
			return nil, models.JobFailed, err.Error(), false
		}
		return result, models.JobCompleted, "", false
	}

	ws, err := m.materialize(rec, content)
	if err != nil {
		return nil, models.JobFailed, err.Error(), false
	}
	defer func() {
		if cleanupErr := ws.Cleanup(m.wsMgr.BaseDir()); cleanupErr != nil {
			m.log.Warn(ctx, "workspace cleanup failed", map[string]interface{}{"error": cleanupErr.Error(), "job_id": rec.ID})
		}
	}()

	if ctx.Err() != nil {
		return nil, models.JobCancelled, "cancelled before execution", false
	}

	files, err := ws.MatchingFiles(linterExtensions(rec.Linter), rec.Options.IncludePatterns, rec.Options.ExcludePatterns)
	if err != nil {
		return nil, models.JobFailed, err.Error(), false
	}

	result, err := runner.Run(ctx, runner.RunRequest{
		Linter:       rec.Linter,
		WorkspaceDir: ws.Root,
		Files:        files,
		Options:      rec.Options,
		TimeoutMs:    rec.Options.Timeout,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, models.JobCancelled, "cancelled during execution", false
		}
		if apiErr, ok := err.(*models.APIError); ok && apiErr.Code == models.ErrTimeout {
			return nil, models.JobFailed, apiErr.Message, true
		}
		return nil, models.JobFailed, err.Error(), false
	}

	m.writeCache(ctx, rec, key, result)
	return result, models.JobCompleted, "", false
}

func linterExtensions(name string) []string {
	cfg, ok := runner.Lookup(name)
	if !ok {
		return nil
	}
	return cfg.Extensions
}

func (m *Manager) fingerprint(rec *models.Job) (contentHash, optionsHash string, content []byte, err error) {
	if rec.Input.Text != "" {
		content = []byte(rec.Input.Text)
	} else {
		content = rec.Input.Archive
	}
	contentHash = cache.ContentHash(content)
	optionsHash, err = utils.HashOptions(rec.Options)
	return contentHash, optionsHash, content, err
}

func (m *Manager) materialize(rec *models.Job, content []byte) (*workspace.Workspace, error) {
	if rec.Input.Archive != nil {
		return m.wsMgr.CreateFromBytes(content, rec.Input.Filename)
	}
	return m.wsMgr.CreateFromText(content, rec.Input.Filename)
}

func (m *Manager) writeCache(ctx context.Context, rec *models.Job, key models.Key, result *models.LinterResult) {
	payload, err := cache.EncodeResult(result)
	if err != nil {
		m.log.Warn(ctx, "failed to encode result for cache", map[string]interface{}{"error": err.Error(), "job_id": rec.ID})
		return
	}

	status := models.CacheSuccess
	if !result.Success {
		status = models.CacheFailure
	}

	entry := &models.CacheEntry{
		ID:          rec.ID,
		Linter:      key.Linter,
		Format:      key.Format,
		ContentHash: key.ContentHash,
		OptionsHash: key.OptionsHash,
		Result:      payload,
		Status:      status,
		CreatedAt:   time.Now().UTC(),
	}

	if err := cache.Put(ctx, entry, 0); err != nil {
		// §9 Open Question: cache-write-failure policy. The linter
		// result is already computed, so a write failure is demoted
		// to a warning rather than failing the job.
		m.log.Warn(ctx, "cache write failed", map[string]interface{}{"error": err.Error(), "job_id": rec.ID})
	}
}
