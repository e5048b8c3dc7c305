package job

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"linthub.app/pkg/models"
	"linthub.app/pkg/obslog"
	"linthub.app/store"
	"linthub.app/workspace"
)

const (
	defaultMaxConcurrentJobs = 10
	defaultJobTimeout        = 300 * time.Second
)

// Config holds the job manager's runtime limits (§4.5 "Concurrency").
type Config struct {
	MaxConcurrentJobs int
	JobTimeout        time.Duration
	WorkspaceBaseDir  string
}

// handle tracks the cancellation and bookkeeping for one in-flight job,
// mirroring the teacher's Worker.state/currentKey tracking under a
// small mutex (§9 "Global state").
type handle struct {
	cancel context.CancelFunc
}

// Manager owns job submission, status, cancellation, and stats
// (§4.5 Operations). Concurrency is capped with a buffered-channel
// semaphore, generalized from the teacher's fixed-worker-array pool
// into a semaphore sized for heterogeneous per-request work.
type Manager struct {
	config  Config
	sem     chan struct{}
	wsMgr   *workspace.Manager
	log     *obslog.Logger
	mu      sync.Mutex
	handles map[string]*handle

	statsMu sync.Mutex
	stats   models.JobStats
}

// NewManager wires a job manager against a workspace base directory.
func NewManager(config Config, wsMgr *workspace.Manager) *Manager {
	if config.MaxConcurrentJobs <= 0 {
		config.MaxConcurrentJobs = defaultMaxConcurrentJobs
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = defaultJobTimeout
	}
	return &Manager{
		config:  config,
		sem:     make(chan struct{}, config.MaxConcurrentJobs),
		wsMgr:   wsMgr,
		log:     obslog.New("job"),
		handles: make(map[string]*handle),
	}
}

// ErrAtCapacity is returned by Submit when the concurrency cap is
// already saturated (§4.5 "reject if at limit").
var ErrAtCapacity = models.NewAPIError(models.ErrServiceUnavailable, "job manager is at capacity", nil)

// SubmitRequest is the async submission payload (§6 POST .../async).
type SubmitRequest struct {
	Linter  string
	Format  string
	Input   models.JobInput
	Options models.CanonicalOptions
}

// Submit validates capacity, persists a pending job, and schedules
// processing without blocking the caller (§4.5 "submit").
func (m *Manager) Submit(ctx context.Context, req SubmitRequest) (string, error) {
	select {
	case m.sem <- struct{}{}:
	default:
		return "", ErrAtCapacity
	}

	id := uuid.New().String()
	now := time.Now().UTC()
	rec := &models.Job{
		ID:        id,
		Linter:    req.Linter,
		Format:    req.Format,
		Options:   req.Options,
		Input:     req.Input,
		Status:    models.JobPending,
		CreatedAt: now,
	}

	if _, err := store.CreateJob(ctx, rec); err != nil {
		<-m.sem
		return "", err
	}

	m.recordSubmitted()

	processCtx, cancel := context.WithTimeout(context.Background(), m.config.JobTimeout)
	m.mu.Lock()
	m.handles[id] = &handle{cancel: cancel}
	m.mu.Unlock()

	go func() {
		defer func() {
			cancel()
			m.mu.Lock()
			delete(m.handles, id)
			m.mu.Unlock()
			<-m.sem
		}()
		m.process(processCtx, rec)
	}()

	return id, nil
}

// Status reads through to the persistence store (§4.5 "status").
func (m *Manager) Status(ctx context.Context, id string) (*models.JobSnapshot, error) {
	resp, err := store.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if resp.Job == nil {
		return nil, nil
	}
	snap := resp.Job.Snapshot()
	return &snap, nil
}

// Cancel is idempotent for terminal states: the first call on a
// non-terminal job transitions it to cancelled and aborts in-flight
// work; later calls return false without mutating state
// (§4.5 "cancel", §8 Testable Property 5).
func (m *Manager) Cancel(ctx context.Context, id string) (bool, error) {
	resp, err := store.GetJob(ctx, id)
	if err != nil {
		return false, err
	}
	if resp.Job == nil {
		return false, models.NewAPIError(models.ErrJobNotFound, "job not found", nil)
	}
	if resp.Job.Status.IsTerminal() {
		return false, nil
	}

	m.mu.Lock()
	h, ok := m.handles[id]
	m.mu.Unlock()
	if ok {
		h.cancel()
	}

	if _, err := store.UpdateJobStatus(ctx, id, &store.UpdateJobStatusParams{
		Status: models.JobCancelled,
		Error:  "cancelled by request",
	}); err != nil {
		return false, err
	}

	m.recordTerminal(models.JobCancelled)
	m.publish(ctx, resp.Job, models.JobCancelled, "cancelled by request", 0, false)
	return true, nil
}

// Stats reports current in-process counts since startup (§4.5 "stats").
func (m *Manager) Stats() models.JobStats {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	return m.stats
}

func (m *Manager) recordSubmitted() {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	m.stats.Pending++
}

func (m *Manager) recordStarted() {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	m.stats.Pending--
	m.stats.Running++
}

func (m *Manager) recordTerminal(status models.JobStatus) {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	if m.stats.Running > 0 {
		m.stats.Running--
	} else if m.stats.Pending > 0 {
		m.stats.Pending--
	}
	switch status {
	case models.JobCompleted:
		m.stats.Completed++
	case models.JobFailed:
		m.stats.Failed++
	case models.JobCancelled:
		m.stats.Cancelled++
	}
}
