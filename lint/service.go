// Package lint implements the Sync Lint Orchestration service: the
// synchronous Cache -> Workspace -> Runner path behind POST
// /{linter}/{format} and GET /{linter}/{format}/{encoded}. It owns no
// business rule of its own — it only sequences the three services and
// renders their result in the requested output format, the same thin
// "entry point" role the teacher's HTTP handlers play over its cache
// manager.
package lint

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"time"

	"linthub.app/cache"
	"linthub.app/pkg/models"
	"linthub.app/pkg/obslog"
	"linthub.app/pkg/telemetry"
	"linthub.app/runner"
	"linthub.app/workspace"
)

//encore:service
type Service struct {
	wsMgr *workspace.Manager
	log   *obslog.Logger
}

var svc *Service

func initService() (*Service, error) {
	baseDir := os.Getenv("LINTHUB_SYNC_WORKSPACE_DIR")
	if baseDir == "" {
		baseDir = filepath.Join(os.TempDir(), "linthub-sync-workspaces")
	}
	wsMgr, err := workspace.NewManager(baseDir, workspace.DefaultPolicy())
	if err != nil {
		return nil, err
	}
	return &Service{wsMgr: wsMgr, log: obslog.New("lint")}, nil
}

func init() {
	var err error
	svc, err = initService()
	if err != nil {
		panic(err)
	}
}

// SyncBody is the POST sync lint request body (§6 `/{linter}/{format}`).
type SyncBody struct {
	Content         string                 `json:"content,omitempty"`
	Archive         string                 `json:"archive,omitempty"`
	Filename        string                 `json:"filename,omitempty"`
	ValidateAll     *bool                  `json:"validate_all,omitempty"`
	ExcludePatterns []string               `json:"exclude_patterns,omitempty"`
	IncludePatterns []string               `json:"include_patterns,omitempty"`
	LogLevel        string                 `json:"log_level,omitempty"`
	Timeout         *int                   `json:"timeout,omitempty"`
	Fix             *bool                  `json:"fix,omitempty"`
	ConfigFile      string                 `json:"config_file,omitempty"`
	Rules           map[string]interface{} `json:"rules,omitempty"`
}

// SyncResponse mirrors the success half of §6's envelope; the error
// half is produced by returning a *models.APIError instead.
type SyncResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

func (b *SyncBody) options() *models.Options {
	return &models.Options{
		ValidateAll:     b.ValidateAll,
		ExcludePatterns: b.ExcludePatterns,
		IncludePatterns: b.IncludePatterns,
		LogLevel:        b.LogLevel,
		Timeout:         b.Timeout,
		Fix:             b.Fix,
		ConfigFile:      b.ConfigFile,
		Rules:           b.Rules,
	}
}

// Lint runs the sync lint path for an inline body (§6 POST
// /{linter}/{format}).
//
//encore:api public method=POST path=/:linter/:format
func Lint(ctx context.Context, linter, format string, body *SyncBody) (*SyncResponse, error) {
	if svc == nil {
		return nil, errors.New("lint service not initialized")
	}

	var content []byte
	var isArchive bool
	if body.Archive != "" {
		raw, err := decodeBase64(body.Archive)
		if err != nil {
			return nil, translate(err)
		}
		content, isArchive = raw, true
	} else {
		content = []byte(body.Content)
	}

	return svc.run(ctx, linter, format, content, isArchive, body.Filename, body.options())
}

// LintEncoded runs the sync lint path for a URL-embedded payload (§6
// GET /{linter}/{format}/{encoded}).
//
//encore:api public method=GET path=/:linter/:format/:encoded
func LintEncoded(ctx context.Context, linter, format, encoded string) (*SyncResponse, error) {
	if svc == nil {
		return nil, errors.New("lint service not initialized")
	}
	content, err := decodeURLPayload(encoded)
	if err != nil {
		return nil, translate(err)
	}
	return svc.run(ctx, linter, format, content, false, "", &models.Options{})
}

func (s *Service) run(ctx context.Context, linter, format string, content []byte, isArchive bool, filename string, opts *models.Options) (*SyncResponse, error) {
	if _, ok := runner.Lookup(linter); !ok {
		return nil, models.NewAPIError(models.ErrLinterNotFound, "unknown linter: "+linter, nil)
	}
	if format != "json" && format != "text" && format != "sarif" {
		return nil, translate(models.NewAPIError(models.ErrUnsupportedFormat, "unsupported output format: "+format, nil))
	}

	contentHash := cache.ContentHash(content)
	optionsHash, canonical, err := cache.OptionsHash(opts)
	if err != nil {
		return nil, translate(err)
	}

	key := models.Key{Linter: linter, Format: format, ContentHash: contentHash, OptionsHash: optionsHash}
	if entry, ok := cache.Get(ctx, key); ok {
		result, err := cache.DecodeResult(entry)
		if err != nil {
			return nil, translate(err)
		}
		data, err := render(format, linter, result)
		if err != nil {
			return nil, translate(err)
		}
		return &SyncResponse{Success: true, Data: data}, nil
	}

	start := time.Now()
	result, err := s.execute(ctx, linter, content, isArchive, filename, canonical)
	telemetry.RecordExecution(time.Since(start))
	if err != nil {
		return nil, translate(err)
	}

	s.writeCache(ctx, key, result)

	data, err := render(format, linter, result)
	if err != nil {
		return nil, translate(err)
	}
	return &SyncResponse{Success: true, Data: data}, nil
}

func (s *Service) execute(ctx context.Context, linter string, content []byte, isArchive bool, filename string, opts models.CanonicalOptions) (*models.LinterResult, error) {
	var ws *workspace.Workspace
	var err error
	if isArchive {
		ws, err = s.wsMgr.CreateFromBytes(content, filename)
	} else {
		ws, err = s.wsMgr.CreateFromText(content, filename)
	}
	if err != nil {
		return nil, err
	}
	defer func() {
		if cleanupErr := ws.Cleanup(s.wsMgr.BaseDir()); cleanupErr != nil {
			s.log.Warn(ctx, "workspace cleanup failed", map[string]interface{}{"error": cleanupErr.Error()})
		}
	}()

	cfg, _ := runner.Lookup(linter)
	var files []string
	if opts.ValidateAll {
		files, err = ws.Files()
	} else {
		files, err = ws.MatchingFiles(cfg.Extensions, opts.IncludePatterns, opts.ExcludePatterns)
	}
	if err != nil {
		return nil, err
	}

	return runner.Run(ctx, runner.RunRequest{
		Linter:       linter,
		WorkspaceDir: ws.Root,
		Files:        files,
		Options:      opts,
		TimeoutMs:    opts.Timeout,
	})
}

func (s *Service) writeCache(ctx context.Context, key models.Key, result *models.LinterResult) {
	payload, err := cache.EncodeResult(result)
	if err != nil {
		s.log.Warn(ctx, "failed to encode result for cache", map[string]interface{}{"error": err.Error()})
		return
	}
	status := models.CacheSuccess
	if !result.Success {
		status = models.CacheFailure
	}
	entry := &models.CacheEntry{
		Linter:      key.Linter,
		Format:      key.Format,
		ContentHash: key.ContentHash,
		OptionsHash: key.OptionsHash,
		Result:      payload,
		Status:      status,
		CreatedAt:   time.Now().UTC(),
	}
	if err := cache.Put(ctx, entry, 0); err != nil {
		s.log.Warn(ctx, "cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

func decodeBase64(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, models.NewAPIError(models.ErrInvalidContentEncode, "malformed base64 archive payload", err)
	}
	return data, nil
}
