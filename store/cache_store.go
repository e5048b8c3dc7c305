package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"linthub.app/pkg/models"
)

// GetCache returns the unexpired cache entry for the given key tuple, or
// nil if none exists (§4.1 get_cache). Freshness is evaluated by the
// database's clock, not the caller's.
//
//encore:api private method=GET path=/store/cache
func GetCache(ctx context.Context, p *GetCacheParams) (*GetCacheResponse, error) {
	if svc == nil {
		return nil, errors.New("store service not initialized")
	}
	entry, err := svc.GetCache(ctx, p.ContentHash, p.Linter, p.OptionsHash)
	if err != nil {
		return nil, err
	}
	return &GetCacheResponse{Entry: entry}, nil
}

type GetCacheParams struct {
	ContentHash string `query:"content_hash"`
	Linter      string `query:"linter"`
	OptionsHash string `query:"options_hash"`
}

type GetCacheResponse struct {
	Entry *models.CacheEntry `json:"entry,omitempty"`
}

func (s *Service) GetCache(ctx context.Context, contentHash, linter, optionsHash string) (*models.CacheEntry, error) {
	const query = `
		SELECT id, linter, format, content_hash, options_hash, result, status,
		       error_message, created_at, expires_at
		FROM lint_results
		WHERE content_hash = $1 AND linter = $2 AND options_hash = $3
		  AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
	`

	var e models.CacheEntry
	var status string
	err := s.db.QueryRow(ctx, query, contentHash, linter, optionsHash).Scan(
		&e.ID, &e.Linter, &e.Format, &e.ContentHash, &e.OptionsHash,
		&e.Result, &status, &e.ErrorMessage, &e.CreatedAt, &e.ExpiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get_cache: %w", err)
	}
	e.Status = models.CacheStatus(status)
	return &e, nil
}

// PutCache upserts a cache entry by id (§4.1 put_cache).
//
//encore:api private method=POST path=/store/cache
func PutCache(ctx context.Context, entry *models.CacheEntry) (*PutCacheResponse, error) {
	if svc == nil {
		return nil, errors.New("store service not initialized")
	}
	if err := svc.PutCache(ctx, entry); err != nil {
		return nil, err
	}
	return &PutCacheResponse{Success: true}, nil
}

type PutCacheResponse struct {
	Success bool `json:"success"`
}

func (s *Service) PutCache(ctx context.Context, e *models.CacheEntry) error {
	const query = `
		INSERT INTO lint_results
			(id, linter, format, content_hash, options_hash, result, status,
			 error_message, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			result = EXCLUDED.result,
			status = EXCLUDED.status,
			error_message = EXCLUDED.error_message,
			expires_at = EXCLUDED.expires_at
	`

	_, err := s.db.Exec(ctx, query,
		e.ID, e.Linter, e.Format, e.ContentHash, e.OptionsHash, e.Result,
		string(e.Status), e.ErrorMessage, e.CreatedAt, e.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("put_cache: %w", err)
	}
	return nil
}

// DeleteCacheAll removes every cache entry (§4.1 delete_cache_all).
//
//encore:api private method=DELETE path=/store/cache/all
func DeleteCacheAll(ctx context.Context) (*DeleteCacheResponse, error) {
	if svc == nil {
		return nil, errors.New("store service not initialized")
	}
	n, err := svc.DeleteCacheAll(ctx)
	if err != nil {
		return nil, err
	}
	return &DeleteCacheResponse{Deleted: n}, nil
}

type DeleteCacheResponse struct {
	Deleted int64 `json:"deleted"`
}

func (s *Service) DeleteCacheAll(ctx context.Context) (int64, error) {
	result, err := s.db.Exec(ctx, `DELETE FROM lint_results`)
	if err != nil {
		return 0, fmt.Errorf("delete_cache_all: %w", err)
	}
	return result.RowsAffected(), nil
}

// DeleteCacheByContent removes all entries for a content hash regardless
// of linter (§4.1 delete_cache_by_content).
//
//encore:api private method=DELETE path=/store/cache/content/:contentHash
func DeleteCacheByContent(ctx context.Context, contentHash string) (*DeleteCacheResponse, error) {
	if svc == nil {
		return nil, errors.New("store service not initialized")
	}
	n, err := svc.DeleteCacheByContent(ctx, contentHash)
	if err != nil {
		return nil, err
	}
	return &DeleteCacheResponse{Deleted: n}, nil
}

func (s *Service) DeleteCacheByContent(ctx context.Context, contentHash string) (int64, error) {
	result, err := s.db.Exec(ctx, `DELETE FROM lint_results WHERE content_hash = $1`, contentHash)
	if err != nil {
		return 0, fmt.Errorf("delete_cache_by_content: %w", err)
	}
	return result.RowsAffected(), nil
}

// DeleteCacheByLinter removes all entries for a linter regardless of
// content (§4.1 delete_cache_by_linter).
//
//encore:api private method=DELETE path=/store/cache/linter/:linter
func DeleteCacheByLinter(ctx context.Context, linter string) (*DeleteCacheResponse, error) {
	if svc == nil {
		return nil, errors.New("store service not initialized")
	}
	n, err := svc.DeleteCacheByLinter(ctx, linter)
	if err != nil {
		return nil, err
	}
	return &DeleteCacheResponse{Deleted: n}, nil
}

func (s *Service) DeleteCacheByLinter(ctx context.Context, linter string) (int64, error) {
	result, err := s.db.Exec(ctx, `DELETE FROM lint_results WHERE linter = $1`, linter)
	if err != nil {
		return 0, fmt.Errorf("delete_cache_by_linter: %w", err)
	}
	return result.RowsAffected(), nil
}

// DeleteCacheByContentAndLinter removes entries for one (content,
// linter) pair (§4.1 delete_cache_by_content_and_linter).
//
//encore:api private method=DELETE path=/store/cache/content/:contentHash/linter/:linter
func DeleteCacheByContentAndLinter(ctx context.Context, contentHash, linter string) (*DeleteCacheResponse, error) {
	if svc == nil {
		return nil, errors.New("store service not initialized")
	}
	n, err := svc.DeleteCacheByContentAndLinter(ctx, contentHash, linter)
	if err != nil {
		return nil, err
	}
	return &DeleteCacheResponse{Deleted: n}, nil
}

func (s *Service) DeleteCacheByContentAndLinter(ctx context.Context, contentHash, linter string) (int64, error) {
	result, err := s.db.Exec(ctx,
		`DELETE FROM lint_results WHERE content_hash = $1 AND linter = $2`,
		contentHash, linter,
	)
	if err != nil {
		return 0, fmt.Errorf("delete_cache_by_content_and_linter: %w", err)
	}
	return result.RowsAffected(), nil
}

// CleanupExpiredCache removes all entries whose expires_at has passed
// (§4.1 cleanup_expired_cache), returning the count atomically.
//
//encore:api private method=POST path=/store/cache/cleanup-expired
func CleanupExpiredCache(ctx context.Context) (*DeleteCacheResponse, error) {
	if svc == nil {
		return nil, errors.New("store service not initialized")
	}
	n, err := svc.CleanupExpiredCache(ctx)
	if err != nil {
		return nil, err
	}
	return &DeleteCacheResponse{Deleted: n}, nil
}

func (s *Service) CleanupExpiredCache(ctx context.Context) (int64, error) {
	result, err := s.db.Exec(ctx, `DELETE FROM lint_results WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("cleanup_expired_cache: %w", err)
	}
	return result.RowsAffected(), nil
}
