// Package store is the Persistence Store: durable records for cache
// entries, jobs, and metrics behind a small set of parameterized
// operations. Generalized from the teacher's invalidation service, which
// is the only teacher package that owns a sqldb-backed table
// (invalidation/audit.go) — that Insert/GetRecent/GetCount/Cleanup shape
// is the direct model for cache_store.go, job_store.go, and
// metrics_store.go here.
//
// Design Notes:
//   - encore.dev/storage/sqldb over jackc/pgx/v5, exactly as the teacher.
//   - Every write is parameter-bound; no string-built SQL.
//   - Freshness comparisons use the database's NOW(), never the caller's
//     clock, so expiry is evaluated consistently regardless of client skew.
package store

import (
	"context"
	"errors"

	"encore.dev/storage/sqldb"
	"linthub.app/pkg/obslog"
)

//encore:service
type Service struct {
	db  *sqldb.Database
	log *obslog.Logger
}

// db is resolved from migrations under ./migrations, matching the
// teacher's sqldb.Named convention for schema-managed databases.
var db = sqldb.Named("store")

func initService() (*Service, error) {
	return &Service{
		db:  db,
		log: obslog.New("store"),
	}, nil
}

var svc *Service

func init() {
	var err error
	svc, err = initService()
	if err != nil {
		panic(err)
	}
}

// HealthResponse is returned by health().
type HealthResponse struct {
	Ready bool   `json:"ready"`
	Error string `json:"error,omitempty"`
}

// Health reports whether the store can reach its database (§6 /health).
//
//encore:api private method=GET path=/store/health
func Health(ctx context.Context) (*HealthResponse, error) {
	if svc == nil {
		return nil, errors.New("store service not initialized")
	}
	return svc.Health(ctx)
}

func (s *Service) Health(ctx context.Context) (*HealthResponse, error) {
	var one int
	if err := s.db.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return &HealthResponse{Ready: false, Error: err.Error()}, nil
	}
	return &HealthResponse{Ready: true}, nil
}
