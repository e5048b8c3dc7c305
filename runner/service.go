// Package runner implements the Linter Runner (§4.4): the static
// linter registry, subprocess execution with a timeout/cancellation
// ladder, per-linter output parsing, and availability probing.
package runner

import (
	"context"
	"errors"
	"sort"
	"sync"

	"golang.org/x/time/rate"

	"linthub.app/pkg/models"
	"linthub.app/pkg/obslog"
)

//encore:service
type Service struct {
	log     *obslog.Logger
	limiter *rate.Limiter
}

var svc *Service

func initService() (*Service, error) {
	return &Service{
		log:     obslog.New("runner"),
		limiter: rate.NewLimiter(rate.Limit(20), 5),
	}, nil
}

func init() {
	var err error
	svc, err = initService()
	if err != nil {
		panic(err)
	}
}

// LintersResponse is the registry + availability listing (§6 GET /linters).
type LintersResponse struct {
	Linters []Availability `json:"linters"`
}

// Linters reports the registry and, for each entry, a cached
// availability probe (§4.4 "Availability probe").
//
//encore:api public method=GET path=/linters
func Linters(ctx context.Context) (*LintersResponse, error) {
	if svc == nil {
		return nil, errors.New("runner service not initialized")
	}
	return svc.Linters(ctx)
}

func (s *Service) Linters(ctx context.Context) (*LintersResponse, error) {
	names := Names()
	sort.Strings(names)

	results := make([]Availability, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			if err := s.limiter.Wait(ctx); err != nil {
				results[i] = Availability{Name: name, Available: false, Error: err.Error()}
				return
			}
			results[i] = Probe(ctx, name)
		}(i, name)
	}
	wg.Wait()

	return &LintersResponse{Linters: results}, nil
}

// Execute runs the configured linter against a materialized workspace,
// waiting on the same limiter as the probes in Linters. It is not
// exposed over HTTP; the job manager and the sync lint service call the
// package-level Run directly, so their spawns do not wait on this limiter.
func (s *Service) Execute(ctx context.Context, req RunRequest) (*models.LinterResult, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return Run(ctx, req)
}
