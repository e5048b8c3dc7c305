// Package cache implements the Cache Service (§4.2): fingerprinting,
// a two-tier read/write path (hot in-memory + durable via the store
// service), invalidation, and a background sweep. Generalized from the
// teacher's cache-manager service: same shape (hot tier + coalescer +
// metrics + config + stopChan/WaitGroup lifecycle), adapted from an
// opaque-key origin-fetch cache to a fingerprint-keyed result cache with
// no origin fetcher (a miss is resolved by the job pipeline, not by this
// service).
package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	epubsub "encore.dev/pubsub"

	"linthub.app/pkg/models"
	"linthub.app/pkg/obslog"
	"linthub.app/pkg/pubsub"
	"linthub.app/store"
)

// CacheInvalidateTopic carries invalidation events for any instance's hot
// tier to react to, mirroring the teacher's invalidation.CacheInvalidateTopic.
var CacheInvalidateTopic = epubsub.NewTopic[*pubsub.InvalidationEvent](
	pubsub.TopicCacheInvalidate,
	epubsub.TopicConfig{DeliveryGuarantee: epubsub.AtLeastOnce},
)

// invalidateSubscription applies invalidation events published by this or
// any other instance to the local hot tier, generalized from the teacher's
// cache-manager/subscriptions.go HandleInvalidateEvent.
var _ = epubsub.NewSubscription(
	CacheInvalidateTopic,
	"cache-apply-invalidation",
	epubsub.SubscriptionConfig[*pubsub.InvalidationEvent]{
		Handler: handleInvalidateEvent,
	},
)

func handleInvalidateEvent(ctx context.Context, event *pubsub.InvalidationEvent) error {
	if svc == nil {
		return nil
	}
	for _, key := range event.Keys {
		svc.hot.DeleteHotKey(key)
	}
	if event.Pattern != "" {
		svc.hot.DeleteByPattern(event.Pattern)
	}
	return nil
}

//encore:service
type Service struct {
	hot       *HotTier
	coalescer *RequestCoalescer
	metrics   *Metrics
	config    Config
	log       *obslog.Logger
	stopChan  chan struct{}
	wg        sync.WaitGroup
}

// Config holds runtime configuration for the cache service.
type Config struct {
	HotMaxEntries   int
	DefaultTTL      time.Duration
	CleanupInterval time.Duration
}

// Metrics tracks session-only hit/miss counters (§4.2 "Stats").
type Metrics struct {
	Hits      atomic.Int64
	Misses    atomic.Int64
	Sets      atomic.Int64
	Evictions atomic.Int64
}

var svc *Service
var once sync.Once

func initService() (*Service, error) {
	var err error
	once.Do(func() {
		config := Config{
			HotMaxEntries:   10000,
			DefaultTTL:      24 * time.Hour,
			CleanupInterval: 5 * time.Minute,
		}
		svc = &Service{
			hot:       NewHotTier(config.HotMaxEntries),
			coalescer: NewRequestCoalescer(),
			metrics:   &Metrics{},
			config:    config,
			log:       obslog.New("cache"),
			stopChan:  make(chan struct{}),
		}
		svc.wg.Add(1)
		go svc.runSweep()
	})
	return svc, err
}

func init() {
	var err error
	svc, err = initService()
	if err != nil {
		panic(err)
	}
}

// Get is the package-level entry point used by other services (e.g. the
// job manager) to perform a two-tier cache read without reaching into
// the unexported service singleton directly.
func Get(ctx context.Context, key models.Key) (*models.CacheEntry, bool) {
	if svc == nil {
		return nil, false
	}
	return svc.Get(ctx, key)
}

// Put is the package-level entry point for a two-tier cache write.
func Put(ctx context.Context, entry *models.CacheEntry, ttl time.Duration) error {
	if svc == nil {
		return errors.New("cache service not initialized")
	}
	return svc.Put(ctx, entry, ttl)
}

// Get performs the two-tier read described in §4.2: hot tier first,
// falling through to the persistence store on a miss. A store hit
// repopulates the hot tier. Read failures are demoted to "miss + warn",
// per the §4.2 failure policy — never propagated to the caller.
func (s *Service) Get(ctx context.Context, key models.Key) (*models.CacheEntry, bool) {
	if entry, ok := s.hot.Get(key); ok {
		s.metrics.Hits.Add(1)
		return entry, true
	}

	result, err := s.coalescer.Do(key.HotKey(), func() (interface{}, error) {
		entry, err := store.GetCache(ctx, &store.GetCacheParams{
			ContentHash: key.ContentHash,
			Linter:      key.Linter,
			OptionsHash: key.OptionsHash,
		})
		return entry, err
	})
	if err != nil {
		s.log.Warn(ctx, "cache store read failed, treating as miss", map[string]interface{}{"error": err.Error()})
		s.metrics.Misses.Add(1)
		return nil, false
	}

	resp := result.(*store.GetCacheResponse)
	if resp.Entry == nil || resp.Entry.Format != key.Format {
		s.metrics.Misses.Add(1)
		return nil, false
	}

	s.hot.Set(key, resp.Entry)
	s.metrics.Hits.Add(1)
	return resp.Entry, true
}

// Put computes expires_at and writes through to the store, then
// populates the hot tier (§4.2 "Write"). A store write failure is
// surfaced to the caller as CacheError but the hot tier is still
// populated — per the job manager's "finished result must still reach
// the client" policy (§9 Open Question: cache-write-failure).
func (s *Service) Put(ctx context.Context, entry *models.CacheEntry, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = s.config.DefaultTTL
	}
	entry.ExpiresAt = time.Now().Add(ttl)

	key := models.Key{
		Linter:      entry.Linter,
		Format:      entry.Format,
		ContentHash: entry.ContentHash,
		OptionsHash: entry.OptionsHash,
	}
	s.hot.Set(key, entry)
	s.metrics.Sets.Add(1)

	if _, err := store.PutCache(ctx, entry); err != nil {
		return models.NewAPIError(models.ErrCache, "failed to persist cache entry", err)
	}
	return nil
}

// InvalidateRequest mirrors §6's DELETE /cache body: any combination of
// content_hash and linter narrows the scope; both absent clears all.
type InvalidateRequest struct {
	ContentHash string `json:"content_hash,omitempty"`
	Linter      string `json:"linter,omitempty"`
}

type InvalidateResponse struct {
	Deleted int64 `json:"deleted"`
}

// Invalidate dispatches to the store operation matching the fields set,
// mirroring the store's delete_cache_* family 1:1 (§4.2 "Invalidation").
//
//encore:api public method=DELETE path=/cache
func Invalidate(ctx context.Context, req *InvalidateRequest) (*InvalidateResponse, error) {
	if svc == nil {
		return nil, errors.New("cache service not initialized")
	}
	return svc.Invalidate(ctx, req)
}

func (s *Service) Invalidate(ctx context.Context, req *InvalidateRequest) (*InvalidateResponse, error) {
	var n int64
	var err error

	switch {
	case req.ContentHash != "" && req.Linter != "":
		resp, e := store.DeleteCacheByContentAndLinter(ctx, req.ContentHash, req.Linter)
		n, err = resp.Deleted, e
		if e == nil {
			s.hot.DeleteByContent(req.ContentHash)
		}
	case req.ContentHash != "":
		resp, e := store.DeleteCacheByContent(ctx, req.ContentHash)
		n, err = resp.Deleted, e
		if e == nil {
			s.hot.DeleteByContent(req.ContentHash)
		}
	case req.Linter != "":
		resp, e := store.DeleteCacheByLinter(ctx, req.Linter)
		n, err = resp.Deleted, e
		if e == nil {
			s.hot.DeleteByLinter(req.Linter)
		}
	default:
		resp, e := store.DeleteCacheAll(ctx)
		n, err = resp.Deleted, e
		if e == nil {
			s.hot.Clear()
		}
	}
	if err != nil {
		return nil, models.NewAPIError(models.ErrCache, "invalidation failed", err)
	}

	if n > 0 {
		requestID := obslog.RequestIDFromContext(ctx)
		if requestID == "" {
			requestID = obslog.NewRequestID()
		}
		event := &pubsub.InvalidationEvent{
			Version:     pubsub.EventVersion1,
			Service:     "cache",
			Pattern:     invalidationPattern(req),
			TriggeredAt: time.Now(),
			RequestID:   requestID,
		}
		_, _ = CacheInvalidateTopic.Publish(ctx, event)
	}

	return &InvalidateResponse{Deleted: n}, nil
}

func invalidationPattern(req *InvalidateRequest) string {
	linter := req.Linter
	if linter == "" {
		linter = "*"
	}
	content := req.ContentHash
	if content == "" {
		content = "*"
	}
	return content + "|" + linter + "|*|*"
}

// StatsResponse reports this process's session counters and the hot
// tier's current size. It carries no persisted entry count from the store.
type StatsResponse struct {
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	HitRate   float64 `json:"hit_rate"`
	Sets      int64   `json:"sets"`
	Evictions int64   `json:"evictions"`
	HotSize   int     `json:"hot_size"`
}

//encore:api public method=GET path=/cache/stats
func Stats(ctx context.Context) (*StatsResponse, error) {
	if svc == nil {
		return nil, errors.New("cache service not initialized")
	}
	return svc.Stats(ctx), nil
}

func (s *Service) Stats(ctx context.Context) *StatsResponse {
	hits := s.metrics.Hits.Load()
	misses := s.metrics.Misses.Load()
	total := hits + misses

	hitRate := 0.0
	if total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return &StatsResponse{
		Hits:      hits,
		Misses:    misses,
		HitRate:   hitRate,
		Sets:      s.metrics.Sets.Load(),
		Evictions: s.metrics.Evictions.Load(),
		HotSize:   s.hot.Size(),
	}
}

// runSweep periodically drops expired hot-tier entries and the
// persisted rows backing them (§4.2 "Sweep"). Cancels itself on
// shutdown, exactly like the teacher's runTTLCleanup.
func (s *Service) runSweep() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			evicted := s.hot.CleanupExpired()
			s.metrics.Evictions.Add(int64(evicted))
			if _, err := store.CleanupExpiredCache(context.Background()); err != nil {
				s.log.Warn(context.Background(), "store sweep failed", map[string]interface{}{"error": err.Error()})
			}
		}
	}
}

// Shutdown stops the background sweep (§5 "Graceful shutdown").
func (s *Service) Shutdown() {
	close(s.stopChan)
	s.wg.Wait()
}
