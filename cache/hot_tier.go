// Hot in-memory tier for the cache service, generalized from the
// teacher's cache-manager/cache.go L1Cache: same container/list LRU +
// sync.RWMutex + lazy TTL expiry, but keyed by the fingerprint tuple
// (content_hash, linter, format, options_hash) instead of an opaque
// string key, and storing a *models.CacheEntry instead of interface{}.
package cache

import (
	"container/list"
	"sync"
	"time"

	"linthub.app/pkg/models"
	"linthub.app/pkg/utils"
)

type hotEntry struct {
	key     models.Key
	entry   *models.CacheEntry
	element *list.Element
}

// HotTier is a thread-safe in-memory LRU cache of cache entries.
type HotTier struct {
	mu         sync.RWMutex
	byKey      map[string]*hotEntry
	lruList    *list.List
	maxEntries int
}

// NewHotTier creates a hot tier with the given entry cap. 0 means a
// reasonable default.
func NewHotTier(maxEntries int) *HotTier {
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	return &HotTier{
		byKey:      make(map[string]*hotEntry, maxEntries),
		lruList:    list.New(),
		maxEntries: maxEntries,
	}
}

// Get returns the entry for key if present and not expired. Expired
// entries are dropped on access (§4.2 "drop stale entries on access").
func (h *HotTier) Get(key models.Key) (*models.CacheEntry, bool) {
	hk := key.HotKey()

	h.mu.RLock()
	he, exists := h.byKey[hk]
	h.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if !he.entry.Valid(time.Now()) {
		h.mu.Lock()
		h.deleteUnsafe(hk)
		h.mu.Unlock()
		return nil, false
	}

	h.mu.Lock()
	h.lruList.MoveToFront(he.element)
	h.mu.Unlock()

	return he.entry, true
}

// Set stores or replaces the entry for key, evicting the LRU entry if at
// capacity.
func (h *HotTier) Set(key models.Key, entry *models.CacheEntry) {
	hk := key.HotKey()

	h.mu.Lock()
	defer h.mu.Unlock()

	if he, exists := h.byKey[hk]; exists {
		he.entry = entry
		h.lruList.MoveToFront(he.element)
		return
	}

	if h.lruList.Len() >= h.maxEntries {
		h.evictLRUUnsafe()
	}

	he := &hotEntry{key: key, entry: entry}
	he.element = h.lruList.PushFront(he)
	h.byKey[hk] = he
}

// Delete removes the entry for an exact key. Returns true if it existed.
func (h *HotTier) Delete(key models.Key) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.deleteUnsafe(key.HotKey())
}

// DeleteHotKey removes the entry for an exact hot key string, as used by
// invalidation events received from other instances.
func (h *HotTier) DeleteHotKey(hotKey string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.deleteUnsafe(hotKey)
}

func (h *HotTier) deleteUnsafe(hotKey string) bool {
	he, exists := h.byKey[hotKey]
	if !exists {
		return false
	}
	h.lruList.Remove(he.element)
	delete(h.byKey, hotKey)
	return true
}

// DeleteByContent removes every hot-tier entry for a content hash.
func (h *HotTier) DeleteByContent(contentHash string) int {
	return h.deleteWhere(func(k models.Key) bool { return k.ContentHash == contentHash })
}

// DeleteByLinter removes every hot-tier entry for a linter.
func (h *HotTier) DeleteByLinter(linter string) int {
	return h.deleteWhere(func(k models.Key) bool { return k.Linter == linter })
}

// DeleteByPattern removes every hot-tier entry whose hot key matches
// pattern, reusing the glob/regex matcher shared with workspace include/
// exclude filtering.
func (h *HotTier) DeleteByPattern(pattern string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	var toDelete []string
	for hk := range h.byKey {
		if ok, err := utils.MatchPattern(pattern, hk); err == nil && ok {
			toDelete = append(toDelete, hk)
		}
	}
	count := 0
	for _, hk := range toDelete {
		if h.deleteUnsafe(hk) {
			count++
		}
	}
	return count
}

func (h *HotTier) deleteWhere(match func(models.Key) bool) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	var toDelete []string
	for hk, he := range h.byKey {
		if match(he.key) {
			toDelete = append(toDelete, hk)
		}
	}
	count := 0
	for _, hk := range toDelete {
		if h.deleteUnsafe(hk) {
			count++
		}
	}
	return count
}

// Clear empties the hot tier.
func (h *HotTier) Clear() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := len(h.byKey)
	h.byKey = make(map[string]*hotEntry, h.maxEntries)
	h.lruList = list.New()
	return n
}

// CleanupExpired removes all expired entries and returns the count
// removed.
func (h *HotTier) CleanupExpired() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()
	var expired []string
	for hk, he := range h.byKey {
		if !he.entry.Valid(now) {
			expired = append(expired, hk)
		}
	}
	count := 0
	for _, hk := range expired {
		if h.deleteUnsafe(hk) {
			count++
		}
	}
	return count
}

func (h *HotTier) evictLRUUnsafe() {
	oldest := h.lruList.Back()
	if oldest == nil {
		return
	}
	he := oldest.Value.(*hotEntry)
	h.lruList.Remove(oldest)
	delete(h.byKey, he.key.HotKey())
}

// Size returns the current entry count.
func (h *HotTier) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byKey)
}
