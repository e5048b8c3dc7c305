package cache

import "golang.org/x/sync/singleflight"

// RequestCoalescer implements the single-flight pattern (§5 "single-flight
// coalescing"): concurrent store reads for the same fingerprint are
// collapsed into one query, with every caller receiving the same result.
// The teacher imports this exact package in warming/service.go to
// coalesce concurrent origin fetches for the same key; this wraps it for
// the same reason, coalescing concurrent store reads instead.
type RequestCoalescer struct {
	group singleflight.Group
}

// NewRequestCoalescer creates a new request coalescer.
func NewRequestCoalescer() *RequestCoalescer {
	return &RequestCoalescer{}
}

// Do ensures only one execution is in flight for a given key at a time.
func (c *RequestCoalescer) Do(key string, fn func() (interface{}, error)) (interface{}, error) {
	val, err, _ := c.group.Do(key, fn)
	return val, err
}
