// Package cache provides a read-through cache over the trip record store.
//
// The monthly report re-reads the entire record set on every request. The
// dataset is small but the upstream store historically rate-limited frequent
// full reads, so reads are served from a short-lived in-memory copy. There is
// exactly one cache key (the whole dataset), and it is invalidated explicitly
// after every successful append so the next read observes the new row.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/ycliang/transport-report/internal/domain"
	"github.com/ycliang/transport-report/internal/repo"
)

// RecordCache wraps a TripRecordRepo, caching ListAll results for up to TTL
// and passing Append through with invalidation. It implements
// repo.TripRecordRepo so callers cannot tell it from the real store.
type RecordCache struct {
	src repo.TripRecordRepo
	ttl time.Duration
	now func() time.Time // swapped in tests

	mu        sync.Mutex
	rows      []domain.TripRecord
	fetchedAt time.Time
	valid     bool
}

var _ repo.TripRecordRepo = (*RecordCache)(nil)

// New constructs a RecordCache over src. A non-positive ttl disables caching:
// every ListAll goes straight to src.
func New(src repo.TripRecordRepo, ttl time.Duration) *RecordCache {
	return &RecordCache{src: src, ttl: ttl, now: time.Now}
}

// ListAll returns the cached dataset when it is younger than TTL, otherwise
// re-fetches from the source and caches the result. A source error is
// returned as-is and leaves any previously cached (stale) data untouched.
func (c *RecordCache) ListAll(ctx context.Context) ([]domain.TripRecord, error) {
	if c.ttl <= 0 {
		return c.src.ListAll(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.rows, nil
	}

	rows, err := c.src.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	c.rows = rows
	c.fetchedAt = c.now()
	c.valid = true
	return rows, nil
}

// Append passes through to the source and, on success, invalidates the cached
// dataset so the next read includes the new record.
func (c *RecordCache) Append(ctx context.Context, rec domain.TripRecord) (domain.TripRecord, error) {
	stored, err := c.src.Append(ctx, rec)
	if err != nil {
		return domain.TripRecord{}, err
	}
	c.Invalidate()
	return stored, nil
}

// SetNow overrides the cache's clock. Intended for tests that need to age
// the cached dataset without sleeping.
func (c *RecordCache) SetNow(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Invalidate drops the cached dataset. The next ListAll re-fetches.
func (c *RecordCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = nil
	c.valid = false
}
