// Package memory implements storage.Cache in process memory.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shirleyamir/snap-split-cozy/internal/models"
	"github.com/shirleyamir/snap-split-cozy/internal/storage"
)

type entry struct {
	receipt  *models.Receipt
	storedAt time.Time
}

// Cache keeps receipts for a fixed time. When full, the oldest entry is
// evicted to make room.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

var _ storage.Cache = (*Cache)(nil)

// New creates a cache. A ttl of zero keeps entries until evicted; maxEntries
// below one means no size limit.
func New(ttl time.Duration, maxEntries int) *Cache {
	return &Cache{
		entries:    make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// GetReceipt returns a copy of the stored receipt.
func (c *Cache) GetReceipt(ctx context.Context, digest string) (*models.Receipt, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[digest]
	if !ok || c.expired(e) {
		return nil, storage.ErrNotFound
	}
	return e.receipt.Clone(), nil
}

// PutReceipt stores a copy of the receipt.
func (c *Cache) PutReceipt(ctx context.Context, digest string, receipt *models.Receipt) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sweep()
	if _, exists := c.entries[digest]; !exists && c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}
	c.entries[digest] = entry{receipt: receipt.Clone(), storedAt: c.now()}
	return nil
}

// Count returns the number of entries, expired ones included.
func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close drops all entries.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
	return nil
}

func (c *Cache) expired(e entry) bool {
	return c.ttl > 0 && c.now().Sub(e.storedAt) >= c.ttl
}

// sweep removes expired entries. Caller holds the write lock.
func (c *Cache) sweep() {
	for k, e := range c.entries {
		if c.expired(e) {
			delete(c.entries, k)
		}
	}
}

// evictOldest removes the entry stored first. Caller holds the write lock.
func (c *Cache) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for k, e := range c.entries {
		if oldestKey == "" || e.storedAt.Before(oldest) {
			oldestKey, oldest = k, e.storedAt
		}
	}
	delete(c.entries, oldestKey)
}
