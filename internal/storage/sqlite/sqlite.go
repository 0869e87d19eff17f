// Package sqlite provides a SQLite-backed implementation of the storage.Cache
// interface, so analyzed receipts survive a restart.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/shirleyamir/snap-split-cozy/internal/models"
	"github.com/shirleyamir/snap-split-cozy/internal/storage"
)

// Ensure Cache implements storage.Cache
var _ storage.Cache = (*Cache)(nil)

// Cache stores receipts as JSON rows keyed by image digest.
type Cache struct {
	db         *sql.DB
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// New opens the cache database at dbPath, creating parent directories and
// running migrations. ttl and maxEntries behave as in the memory cache.
func New(dbPath string, ttl time.Duration, maxEntries int) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Cache{
		db:         db,
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// GetReceipt returns the receipt stored under digest.
func (c *Cache) GetReceipt(ctx context.Context, digest string) (*models.Receipt, error) {
	var (
		data     string
		storedAt int64
	)
	err := c.db.QueryRowContext(ctx,
		"SELECT receipt, stored_at FROM receipt_cache WHERE digest = ?",
		digest,
	).Scan(&data, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query receipt: %w", err)
	}
	if c.expired(storedAt) {
		return nil, storage.ErrNotFound
	}

	var receipt models.Receipt
	if err := json.Unmarshal([]byte(data), &receipt); err != nil {
		return nil, fmt.Errorf("failed to decode receipt: %w", err)
	}
	return &receipt, nil
}

// PutReceipt stores the receipt, drops expired rows and trims the table to
// maxEntries, oldest first.
func (c *Cache) PutReceipt(ctx context.Context, digest string, receipt *models.Receipt) error {
	data, err := json.Marshal(receipt)
	if err != nil {
		return fmt.Errorf("failed to encode receipt: %w", err)
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := c.now()
	_, err = tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO receipt_cache (digest, receipt, stored_at) VALUES (?, ?, ?)",
		digest, string(data), now.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert receipt: %w", err)
	}

	if c.ttl > 0 {
		_, err = tx.ExecContext(ctx,
			"DELETE FROM receipt_cache WHERE stored_at <= ?",
			now.Add(-c.ttl).UnixNano(),
		)
		if err != nil {
			return fmt.Errorf("failed to delete expired receipts: %w", err)
		}
	}

	if c.maxEntries > 0 {
		_, err = tx.ExecContext(ctx,
			`DELETE FROM receipt_cache WHERE digest NOT IN (
				SELECT digest FROM receipt_cache ORDER BY stored_at DESC LIMIT ?
			)`,
			c.maxEntries,
		)
		if err != nil {
			return fmt.Errorf("failed to trim cache: %w", err)
		}
	}

	return tx.Commit()
}

// Count returns the number of stored rows.
func (c *Cache) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM receipt_cache").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count receipts: %w", err)
	}
	return n, nil
}

func (c *Cache) expired(storedAt int64) bool {
	return c.ttl > 0 && c.now().Sub(time.Unix(0, storedAt)) >= c.ttl
}
