// Package storage provides abstractions for storing receipt analysis results.
package storage

import (
	"context"
	"errors"

	"github.com/shirleyamir/snap-split-cozy/internal/models"
)

// ErrNotFound is returned when no entry exists for a key.
var ErrNotFound = errors.New("not found")

// Cache defines the interface for storing analyzed receipts by image digest.
// This abstraction allows swapping backends (in-memory, Redis, etc.) without
// changing the analyzer.
type Cache interface {
	// GetReceipt returns the receipt stored under digest.
	// Returns ErrNotFound if there is no live entry.
	GetReceipt(ctx context.Context, digest string) (*models.Receipt, error)

	// PutReceipt stores a copy of the receipt under digest, replacing any
	// earlier entry.
	PutReceipt(ctx context.Context, digest string, receipt *models.Receipt) error

	// Close releases any resources held by the cache.
	Close() error
}
