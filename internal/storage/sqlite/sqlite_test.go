package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shirleyamir/snap-split-cozy/internal/models"
	"github.com/shirleyamir/snap-split-cozy/internal/storage"
)

func newTestCache(t *testing.T, ttl time.Duration, maxEntries int) (*Cache, func(time.Duration)) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "cache", "test.db")
	c, err := New(dbPath, ttl, maxEntries)
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, func(d time.Duration) { now = now.Add(d) }
}

func TestCache(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t, time.Hour, 10)

	t.Run("missing digest", func(t *testing.T) {
		if _, err := c.GetReceipt(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("round trip keeps absent subtotal", func(t *testing.T) {
		r := &models.Receipt{
			Items: []models.ReceiptItem{
				{Name: "Nasi Goreng", Price: decimal.NewFromInt(45000), Quantity: 1},
				{Name: "Es Teh", Price: decimal.NewFromInt(8000), Quantity: 2},
			},
			Tax:   decimal.NewFromInt(5300),
			Total: decimal.NewFromInt(58300),
		}
		if err := c.PutReceipt(ctx, "abc", r); err != nil {
			t.Fatalf("PutReceipt failed: %v", err)
		}

		got, err := c.GetReceipt(ctx, "abc")
		if err != nil {
			t.Fatalf("GetReceipt failed: %v", err)
		}
		if len(got.Items) != 2 || got.Items[1].Quantity != 2 {
			t.Errorf("unexpected items: %+v", got.Items)
		}
		if got.Subtotal.Valid {
			t.Error("expected subtotal to stay absent")
		}
		if !got.Total.Equal(r.Total) || !got.Tax.Equal(r.Tax) {
			t.Errorf("amounts changed: total=%s tax=%s", got.Total, got.Tax)
		}
	})

	t.Run("present subtotal survives", func(t *testing.T) {
		r := &models.Receipt{
			Items:    []models.ReceiptItem{{Name: "Coffee", Price: decimal.RequireFromString("4.50")}},
			Subtotal: decimal.NewNullDecimal(decimal.RequireFromString("4.50")),
			Total:    decimal.RequireFromString("4.50"),
		}
		if err := c.PutReceipt(ctx, "def", r); err != nil {
			t.Fatalf("PutReceipt failed: %v", err)
		}
		got, err := c.GetReceipt(ctx, "def")
		if err != nil {
			t.Fatalf("GetReceipt failed: %v", err)
		}
		if !got.Subtotal.Valid || got.Subtotal.Decimal.String() != "4.5" {
			t.Errorf("subtotal = %+v, want 4.5", got.Subtotal)
		}
	})
}

func TestCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, advance := newTestCache(t, time.Minute, 0)

	r := &models.Receipt{Total: decimal.NewFromInt(1)}
	if err := c.PutReceipt(ctx, "old", r); err != nil {
		t.Fatalf("PutReceipt failed: %v", err)
	}

	advance(2 * time.Minute)
	if _, err := c.GetReceipt(ctx, "old"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected expired entry to be gone, got %v", err)
	}

	if err := c.PutReceipt(ctx, "new", r); err != nil {
		t.Fatalf("PutReceipt failed: %v", err)
	}
	n, err := c.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Count = %d, want 1 after sweeping expired rows", n)
	}
}

func TestCacheEviction(t *testing.T) {
	ctx := context.Background()
	c, advance := newTestCache(t, 0, 2)

	for i := 0; i < 3; i++ {
		r := &models.Receipt{Total: decimal.NewFromInt(int64(i))}
		if err := c.PutReceipt(ctx, fmt.Sprintf("r%d", i), r); err != nil {
			t.Fatalf("PutReceipt(%d) failed: %v", i, err)
		}
		advance(time.Second)
	}

	if _, err := c.GetReceipt(ctx, "r0"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected oldest entry evicted, got %v", err)
	}
	for _, digest := range []string{"r1", "r2"} {
		if _, err := c.GetReceipt(ctx, digest); err != nil {
			t.Errorf("GetReceipt(%s) failed: %v", digest, err)
		}
	}
}
