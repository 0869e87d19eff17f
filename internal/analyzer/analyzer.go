// Package analyzer turns a receipt photo into a structured receipt by asking
// a vision model for JSON and reading the answer back.
//
// A reply that cannot be read is not an error: the caller gets a placeholder
// receipt with a single "Unable to parse receipt" item and Result.Parsed set
// to false. Only a missing image, a missing API key and upstream failures
// are errors.
package analyzer

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/shirleyamir/snap-split-cozy/internal/metrics"
	"github.com/shirleyamir/snap-split-cozy/internal/models"
	"github.com/shirleyamir/snap-split-cozy/internal/storage"
)

var (
	ErrNoImage       = errors.New("no image provided")
	ErrMissingAPIKey = errors.New("OpenAI API key not configured")
	ErrUpstream      = errors.New("receipt analysis failed")
)

// Image is an uploaded receipt photo.
type Image struct {
	Data        []byte
	ContentType string
	Filename    string
}

// mediaType returns the image type for the data URL, defaulting to JPEG
// when the upload did not say or the value is not an image type.
func (i Image) mediaType() string {
	ct := i.ContentType
	if ct == "" {
		ct = http.DetectContentType(i.Data)
	}
	if semi := strings.IndexByte(ct, ';'); semi >= 0 {
		ct = ct[:semi]
	}
	ct = strings.TrimSpace(ct)
	if !strings.HasPrefix(ct, "image/") {
		return "image/jpeg"
	}
	return ct
}

// Digest returns the hex BLAKE2b-256 of the image bytes.
func (i Image) Digest() string {
	sum := blake2b.Sum256(i.Data)
	return hex.EncodeToString(sum[:])
}

// Result is the outcome of one analysis.
type Result struct {
	Receipt *models.Receipt
	// Parsed is false when Receipt is the placeholder.
	Parsed bool
	// Cached is true when the receipt came from an earlier identical upload.
	Cached bool
}

// Describer asks a vision model about an image.
type Describer interface {
	Describe(ctx context.Context, prompt string, image Image) (string, error)
}

// Service analyzes receipt images.
type Service struct {
	describer Describer
	cache     storage.Cache
	metrics   *metrics.Metrics
}

// NewService creates an analysis service. cache and m may be nil.
func NewService(describer Describer, cache storage.Cache, m *metrics.Metrics) *Service {
	return &Service{
		describer: describer,
		cache:     cache,
		metrics:   m,
	}
}

// Analyze extracts a receipt from the image. Only parsed receipts are
// cached, so an upload that produced the placeholder is retried upstream.
func (s *Service) Analyze(ctx context.Context, image Image) (*Result, error) {
	if len(image.Data) == 0 {
		return nil, ErrNoImage
	}
	slog.Info("Image received", "filename", image.Filename, "bytes", len(image.Data))

	digest := image.Digest()
	if s.cache != nil {
		cached, err := s.cache.GetReceipt(ctx, digest)
		if err == nil {
			slog.Info("Receipt served from cache", "digest", digest[:16])
			s.metrics.ObserveAnalysis(metrics.OutcomeCached)
			return &Result{Receipt: cached, Parsed: true, Cached: true}, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Warn("Receipt cache lookup failed", "error", err)
		}
	}

	start := time.Now()
	reply, err := s.describer.Describe(ctx, receiptPrompt, image)
	s.metrics.ObserveUpstream(time.Since(start))
	if err != nil {
		s.metrics.ObserveAnalysis(metrics.OutcomeError)
		if errors.Is(err, ErrMissingAPIKey) || errors.Is(err, ErrUpstream) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	receipt, parsed := ExtractReceipt(reply)
	if !parsed {
		s.metrics.ObserveAnalysis(metrics.OutcomeSentinel)
		return &Result{Receipt: receipt, Parsed: false}, nil
	}

	s.metrics.ObserveAnalysis(metrics.OutcomeParsed)
	slog.Info("Receipt parsed",
		"items", len(receipt.Items),
		"total", receipt.Total.String(),
	)
	if s.cache != nil {
		if err := s.cache.PutReceipt(ctx, digest, receipt); err != nil {
			slog.Warn("Failed to cache receipt", "error", err)
		}
	}
	return &Result{Receipt: receipt, Parsed: true}, nil
}
