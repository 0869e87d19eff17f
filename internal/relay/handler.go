// Package relay serves the receipt upload endpoint that forwards photos to
// the vision model, plus a health check.
package relay

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shirleyamir/snap-split-cozy/internal/analyzer"
	"github.com/shirleyamir/snap-split-cozy/pkg/api"
)

// DefaultMaxImageBytes bounds the upload size.
const DefaultMaxImageBytes = 10 << 20

const errorDetails = "Check the server logs for more information"

// Analyzer extracts receipts from images.
type Analyzer interface {
	Analyze(ctx context.Context, image analyzer.Image) (*analyzer.Result, error)
}

type Handler struct {
	analyzer      Analyzer
	configured    bool
	maxImageBytes int64
}

// NewHandler creates the relay handler. configured reports whether an API
// key is set; it is only surfaced by the health check.
func NewHandler(a Analyzer, configured bool) *Handler {
	return &Handler{
		analyzer:      a,
		configured:    configured,
		maxImageBytes: DefaultMaxImageBytes,
	}
}

// AnalyzeReceipt reads the multipart "image" field and answers with the
// analyzed receipt. A placeholder receipt is still a 200, marked with
// X-Receipt-Parsed: false.
func (h *Handler) AnalyzeReceipt(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxImageBytes)

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, api.ErrorResponse{Error: "Image too large"})
			return
		}
		slog.Warn("No image provided", "error", err)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "No image provided"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error("Failed to read image", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error(), Details: errorDetails})
		return
	}

	result, err := h.analyzer.Analyze(c.Request.Context(), analyzer.Image{
		Data:        data,
		ContentType: header.Header.Get("Content-Type"),
		Filename:    header.Filename,
	})
	if err != nil {
		if errors.Is(err, analyzer.ErrNoImage) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "No image provided"})
			return
		}
		slog.Error("Error analyzing receipt", "filename", header.Filename, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error(), Details: errorDetails})
		return
	}

	if result.Parsed {
		c.Header(api.ParsedHeader, "true")
	} else {
		c.Header(api.ParsedHeader, "false")
	}
	c.JSON(http.StatusOK, api.ReceiptFromModel(result.Receipt))
}

// Health reports liveness and whether receipts can be analyzed.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"analyzer": h.configured,
	})
}
