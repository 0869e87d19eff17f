package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/shirleyamir/snap-split-cozy/internal/models"
	"github.com/shirleyamir/snap-split-cozy/internal/session"
	"github.com/shirleyamir/snap-split-cozy/pkg/api"
)

// captureLogs routes the default logger into a buffer for one test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var rec map[string]any
	if err := json.Unmarshal(lines[len(lines)-1], &rec); err != nil {
		t.Fatalf("failed to decode log line %q: %v", lines[len(lines)-1], err)
	}
	return rec
}

func splitInProgress() models.Session {
	price := decimal.NewFromInt(5)
	return models.Session{
		ID: "sess-1",
		Receipt: &models.Receipt{
			Items: []models.ReceiptItem{{Name: "A", Price: price}, {Name: "B", Price: price}, {Name: "C", Price: price}},
			Total: decimal.NewFromInt(15),
		},
		Selected:   []string{"p1"},
		Assignment: models.Assignment{0: "p1"},
	}
}

func TestLoggingInterceptor(t *testing.T) {
	tests := []struct {
		name      string
		withState bool
		err       error
		want      map[string]any
		absent    []string
	}{
		{
			name:      "ok with split state",
			withState: true,
			want: map[string]any{
				"level":      "INFO",
				"msg":        "RPC ok",
				"session_id": "sess-1",
				"items":      float64(3),
				"selected":   float64(1),
				"unassigned": float64(2),
			},
			absent: []string{"code", "redirect"},
		},
		{
			name: "redirect is logged",
			err:  RedirectError(session.ErrMissingToken),
			want: map[string]any{
				"level":    "WARN",
				"msg":      "RPC failed",
				"code":     "failed_precondition",
				"redirect": session.EntryPath,
			},
			absent: []string{"session_id", "items"},
		},
		{
			name:      "internal error",
			withState: true,
			err:       connect.NewError(connect.CodeInternal, errors.New("boom")),
			want: map[string]any{
				"level": "ERROR",
				"code":  "internal",
				"error": "boom",
			},
			absent: []string{"redirect"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t)

			ctx := context.Background()
			if tt.withState {
				ctx = context.WithValue(ctx, SessionKey, splitInProgress())
			}
			handler := LoggingInterceptor()(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
				if tt.err != nil {
					return nil, tt.err
				}
				return connect.NewResponse(&api.GetSessionResponse{}), nil
			})

			_, err := handler(ctx, connect.NewRequest(&api.GetSessionRequest{}))
			if !errors.Is(err, tt.err) {
				t.Fatalf("interceptor changed the error: %v", err)
			}

			rec := lastRecord(t, buf)
			for key, want := range tt.want {
				if rec[key] != want {
					t.Errorf("%s = %v, want %v", key, rec[key], want)
				}
			}
			for _, key := range tt.absent {
				if _, ok := rec[key]; ok {
					t.Errorf("unexpected attribute %s = %v", key, rec[key])
				}
			}
		})
	}
}
