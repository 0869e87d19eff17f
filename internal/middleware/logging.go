package middleware

import (
	"context"
	"errors"
	"log/slog"
	"path"
	"time"

	"connectrpc.com/connect"

	"github.com/shirleyamir/snap-split-cozy/pkg/api"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call
// with the state of the split it acted on: the session, the receipt size,
// how many people are taking part and how many items are still unassigned.
// Failures that send the client back to the entry screen log the redirect.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			attrs := splitAttrs(ctx, req.Spec().Procedure, time.Since(start))
			if err == nil {
				slog.LogAttrs(ctx, slog.LevelInfo, "RPC ok", attrs...)
				return resp, nil
			}

			var connectErr *connect.Error
			if !errors.As(err, &connectErr) {
				attrs = append(attrs, slog.Any("error", err))
				slog.LogAttrs(ctx, slog.LevelError, "RPC failed", attrs...)
				return resp, err
			}

			attrs = append(attrs,
				slog.String("code", connectErr.Code().String()),
				slog.String("error", connectErr.Message()),
			)
			if to := connectErr.Meta().Get(api.RedirectHeader); to != "" {
				attrs = append(attrs, slog.String("redirect", to))
			}
			level := slog.LevelWarn
			if connectErr.Code() == connect.CodeInternal {
				level = slog.LevelError
			}
			slog.LogAttrs(ctx, level, "RPC failed", attrs...)
			return resp, err
		}
	}
}

// splitAttrs describes the call. Session attributes reflect the state the
// request arrived with and are absent for StartSession.
func splitAttrs(ctx context.Context, procedure string, d time.Duration) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("rpc", path.Base(procedure)),
		slog.Int64("duration_ms", d.Milliseconds()),
	}
	s, ok := GetSession(ctx)
	if !ok {
		return attrs
	}
	attrs = append(attrs,
		slog.String("session_id", s.ID),
		slog.Int("bills", len(s.Trip.Bills)),
	)
	if s.Receipt != nil {
		items := len(s.Receipt.Items)
		attrs = append(attrs,
			slog.Int("items", items),
			slog.Int("selected", len(s.Selected)),
			slog.Int("unassigned", len(s.Assignment.Unassigned(items))),
		)
	}
	return attrs
}
