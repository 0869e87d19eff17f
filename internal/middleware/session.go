package middleware

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/shirleyamir/snap-split-cozy/internal/models"
	"github.com/shirleyamir/snap-split-cozy/internal/session"
	"github.com/shirleyamir/snap-split-cozy/pkg/api"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// SessionKey is the context key for the session decoded from the request.
const SessionKey contextKey = "session"

// GetSession extracts the session from the context.
func GetSession(ctx context.Context) (models.Session, bool) {
	s, ok := ctx.Value(SessionKey).(models.Session)
	return s, ok
}

// RedirectError reports err as a failed precondition that sends the client
// back to the entry screen.
func RedirectError(err error) *connect.Error {
	connectErr := connect.NewError(connect.CodeFailedPrecondition, err)
	connectErr.Meta().Set(api.RedirectHeader, session.EntryPath)
	return connectErr
}

// RequireSession returns an interceptor that decodes the session token from
// the Session-Token header and adds the session to the request context.
// A missing or invalid token is answered with a redirect to the entry
// screen. Procedures listed in open are passed through untouched.
func RequireSession(manager *session.Manager, open ...string) connect.UnaryInterceptorFunc {
	skip := make(map[string]bool, len(open))
	for _, procedure := range open {
		skip[procedure] = true
	}

	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if skip[req.Spec().Procedure] {
				return next(ctx, req)
			}

			s, err := manager.Decode(req.Header().Get(api.SessionHeader))
			if err != nil {
				if !errors.Is(err, session.ErrMissingToken) {
					slog.Debug("Rejected session token",
						"procedure", req.Spec().Procedure,
						"error", err,
					)
				}
				return nil, RedirectError(err)
			}

			ctx = context.WithValue(ctx, SessionKey, s)
			return next(ctx, req)
		}
	}
}
