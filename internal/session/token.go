package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shirleyamir/snap-split-cozy/internal/models"
)

var (
	ErrInvalidToken = errors.New("invalid or expired session token")
	ErrMissingToken = errors.New("session token required")
)

// Manager signs sessions into tokens and reads them back.
//
// The token is the session: every step of the flow receives the current
// token and answers with a new one, so the server keeps no session state.
type Manager struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

// Claims carries the session inside a JWT.
type Claims struct {
	Session models.Session `json:"session"`
	jwt.RegisteredClaims
}

// NewManager creates a new session token manager.
// secretKey should be a strong random string (e.g., 32 bytes).
// ttl is how long a token remains valid after its last update.
func NewManager(secretKey string, ttl time.Duration) *Manager {
	return &Manager{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		now:       time.Now,
	}
}

// Encode signs the session into a token.
func (m *Manager) Encode(s models.Session) (string, error) {
	now := m.now()
	claims := &Claims{
		Session: s,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}

	return tokenString, nil
}

// Decode validates a token and returns the session it carries.
func (m *Manager) Decode(tokenString string) (models.Session, error) {
	if tokenString == "" {
		return models.Session{}, ErrMissingToken
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return models.Session{}, ErrInvalidToken
	}

	s := claims.Session
	if s.Assignment == nil {
		s.Assignment = models.Assignment{}
	}
	return s, nil
}
