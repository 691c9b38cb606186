package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName is the browser cookie holding the signed session token.
const CookieName = "opd_session"

// Manager issues and resolves sessions. The cookie value is a compact HS256
// token whose only claim of interest is the session ID; the session row in
// the store is the source of truth, so a stolen secret alone cannot revive a
// logged-out or expired session.
type Manager struct {
	store  SessionStore
	secret []byte
	ttl    time.Duration
	secure bool
}

// NewManager creates a session manager. secure controls the cookie's Secure
// flag and should be true whenever the app is served over HTTPS.
func NewManager(store SessionStore, secret []byte, ttl time.Duration, secure bool) *Manager {
	return &Manager{store: store, secret: secret, ttl: ttl, secure: secure}
}

// Issue creates a session for the doctor and returns the cookie to set.
func (m *Manager) Issue(ctx context.Context, doctorID int64, username string) (*http.Cookie, error) {
	now := time.Now()
	s := &Session{
		ID:        uuid.New(),
		DoctorID:  doctorID,
		Username:  username,
		ExpiresAt: now.Add(m.ttl),
		CreatedAt: now,
	}
	if err := m.store.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	claims := jwt.RegisteredClaims{
		Subject:   s.ID.String(),
		ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	return m.cookie(token, s.ExpiresAt), nil
}

// Resolve validates the cookie value and loads the session it names.
// Any failure collapses to ErrNoSession.
func (m *Manager) Resolve(ctx context.Context, cookieValue string) (*Session, error) {
	sid, err := m.parseToken(cookieValue)
	if err != nil {
		return nil, ErrNoSession
	}

	s, err := m.store.Get(ctx, sid)
	if err != nil {
		return nil, ErrNoSession
	}
	if s.Expired(time.Now()) {
		_ = m.store.Delete(ctx, s.ID)
		return nil, ErrNoSession
	}
	return s, nil
}

// Destroy removes the session named by the cookie value and returns an
// expired cookie to clear the browser. A missing or invalid cookie is not an
// error; logout is idempotent.
func (m *Manager) Destroy(ctx context.Context, cookieValue string) (*http.Cookie, error) {
	if sid, err := m.parseToken(cookieValue); err == nil {
		if err := m.store.Delete(ctx, sid); err != nil {
			return nil, fmt.Errorf("delete session: %w", err)
		}
	}
	return m.cookie("", time.Unix(0, 0)), nil
}

func (m *Manager) parseToken(cookieValue string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(cookieValue, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return uuid.Nil, ErrNoSession
	}
	return uuid.Parse(claims.Subject)
}

func (m *Manager) cookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
