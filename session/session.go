// Package session keeps an anonymous browser session id in a signed cookie.
// The id keys the per-session screen state; it carries no identity.
package session

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ctxKey string

const (
	CookieName    = "sid"
	sessionCtxKey = ctxKey("sessionID")
)

// Manager signs and verifies session cookies.
type Manager struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

// NewManager returns a Manager signing with secret. An empty secret falls back
// to a development value.
func NewManager(secret string, ttl time.Duration, secure bool) *Manager {
	if secret == "" {
		secret = "devsessionsecret"
	}
	return &Manager{secret: []byte(secret), ttl: ttl, secure: secure}
}

func (m *Manager) sign(id string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(id))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Parse validates the cookie and returns the session id.
func (m *Manager) Parse(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	id, sig, ok := strings.Cut(c.Value, ".")
	if !ok {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(m.sign(id))) {
		return "", false
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// Ensure returns the request's session id, issuing a new cookie when the
// request carries none or a tampered one. The cookie is refreshed either way.
func (m *Manager) Ensure(w http.ResponseWriter, r *http.Request) string {
	id, ok := m.Parse(r)
	if !ok {
		id = uuid.NewString()
	}
	c := &http.Cookie{
		Name:     CookieName,
		Value:    id + "." + m.sign(id),
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if m.ttl > 0 {
		c.Expires = time.Now().Add(m.ttl)
	}
	http.SetCookie(w, c)
	return id
}

// Clear deletes the session cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: CookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

// WithID stores the session id in context.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionCtxKey, id)
}

// IDFromContext extracts the session id.
func IDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionCtxKey).(string)
	return id, ok && id != ""
}

// Middleware makes sure every request has a session id in its context.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := m.Ensure(w, r)
		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
	})
}
