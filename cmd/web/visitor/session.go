// Package visitor gives each browser an anonymous, cookie-backed identity so
// the server can keep one download form per visitor.
package visitor

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	SessionName  = "framefetch_visitor"
	VisitorIDKey = "visitor_id"
)

var (
	ErrNoVisitor = errors.New("no visitor session")
)

type SessionManager struct {
	store *sessions.CookieStore
}

func NewSessionManager(secret string) *SessionManager {
	if secret == "" {
		secret = generateSecret()
	}
	return &SessionManager{
		store: sessions.NewCookieStore([]byte(secret)),
	}
}

func generateSecret() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.StdEncoding.EncodeToString(b)
}

// Ensure returns the visitor ID carried by the request, issuing a new one
// (and writing the cookie) when the request has none or an unreadable one.
func (sm *SessionManager) Ensure(w http.ResponseWriter, r *http.Request) (string, error) {
	if id, err := sm.VisitorID(r); err == nil {
		return id, nil
	}

	session, _ := sm.store.Get(r, SessionName)
	id := uuid.NewString()
	session.Values[VisitorIDKey] = id

	// Determine if we're on HTTPS
	isHTTPS := r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"

	session.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400, // 1 day
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   isHTTPS,
	}

	if err := session.Save(r, w); err != nil {
		return "", err
	}
	return id, nil
}

// VisitorID reads the visitor ID from the session cookie.
func (sm *SessionManager) VisitorID(r *http.Request) (string, error) {
	session, err := sm.store.Get(r, SessionName)
	if err != nil {
		_, cookieErr := r.Cookie(SessionName)
		slog.Warn("failed to decode visitor session", "error", err, "host", r.Host, "has_cookie", cookieErr == nil)
		return "", err
	}

	val, ok := session.Values[VisitorIDKey]
	if !ok {
		return "", ErrNoVisitor
	}
	id, ok := val.(string)
	if !ok || id == "" {
		return "", ErrNoVisitor
	}
	return id, nil
}
