// Package middleware provides HTTP middleware for the inventory API.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/stocktrack/stocktrack/internal/app/services/auth"
	"github.com/stocktrack/stocktrack/internal/errors"
	"github.com/stocktrack/stocktrack/pkg/logger"
)

// SessionCookie is the name of the cookie carrying the opaque session token.
const SessionCookie = "session_token"

type contextKey string

const (
	userIDKey   contextKey = "user_id"
	usernameKey contextKey = "username"
)

// SessionAuth authenticates requests with the session cookie.
type SessionAuth struct {
	sessions *auth.Service
	log      *logger.Logger
}

// NewSessionAuth creates session authentication middleware.
func NewSessionAuth(sessions *auth.Service, log *logger.Logger) *SessionAuth {
	if log == nil {
		log = logger.NewDefault("middleware")
	}
	return &SessionAuth{sessions: sessions, log: log}
}

// Handler rejects requests that do not carry a valid, unexpired session.
func (m *SessionAuth) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookie)
		if err != nil || cookie.Value == "" {
			m.respondUnauthorized(w, r)
			return
		}

		sess, ok := m.sessions.Session(r.Context(), cookie.Value)
		if !ok {
			m.respondUnauthorized(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, sess.UserID)
		ctx = context.WithValue(ctx, usernameKey, sess.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *SessionAuth) respondUnauthorized(w http.ResponseWriter, r *http.Request) {
	m.log.WithField("path", r.URL.Path).Debug("request rejected: no valid session")
	serviceErr := errors.Unauthorized("")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(serviceErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": serviceErr.Message})
}

// GetUserID extracts the authenticated user ID from the context.
func GetUserID(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

// GetUsername extracts the authenticated username from the context.
func GetUsername(ctx context.Context) string {
	if v, ok := ctx.Value(usernameKey).(string); ok {
		return v
	}
	return ""
}
