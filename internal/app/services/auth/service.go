// Package auth implements registration, login and session management on top
// of hashed credentials and a server-side session store.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/stocktrack/stocktrack/internal/app/domain/session"
	"github.com/stocktrack/stocktrack/internal/app/domain/user"
	"github.com/stocktrack/stocktrack/internal/app/storage"
	"github.com/stocktrack/stocktrack/internal/errors"
	"github.com/stocktrack/stocktrack/pkg/logger"
)

// DefaultSessionTTL is the fixed session lifetime.
const DefaultSessionTTL = 24 * time.Hour

const minPasswordLength = 6

// Service manages users and their sessions.
type Service struct {
	users    storage.UserStore
	sessions storage.SessionStore
	log      *logger.Logger
	ttl      time.Duration
}

// New constructs an auth service with the default session lifetime.
func New(users storage.UserStore, sessions storage.SessionStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("auth")
	}
	return &Service{users: users, sessions: sessions, log: log, ttl: DefaultSessionTTL}
}

// WithTTL overrides the session lifetime. Intended for tests.
func (s *Service) WithTTL(ttl time.Duration) *Service {
	s.ttl = ttl
	return s
}

// TTL reports the configured session lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Register creates a user with a bcrypt-hashed password and starts a session
// for it. The returned token is the opaque session token for the cookie.
func (s *Service) Register(ctx context.Context, username, email, password, fullName string) (user.Public, string, error) {
	if username == "" || email == "" || password == "" || fullName == "" {
		return user.Public{}, "", errors.Validation("All fields are required")
	}
	if len(password) < minPasswordLength {
		return user.Public{}, "", errors.Validation("Password must be at least 6 characters long")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return user.Public{}, "", errors.Internal("", err)
	}

	created, err := s.users.CreateUser(ctx, user.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
	})
	if err != nil {
		if err == storage.ErrConflict {
			return user.Public{}, "", errors.Conflict("Username or email already exists")
		}
		return user.Public{}, "", errors.Internal("", err)
	}

	token, err := s.startSession(ctx, created)
	if err != nil {
		return user.Public{}, "", err
	}

	s.log.WithField("username", created.Username).Infof("user %s registered", created.ID)
	return created.Public(), token, nil
}

// Login verifies the credentials and starts a session. Unknown usernames and
// wrong passwords fail with the same error.
func (s *Service) Login(ctx context.Context, username, password string) (user.Public, string, error) {
	if username == "" || password == "" {
		return user.Public{}, "", errors.Validation("Username and password are required")
	}

	u, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if err == storage.ErrNotFound {
			return user.Public{}, "", errors.InvalidCredentials()
		}
		return user.Public{}, "", errors.Internal("", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return user.Public{}, "", errors.InvalidCredentials()
	}

	token, err := s.startSession(ctx, u)
	if err != nil {
		return user.Public{}, "", err
	}

	s.log.WithField("username", u.Username).Infof("user %s logged in", u.ID)
	return u.Public(), token, nil
}

// Logout terminates the session for the given token. Missing or already
// expired sessions are not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.DeleteSession(ctx, hashToken(token)); err != nil && err != storage.ErrNotFound {
		return errors.Internal("Could not log out", err)
	}
	return nil
}

// Session resolves the token to an active session. It never returns an error;
// expired sessions are removed lazily and reported as absent.
func (s *Service) Session(ctx context.Context, token string) (session.Session, bool) {
	if token == "" {
		return session.Session{}, false
	}
	tokenHash := hashToken(token)
	sess, err := s.sessions.GetSessionByTokenHash(ctx, tokenHash)
	if err != nil {
		return session.Session{}, false
	}
	if sess.Expired(time.Now().UTC()) {
		_ = s.sessions.DeleteSession(ctx, tokenHash)
		return session.Session{}, false
	}
	return sess, true
}

func (s *Service) startSession(ctx context.Context, u user.User) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", errors.Internal("", err)
	}

	_, err = s.sessions.CreateSession(ctx, session.Session{
		UserID:    u.ID,
		Username:  u.Username,
		TokenHash: hashToken(token),
		ExpiresAt: time.Now().UTC().Add(s.ttl),
	})
	if err != nil {
		return "", errors.Internal("", fmt.Errorf("create session: %w", err))
	}
	return token, nil
}

func generateToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
