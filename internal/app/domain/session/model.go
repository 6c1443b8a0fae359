package session

import "time"

// Session is a server-held proof of login. Only the SHA-256 hash of the
// cookie-carried token is persisted.
type Session struct {
	ID        string
	UserID    string
	Username  string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session has passed its expiry.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
