package user

import "time"

// User is a registered account holder. PasswordHash never leaves the storage
// and service layers.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// Public is the caller-facing projection of a user.
type Public struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// Public returns the projection of u safe to hand to callers.
func (u User) Public() Public {
	return Public{ID: u.ID, Username: u.Username, Email: u.Email, FullName: u.FullName}
}
