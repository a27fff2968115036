// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// PasswordHash holds the bcrypt hash of the password for accounts created
// via registration. It is tagged `json:"-"` so it can NEVER leak through a
// response — every endpoint that returns users serializes this struct
// directly, and the tag is the single guarantee the hash stays server-side.
//
// GitHubID is non-zero only for accounts created through the GitHub OAuth
// flow. Those accounts have an empty PasswordHash and cannot log in with
// a password.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	GitHubID     int64     `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
