// Package domain holds the persistent entities of the account service.
package domain

import "time"

// User is a verified account. Passwords are never stored: SaltedPassword is
// hex(SHA-256(client-hashed password || Salt)).
type User struct {
	ID             int64
	Name           string
	Email          string
	Avatar         *string
	SaltedPassword string
	Salt           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
