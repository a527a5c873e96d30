// Package models contains the domain structures for users and recordings,
// plus helper types for data arriving from JSON requests.
package models

import "time"

// User represents a registered account. VerificationToken is present only
// while the account is unverified; verifying clears it.
type User struct {
	ID                string     // Unique identifier, generated at creation
	Email             string     // Unique email, lookup key for login
	PasswordHash      string     // bcrypt hash, never exposed
	Verified          bool       // Email verification state
	VerificationToken *string    // Single-use token, nil once verified
	CreatedAt         time.Time  // Set by the store
	UpdatedAt         time.Time  // Set by the store
}
