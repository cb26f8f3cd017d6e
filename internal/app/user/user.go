/*
Package user contains the user account data structures and their PostgreSQL store.

It defines the basic representation of a registered account (the User struct),
used by the authentication handlers and the credential store.
*/
package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account row.
type User struct {
	// ID is the unique identifier for the account.
	ID uuid.UUID

	// Username is the unique, immutable display handle. It doubles as the
	// chat identity once the user is authenticated.
	Username string

	// PasswordHash is the bcrypt hash of the account password.
	PasswordHash string

	// CreatedAt records when the account was created.
	CreatedAt time.Time
}
