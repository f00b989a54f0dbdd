package models

import "time"

// User is a registered participant in the ledger. User records are owned by
// the storage layer; plan assembly treats them as immutable snapshots.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Email is the user's email address (unique).
	Email string `json:"email"`

	// FirstNames holds the user's given names.
	FirstNames string `json:"first_names"`

	// Surname is the user's family name.
	Surname string `json:"surname"`

	// CreatedAt is when the user record was created.
	CreatedAt time.Time `json:"created_at"`
}
