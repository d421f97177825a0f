package auth

import (
	"time"

	"github.com/google/uuid"
)

// User represents a row in the users table. PasswordHash is set once
// at registration and never leaves this package through any read path:
// handlers map users to response structs that omit it.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	TeamID       uuid.UUID
	TeamName     string // populated by joins; not a users column
	CreatedAt    time.Time
}

// Identity is the verified caller identity stored in the request
// context after token verification. Its TeamID is the sole
// authorization scope for all tenant-owned data access.
type Identity struct {
	UserID uuid.UUID
	TeamID uuid.UUID
}
