package auth

import (
	"context"

	"errors"

	"github.com/google/uuid"

	"github.com/leadhub/leadhub/internal/team"
)

// ErrEmailTaken is returned when registering with an email that already exists.
var ErrEmailTaken = errors.New("email already registered")

// ErrUserNotFound is returned when a user record is not found.
var ErrUserNotFound = errors.New("user not found")

// Repository provides storage operations for users and their teams.
type Repository interface {
	// CreateAccount inserts the team and its first user as an atomic
	// pair: either both rows persist or neither does.
	CreateAccount(ctx context.Context, t *team.Team, u *User) error

	// GetByEmail retrieves a user by email, with TeamName populated.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByID retrieves a user by ID, with TeamName populated.
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// UpdatePasswordHash replaces the stored password hash for a user.
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}
