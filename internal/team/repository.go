package team

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrTeamNotFound is returned when a team record is not found.
var ErrTeamNotFound = errors.New("team not found")

// Repository provides read access to the teams table. Teams are only
// ever created as part of registration, inside the same transaction
// as their first user, so there is no standalone Create here.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Team, error)
}
