package team

import (
	"time"

	"github.com/google/uuid"
)

// Team represents a row in the teams table. A team is the isolation
// boundary: every user and every lead belongs to exactly one.
type Team struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}
