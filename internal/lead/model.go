package lead

import (
	"time"

	"github.com/google/uuid"
)

// Status is the fixed lead status enumeration. The repository accepts
// any value in the set on create or update; transition ordering is not
// enforced.
type Status string

const (
	StatusNew        Status = "Ny"
	StatusInProgress Status = "Pågående"
	StatusQualified  Status = "Kvalificerad"
	StatusLost       Status = "Förlorad"
)

// ValidStatuses is the set of accepted status values.
var ValidStatuses = []Status{StatusNew, StatusInProgress, StatusQualified, StatusLost}

// IsValidStatus reports whether s is one of the accepted status values.
func IsValidStatus(s Status) bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Lead represents a row in the leads table. TeamID is stamped from the
// authenticated caller's identity at creation and is immutable.
// ContactName and ContactEmail come from a LEFT JOIN on contacts and
// are read-only.
type Lead struct {
	ID           uuid.UUID
	Title        string
	Email        *string
	Status       Status
	Company      *string
	Phone        *string
	Area         *string
	Notes        *string
	ContactID    *uuid.UUID
	ContactName  *string
	ContactEmail *string
	TeamID       uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UpdateFields holds the patchable lead fields. Nil pointers leave the
// stored value unchanged.
type UpdateFields struct {
	Title     *string
	Email     *string
	Status    *Status
	Company   *string
	Phone     *string
	Area      *string
	Notes     *string
	ContactID *uuid.UUID
}

// Stats summarizes a team's leads. Open counts Ny and Pågående,
// closed counts Förlorad.
type Stats struct {
	Total  int
	Open   int
	Closed int
}
