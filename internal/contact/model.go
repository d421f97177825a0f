package contact

import "github.com/google/uuid"

// Contact represents a row in the contacts table. Leads may hold a
// weak reference to a contact; deleting a contact does not delete the
// leads pointing at it.
type Contact struct {
	ID    uuid.UUID
	Name  string
	Email *string
}
