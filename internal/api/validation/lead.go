package validation

import (
	"fmt"
	"strings"

	"github.com/leadhub/leadhub/internal/lead"
)

// LeadRequest mirrors the fields needed for lead create validation.
type LeadRequest struct {
	Title  string
	Status string
}

// ValidateLeadRequest validates the required fields of a lead create
// request. Status must be one of the fixed enumeration; transition
// ordering between values is not checked.
func ValidateLeadRequest(req LeadRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.Title) == "" {
		errs = append(errs, FieldError{Field: "title", Message: "title is required"})
	}

	if req.Status == "" {
		errs = append(errs, FieldError{Field: "status", Message: "status is required"})
	} else if !lead.IsValidStatus(lead.Status(req.Status)) {
		errs = append(errs, FieldError{Field: "status", Message: statusMessage()})
	}

	return errs
}

// ValidateLeadStatus validates a status value supplied on update.
func ValidateLeadStatus(status string) []FieldError {
	if !lead.IsValidStatus(lead.Status(status)) {
		return []FieldError{{Field: "status", Message: statusMessage()}}
	}
	return nil
}

func statusMessage() string {
	names := make([]string, 0, len(lead.ValidStatuses))
	for _, s := range lead.ValidStatuses {
		names = append(names, string(s))
	}
	return fmt.Sprintf("status must be one of: %s", strings.Join(names, ", "))
}
