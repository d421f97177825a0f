package validation

import "strings"

// RegisterRequest mirrors the fields needed for registration validation.
type RegisterRequest struct {
	Email    string
	Password string
	Name     string
}

// ValidateRegisterRequest validates the fields of a registration request.
// TeamName is optional and not validated; an empty value gets a default.
func ValidateRegisterRequest(req RegisterRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.Email) == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	}
	if req.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	}
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	}

	return errs
}

// LoginRequest mirrors the fields needed for login validation.
type LoginRequest struct {
	Email    string
	Password string
}

// ValidateLoginRequest validates the fields of a login request.
func ValidateLoginRequest(req LoginRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.Email) == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	}
	if req.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	}

	return errs
}

// ChangePasswordRequest mirrors the fields needed for password change validation.
type ChangePasswordRequest struct {
	CurrentPassword string
	NewPassword     string
}

// ValidateChangePasswordRequest validates the fields of a password change request.
func ValidateChangePasswordRequest(req ChangePasswordRequest) []FieldError {
	var errs []FieldError

	if req.CurrentPassword == "" {
		errs = append(errs, FieldError{Field: "currentPassword", Message: "currentPassword is required"})
	}
	if req.NewPassword == "" {
		errs = append(errs, FieldError{Field: "newPassword", Message: "newPassword is required"})
	}

	return errs
}
