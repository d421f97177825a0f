package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/leadhub/leadhub/internal/api/middleware"
	"github.com/leadhub/leadhub/internal/api/response"
	"github.com/leadhub/leadhub/internal/api/validation"
	"github.com/leadhub/leadhub/internal/auth"
)

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// UserHandler handles the authenticated user profile endpoints.
type UserHandler struct {
	service *auth.Service
	repo    auth.Repository
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *auth.Service, repo auth.Repository) *UserHandler {
	return &UserHandler{service: service, repo: repo}
}

// Get handles GET /user.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	u, err := h.repo.GetByID(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			response.Err(w, http.StatusNotFound, "User not found")
			return
		}
		slog.Error("failed to fetch user", "error", err)
		response.Err(w, http.StatusInternalServerError, "Failed to fetch user data")
		return
	}

	response.JSON(w, http.StatusOK, toUserResponse(u))
}

// ChangePassword handles PUT /user.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "Request body must be valid JSON")
		return
	}

	fieldErrors := validation.ValidateChangePasswordRequest(validation.ChangePasswordRequest{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if len(fieldErrors) > 0 {
		response.Err(w, http.StatusBadRequest, fieldErrorMessage(fieldErrors))
		return
	}

	err := h.service.ChangePassword(r.Context(), identity.UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, auth.ErrWrongPassword) {
			response.Err(w, http.StatusBadRequest, "Current password is incorrect")
			return
		}
		slog.Error("failed to change password", "error", err)
		response.Err(w, http.StatusInternalServerError, "Failed to update password")
		return
	}

	response.JSON(w, http.StatusOK, messageResponse{Message: "Password updated successfully"})
}
