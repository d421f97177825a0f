package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/leadhub/leadhub/internal/api/response"
	"github.com/leadhub/leadhub/internal/api/validation"
	"github.com/leadhub/leadhub/internal/auth"
	"github.com/leadhub/leadhub/internal/team"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	TeamName string `json:"teamName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	TeamID   string `json:"teamId"`
	TeamName string `json:"teamName,omitempty"`
}

type teamResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type registerResponse struct {
	User userResponse `json:"user"`
	Team teamResponse `json:"team"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func toUserResponse(u *auth.User) userResponse {
	return userResponse{
		ID:       u.ID.String(),
		Name:     u.Name,
		Email:    u.Email,
		TeamID:   u.TeamID.String(),
		TeamName: u.TeamName,
	}
}

// AuthHandler handles registration and login endpoints.
type AuthHandler struct {
	service *auth.Service
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service *auth.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "Request body must be valid JSON")
		return
	}

	fieldErrors := validation.ValidateRegisterRequest(validation.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if len(fieldErrors) > 0 {
		response.Err(w, http.StatusBadRequest, fieldErrorMessage(fieldErrors))
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	name := strings.TrimSpace(req.Name)
	teamName := strings.TrimSpace(req.TeamName)

	u, t, err := h.service.Register(r.Context(), email, req.Password, name, teamName)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			response.Err(w, http.StatusConflict, "Email is already registered")
			return
		}
		slog.Error("failed to register user", "error", err)
		response.Err(w, http.StatusInternalServerError, "Failed to register user and team")
		return
	}

	response.JSON(w, http.StatusCreated, registerResponse{
		User: toUserResponse(u),
		Team: toTeamResponse(t),
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "Request body must be valid JSON")
		return
	}

	fieldErrors := validation.ValidateLoginRequest(validation.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if len(fieldErrors) > 0 {
		response.Err(w, http.StatusBadRequest, fieldErrorMessage(fieldErrors))
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))

	token, u, err := h.service.Login(r.Context(), email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			response.Err(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		slog.Error("failed to log in user", "error", err)
		response.Err(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	response.JSON(w, http.StatusOK, loginResponse{
		Token: token,
		User:  toUserResponse(u),
	})
}

func toTeamResponse(t *team.Team) teamResponse {
	return teamResponse{
		ID:   t.ID.String(),
		Name: t.Name,
	}
}

// fieldErrorMessage flattens field errors into a single human-readable
// message, matching the {"error": string} wire shape.
func fieldErrorMessage(errs []validation.FieldError) string {
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, e.Message)
	}
	return strings.Join(messages, "; ")
}
