package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/leadhub/leadhub/internal/api/middleware"
	"github.com/leadhub/leadhub/internal/api/response"
	"github.com/leadhub/leadhub/internal/team"
)

type teamProfileResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
}

// TeamHandler handles the authenticated team profile endpoint.
type TeamHandler struct {
	repo team.Repository
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(repo team.Repository) *TeamHandler {
	return &TeamHandler{repo: repo}
}

// Get handles GET /team, returning the caller's own team.
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	t, err := h.repo.GetByID(r.Context(), identity.TeamID)
	if err != nil {
		if errors.Is(err, team.ErrTeamNotFound) {
			response.Err(w, http.StatusNotFound, "Team not found")
			return
		}
		slog.Error("failed to fetch team", "error", err)
		response.Err(w, http.StatusInternalServerError, "Failed to fetch team data")
		return
	}

	response.JSON(w, http.StatusOK, teamProfileResponse{
		ID:        t.ID.String(),
		Name:      t.Name,
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
	})
}
