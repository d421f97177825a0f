package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/leadhub/leadhub/internal/api/middleware"
	"github.com/leadhub/leadhub/internal/api/response"
	"github.com/leadhub/leadhub/internal/api/validation"
	"github.com/leadhub/leadhub/internal/lead"
)

type createLeadRequest struct {
	Title     string  `json:"title"`
	Email     *string `json:"email"`
	Status    string  `json:"status"`
	Company   *string `json:"company"`
	Phone     *string `json:"phone"`
	Area      *string `json:"area"`
	Notes     *string `json:"notes"`
	ContactID *string `json:"contactId"`
}

type updateLeadRequest struct {
	Title     *string `json:"title"`
	Email     *string `json:"email"`
	Status    *string `json:"status"`
	Company   *string `json:"company"`
	Phone     *string `json:"phone"`
	Area      *string `json:"area"`
	Notes     *string `json:"notes"`
	ContactID *string `json:"contactId"`
}

type leadResponse struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Email        *string `json:"email"`
	Status       string  `json:"status"`
	Company      *string `json:"company"`
	Phone        *string `json:"phone"`
	Area         *string `json:"area"`
	Notes        *string `json:"notes"`
	ContactID    *string `json:"contactId"`
	ContactName  *string `json:"contactName,omitempty"`
	ContactEmail *string `json:"contactEmail,omitempty"`
	TeamID       string  `json:"teamId"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

type leadStatsResponse struct {
	Total  int `json:"total"`
	Open   int `json:"open"`
	Closed int `json:"closed"`
}

func toLeadResponse(l *lead.Lead) leadResponse {
	resp := leadResponse{
		ID:           l.ID.String(),
		Title:        l.Title,
		Email:        l.Email,
		Status:       string(l.Status),
		Company:      l.Company,
		Phone:        l.Phone,
		Area:         l.Area,
		Notes:        l.Notes,
		ContactName:  l.ContactName,
		ContactEmail: l.ContactEmail,
		TeamID:       l.TeamID.String(),
		CreatedAt:    l.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    l.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if l.ContactID != nil {
		s := l.ContactID.String()
		resp.ContactID = &s
	}
	return resp
}

// LeadHandler handles lead CRUD endpoints. Every operation takes its
// team scope from the authenticated identity, never from the request.
type LeadHandler struct {
	repo lead.Repository
}

// NewLeadHandler creates a new LeadHandler.
func NewLeadHandler(repo lead.Repository) *LeadHandler {
	return &LeadHandler{repo: repo}
}

// List handles GET /leads.
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	leads, err := h.repo.ListByTeam(r.Context(), identity.TeamID)
	if err != nil {
		slog.Error("failed to list leads", "error", err)
		response.Err(w, http.StatusInternalServerError, "Failed to fetch leads")
		return
	}

	items := make([]leadResponse, 0, len(leads))
	for i := range leads {
		items = append(items, toLeadResponse(&leads[i]))
	}

	response.JSON(w, http.StatusOK, items)
}

// Create handles POST /leads.
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "Request body must be valid JSON")
		return
	}

	fieldErrors := validation.ValidateLeadRequest(validation.LeadRequest{
		Title:  req.Title,
		Status: req.Status,
	})
	if len(fieldErrors) > 0 {
		response.Err(w, http.StatusBadRequest, fieldErrorMessage(fieldErrors))
		return
	}

	contactID, ok := parseOptionalUUID(w, req.ContactID)
	if !ok {
		return
	}

	l := &lead.Lead{
		Title:     req.Title,
		Email:     req.Email,
		Status:    lead.Status(req.Status),
		Company:   req.Company,
		Phone:     req.Phone,
		Area:      req.Area,
		Notes:     req.Notes,
		ContactID: contactID,
		TeamID:    identity.TeamID,
	}

	if err := h.repo.Create(r.Context(), l); err != nil {
		slog.Error("failed to create lead", "error", err)
		response.Err(w, http.StatusInternalServerError, "Failed to create lead")
		return
	}

	response.JSON(w, http.StatusCreated, toLeadResponse(l))
}

// Update handles PUT /leads?id=<id>.
func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	id, ok := queryID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "Request body must be valid JSON")
		return
	}

	if req.Status != nil {
		if fieldErrors := validation.ValidateLeadStatus(*req.Status); len(fieldErrors) > 0 {
			response.Err(w, http.StatusBadRequest, fieldErrorMessage(fieldErrors))
			return
		}
	}

	contactID, ok := parseOptionalUUID(w, req.ContactID)
	if !ok {
		return
	}

	fields := lead.UpdateFields{
		Title:     req.Title,
		Email:     req.Email,
		Company:   req.Company,
		Phone:     req.Phone,
		Area:      req.Area,
		Notes:     req.Notes,
		ContactID: contactID,
	}
	if req.Status != nil {
		status := lead.Status(*req.Status)
		fields.Status = &status
	}

	updated, err := h.repo.Update(r.Context(), identity.TeamID, id, fields)
	if err != nil {
		if errors.Is(err, lead.ErrLeadNotFound) {
			response.Err(w, http.StatusNotFound, "Lead not found")
			return
		}
		slog.Error("failed to update lead", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "Failed to update lead")
		return
	}

	response.JSON(w, http.StatusOK, toLeadResponse(updated))
}

// Delete handles DELETE /leads?id=<id>.
func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	id, ok := queryID(w, r)
	if !ok {
		return
	}

	deleted, err := h.repo.Delete(r.Context(), identity.TeamID, id)
	if err != nil {
		if errors.Is(err, lead.ErrLeadNotFound) {
			response.Err(w, http.StatusNotFound, "Lead not found")
			return
		}
		slog.Error("failed to delete lead", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "Failed to delete lead")
		return
	}

	response.JSON(w, http.StatusOK, toLeadResponse(deleted))
}

// Stats handles GET /leads/stats.
func (h *LeadHandler) Stats(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	stats, err := h.repo.Stats(r.Context(), identity.TeamID)
	if err != nil {
		slog.Error("failed to fetch lead stats", "error", err)
		response.Err(w, http.StatusInternalServerError, "Failed to fetch lead stats")
		return
	}

	response.JSON(w, http.StatusOK, leadStatsResponse{
		Total:  stats.Total,
		Open:   stats.Open,
		Closed: stats.Closed,
	})
}

// queryID reads and parses the required id query parameter, writing a
// 400 response when missing or malformed.
func queryID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := r.URL.Query().Get("id")
	if idStr == "" {
		response.Err(w, http.StatusBadRequest, "ID is required")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		response.Err(w, http.StatusBadRequest, "id must be a valid UUID")
		return uuid.Nil, false
	}

	return id, true
}

// parseOptionalUUID parses an optional UUID string field, writing a 400
// response when present but malformed.
func parseOptionalUUID(w http.ResponseWriter, s *string) (*uuid.UUID, bool) {
	if s == nil || *s == "" {
		return nil, true
	}

	id, err := uuid.Parse(*s)
	if err != nil {
		response.Err(w, http.StatusBadRequest, "contactId must be a valid UUID")
		return nil, false
	}

	return &id, true
}
