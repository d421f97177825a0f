package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/leadhub/leadhub/internal/api/response"
	"github.com/leadhub/leadhub/internal/contact"
)

type contactRequest struct {
	Name  string  `json:"name"`
	Email *string `json:"email"`
}

type contactResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email *string `json:"email"`
}

func toContactResponse(c *contact.Contact) contactResponse {
	return contactResponse{
		ID:    c.ID.String(),
		Name:  c.Name,
		Email: c.Email,
	}
}

// ContactHandler handles contact CRUD endpoints.
type ContactHandler struct {
	repo contact.Repository
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(repo contact.Repository) *ContactHandler {
	return &ContactHandler{repo: repo}
}

// List handles GET /contacts.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.repo.List(r.Context())
	if err != nil {
		slog.Error("failed to list contacts", "error", err)
		response.Err(w, http.StatusInternalServerError, "Failed to fetch contacts")
		return
	}

	items := make([]contactResponse, 0, len(contacts))
	for i := range contacts {
		items = append(items, toContactResponse(&contacts[i]))
	}

	response.JSON(w, http.StatusOK, items)
}

// Create handles POST /contacts.
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "Request body must be valid JSON")
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		response.Err(w, http.StatusBadRequest, "name is required")
		return
	}

	c := &contact.Contact{Name: req.Name, Email: req.Email}
	if err := h.repo.Create(r.Context(), c); err != nil {
		slog.Error("failed to create contact", "error", err)
		response.Err(w, http.StatusInternalServerError, "Failed to create contact")
		return
	}

	response.JSON(w, http.StatusCreated, toContactResponse(c))
}

// Update handles PUT /contacts?id=<id>.
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "Request body must be valid JSON")
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		response.Err(w, http.StatusBadRequest, "name is required")
		return
	}

	updated, err := h.repo.Update(r.Context(), id, &contact.Contact{Name: req.Name, Email: req.Email})
	if err != nil {
		if errors.Is(err, contact.ErrContactNotFound) {
			response.Err(w, http.StatusNotFound, "Contact not found")
			return
		}
		slog.Error("failed to update contact", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "Failed to update contact")
		return
	}

	response.JSON(w, http.StatusOK, toContactResponse(updated))
}

// Delete handles DELETE /contacts?id=<id>.
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(w, r)
	if !ok {
		return
	}

	deleted, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, contact.ErrContactNotFound) {
			response.Err(w, http.StatusNotFound, "Contact not found")
			return
		}
		slog.Error("failed to delete contact", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "Failed to delete contact")
		return
	}

	response.JSON(w, http.StatusOK, toContactResponse(deleted))
}
