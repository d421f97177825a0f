package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadhub/leadhub/internal/api/handler"
	"github.com/leadhub/leadhub/internal/api/middleware"
	"github.com/leadhub/leadhub/internal/auth"
	"github.com/leadhub/leadhub/internal/lead"
)

// --- Mock Lead Repository ---

type mockLeadRepo struct {
	createFn func(ctx context.Context, l *lead.Lead) error
	listFn   func(ctx context.Context, teamID uuid.UUID) ([]lead.Lead, error)
	updateFn func(ctx context.Context, teamID, id uuid.UUID, fields lead.UpdateFields) (*lead.Lead, error)
	deleteFn func(ctx context.Context, teamID, id uuid.UUID) (*lead.Lead, error)
	statsFn  func(ctx context.Context, teamID uuid.UUID) (*lead.Stats, error)

	createCalls int
}

func (m *mockLeadRepo) Create(ctx context.Context, l *lead.Lead) error {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, l)
	}
	l.ID = uuid.New()
	l.CreatedAt = time.Now().UTC()
	l.UpdatedAt = l.CreatedAt
	return nil
}

func (m *mockLeadRepo) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]lead.Lead, error) {
	if m.listFn != nil {
		return m.listFn(ctx, teamID)
	}
	return []lead.Lead{}, nil
}

func (m *mockLeadRepo) Update(ctx context.Context, teamID, id uuid.UUID, fields lead.UpdateFields) (*lead.Lead, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, teamID, id, fields)
	}
	return nil, lead.ErrLeadNotFound
}

func (m *mockLeadRepo) Delete(ctx context.Context, teamID, id uuid.UUID) (*lead.Lead, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, teamID, id)
	}
	return nil, lead.ErrLeadNotFound
}

func (m *mockLeadRepo) Stats(ctx context.Context, teamID uuid.UUID) (*lead.Stats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx, teamID)
	}
	return &lead.Stats{}, nil
}

// --- Helpers ---

func makeAuthRequest(method, path string, body []byte, identity *auth.Identity) (*http.Request, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Content-Type", "application/json")

	if identity != nil {
		req = req.WithContext(middleware.WithIdentity(req.Context(), identity))
	}

	return req, httptest.NewRecorder()
}

func parseBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &body)
	require.NoError(t, err, "failed to parse response body")
	return body
}

func testIdentity() *auth.Identity {
	return &auth.Identity{UserID: uuid.New(), TeamID: uuid.New()}
}

func sampleLead(teamID uuid.UUID) *lead.Lead {
	now := time.Now().UTC()
	return &lead.Lead{
		ID:        uuid.New(),
		Title:     "Deal",
		Status:    lead.StatusNew,
		TeamID:    teamID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ===== POST /leads =====

func TestLeadCreate_Success(t *testing.T) {
	t.Parallel()

	identity := testIdentity()
	var created *lead.Lead
	repo := &mockLeadRepo{
		createFn: func(_ context.Context, l *lead.Lead) error {
			l.ID = uuid.New()
			l.CreatedAt = time.Now().UTC()
			l.UpdatedAt = l.CreatedAt
			created = l
			return nil
		},
	}
	h := handler.NewLeadHandler(repo)

	body, _ := json.Marshal(map[string]interface{}{
		"title":  "Deal",
		"status": "Ny",
	})
	req, w := makeAuthRequest(http.MethodPost, "/leads", body, identity)

	h.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, created)
	assert.Equal(t, identity.TeamID, created.TeamID)

	data := parseBody(t, w)
	assert.Equal(t, "Deal", data["title"])
	assert.Equal(t, "Ny", data["status"])
	assert.Equal(t, identity.TeamID.String(), data["teamId"])
	assert.NotEmpty(t, data["id"])
}

func TestLeadCreate_MissingTitle(t *testing.T) {
	t.Parallel()

	repo := &mockLeadRepo{}
	h := handler.NewLeadHandler(repo)

	body, _ := json.Marshal(map[string]interface{}{"status": "Ny"})
	req, w := makeAuthRequest(http.MethodPost, "/leads", body, testIdentity())

	h.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, repo.createCalls, "nothing should be persisted")
}

func TestLeadCreate_MissingStatus(t *testing.T) {
	t.Parallel()

	repo := &mockLeadRepo{}
	h := handler.NewLeadHandler(repo)

	body, _ := json.Marshal(map[string]interface{}{"title": "Deal"})
	req, w := makeAuthRequest(http.MethodPost, "/leads", body, testIdentity())

	h.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, repo.createCalls)
}

func TestLeadCreate_UnknownStatus(t *testing.T) {
	t.Parallel()

	repo := &mockLeadRepo{}
	h := handler.NewLeadHandler(repo)

	body, _ := json.Marshal(map[string]interface{}{"title": "Deal", "status": "Okänd"})
	req, w := makeAuthRequest(http.MethodPost, "/leads", body, testIdentity())

	h.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, repo.createCalls)
}

func TestLeadCreate_CallerCannotChooseTeam(t *testing.T) {
	t.Parallel()

	identity := testIdentity()
	var created *lead.Lead
	repo := &mockLeadRepo{
		createFn: func(_ context.Context, l *lead.Lead) error {
			l.ID = uuid.New()
			created = l
			return nil
		},
	}
	h := handler.NewLeadHandler(repo)

	// A teamId in the body is not part of the request shape and is ignored.
	body, _ := json.Marshal(map[string]interface{}{
		"title":  "Deal",
		"status": "Ny",
		"teamId": uuid.New().String(),
	})
	req, w := makeAuthRequest(http.MethodPost, "/leads", body, identity)

	h.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, created)
	assert.Equal(t, identity.TeamID, created.TeamID)
}

func TestLeadCreate_InvalidJSON(t *testing.T) {
	t.Parallel()

	h := handler.NewLeadHandler(&mockLeadRepo{})
	req, w := makeAuthRequest(http.MethodPost, "/leads", []byte("{not json"), testIdentity())

	h.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ===== GET /leads =====

func TestLeadList_ScopedToIdentityTeam(t *testing.T) {
	t.Parallel()

	identity := testIdentity()
	var requestedTeam uuid.UUID
	repo := &mockLeadRepo{
		listFn: func(_ context.Context, teamID uuid.UUID) ([]lead.Lead, error) {
			requestedTeam = teamID
			return []lead.Lead{*sampleLead(teamID)}, nil
		},
	}
	h := handler.NewLeadHandler(repo)

	req, w := makeAuthRequest(http.MethodGet, "/leads", nil, identity)

	h.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, identity.TeamID, requestedTeam)

	var items []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, identity.TeamID.String(), items[0]["teamId"])
}

func TestLeadList_Empty(t *testing.T) {
	t.Parallel()

	h := handler.NewLeadHandler(&mockLeadRepo{})
	req, w := makeAuthRequest(http.MethodGet, "/leads", nil, testIdentity())

	h.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

// ===== PUT /leads?id= =====

func TestLeadUpdate_Success(t *testing.T) {
	t.Parallel()

	identity := testIdentity()
	existing := sampleLead(identity.TeamID)

	repo := &mockLeadRepo{
		updateFn: func(_ context.Context, teamID, id uuid.UUID, fields lead.UpdateFields) (*lead.Lead, error) {
			require.Equal(t, identity.TeamID, teamID)
			require.Equal(t, existing.ID, id)
			updated := *existing
			if fields.Title != nil {
				updated.Title = *fields.Title
			}
			if fields.Status != nil {
				updated.Status = *fields.Status
			}
			updated.UpdatedAt = time.Now().UTC()
			return &updated, nil
		},
	}
	h := handler.NewLeadHandler(repo)

	body, _ := json.Marshal(map[string]interface{}{"title": "Renamed", "status": "Kvalificerad"})
	req, w := makeAuthRequest(http.MethodPut, "/leads?id="+existing.ID.String(), body, identity)

	h.Update(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := parseBody(t, w)
	assert.Equal(t, "Renamed", data["title"])
	assert.Equal(t, "Kvalificerad", data["status"])
}

func TestLeadUpdate_MissingID(t *testing.T) {
	t.Parallel()

	h := handler.NewLeadHandler(&mockLeadRepo{})
	body, _ := json.Marshal(map[string]interface{}{"title": "x"})
	req, w := makeAuthRequest(http.MethodPut, "/leads", body, testIdentity())

	h.Update(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	data := parseBody(t, w)
	assert.Equal(t, "ID is required", data["error"])
}

func TestLeadUpdate_NotFound(t *testing.T) {
	t.Parallel()

	h := handler.NewLeadHandler(&mockLeadRepo{})
	body, _ := json.Marshal(map[string]interface{}{"title": "x"})
	req, w := makeAuthRequest(http.MethodPut, "/leads?id="+uuid.NewString(), body, testIdentity())

	h.Update(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	data := parseBody(t, w)
	assert.Equal(t, "Lead not found", data["error"])
}

func TestLeadUpdate_UnknownStatus(t *testing.T) {
	t.Parallel()

	h := handler.NewLeadHandler(&mockLeadRepo{})
	body, _ := json.Marshal(map[string]interface{}{"status": "Stängd"})
	req, w := makeAuthRequest(http.MethodPut, "/leads?id="+uuid.NewString(), body, testIdentity())

	h.Update(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ===== DELETE /leads?id= =====

func TestLeadDelete_ReturnsSnapshot(t *testing.T) {
	t.Parallel()

	identity := testIdentity()
	existing := sampleLead(identity.TeamID)

	repo := &mockLeadRepo{
		deleteFn: func(_ context.Context, teamID, id uuid.UUID) (*lead.Lead, error) {
			require.Equal(t, identity.TeamID, teamID)
			require.Equal(t, existing.ID, id)
			return existing, nil
		},
	}
	h := handler.NewLeadHandler(repo)

	req, w := makeAuthRequest(http.MethodDelete, "/leads?id="+existing.ID.String(), nil, identity)

	h.Delete(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := parseBody(t, w)
	assert.Equal(t, existing.ID.String(), data["id"])
	assert.Equal(t, "Deal", data["title"])
}

func TestLeadDelete_NotFound(t *testing.T) {
	t.Parallel()

	h := handler.NewLeadHandler(&mockLeadRepo{})
	req, w := makeAuthRequest(http.MethodDelete, "/leads?id="+uuid.NewString(), nil, testIdentity())

	h.Delete(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLeadDelete_InvalidID(t *testing.T) {
	t.Parallel()

	h := handler.NewLeadHandler(&mockLeadRepo{})
	req, w := makeAuthRequest(http.MethodDelete, "/leads?id=not-a-uuid", nil, testIdentity())

	h.Delete(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ===== GET /leads/stats =====

func TestLeadStats(t *testing.T) {
	t.Parallel()

	identity := testIdentity()
	repo := &mockLeadRepo{
		statsFn: func(_ context.Context, teamID uuid.UUID) (*lead.Stats, error) {
			require.Equal(t, identity.TeamID, teamID)
			return &lead.Stats{Total: 5, Open: 3, Closed: 1}, nil
		},
	}
	h := handler.NewLeadHandler(repo)

	req, w := makeAuthRequest(http.MethodGet, "/leads/stats", nil, identity)

	h.Stats(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := parseBody(t, w)
	assert.Equal(t, float64(5), data["total"])
	assert.Equal(t, float64(3), data["open"])
	assert.Equal(t, float64(1), data["closed"])
}
