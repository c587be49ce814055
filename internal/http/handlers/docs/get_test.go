package docs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"docflow/internal/dto"
	"docflow/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) ListDocuments(ctx context.Context, requester *models.User, filter models.DocumentFilter) ([]*models.Document, error) {
	args := m.Called(ctx, requester, filter)
	if d := args.Get(0); d != nil {
		return d.([]*models.Document), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProvider) DocumentByID(ctx context.Context, docID string, requester *models.User) (*models.Document, error) {
	args := m.Called(ctx, docID, requester)
	if d := args.Get(0); d != nil {
		return d.(*models.Document), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestGet_Success(t *testing.T) {
	t.Parallel()

	admin := &models.User{ID: "a1", Role: models.RoleAdmin}

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/docs?key=status&value=draft&limit=10", nil), admin)
	w := httptest.NewRecorder()

	docs := []*models.Document{
		{ID: "doc1", Name: "Contract", Status: models.DocumentStatusDraft},
		{ID: "doc2", Name: "NDA", Status: models.DocumentStatusDraft},
	}

	provider := new(mockProvider)
	provider.On("ListDocuments", mock.Anything, admin, models.DocumentFilter{
		Key:   "status",
		Value: "draft",
		Limit: 10,
	}).Return(docs, nil)

	Get(req.Context(), testLogger, w, req, provider)

	resp := w.Result()
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed map[string]map[string][]dto.DocumentResponse
	err := json.NewDecoder(resp.Body).Decode(&parsed)
	assert.NoError(t, err)
	assert.Len(t, parsed["response"]["docs"], 2)
	assert.Equal(t, "doc1", parsed["response"]["docs"][0].ID)

	provider.AssertExpectations(t)
}

func TestGet_InvalidFilter(t *testing.T) {
	t.Parallel()

	admin := &models.User{ID: "a1", Role: models.RoleAdmin}

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/docs?key=owner&value=x", nil), admin)
	w := httptest.NewRecorder()

	provider := new(mockProvider)
	provider.On("ListDocuments", mock.Anything, admin, mock.Anything).Return(nil, models.ErrInvalidParams)

	Get(req.Context(), testLogger, w, req, provider)

	resp := w.Result()
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGet_NoRequester(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/docs", nil)
	w := httptest.NewRecorder()

	Get(req.Context(), testLogger, w, req, new(mockProvider))

	resp := w.Result()
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestGetByID_Success(t *testing.T) {
	t.Parallel()

	admin := &models.User{ID: "a1", Role: models.RoleAdmin}

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/docs/doc1", nil), admin)
	w := httptest.NewRecorder()

	doc := &models.Document{
		ID:     "doc1",
		Name:   "Contract",
		Status: models.DocumentStatusSent,
		Fields: []models.EditableField{
			{ID: "f1", FieldID: "field_aaaa", Label: "Name"},
		},
		AssignedCount: 3,
	}

	provider := new(mockProvider)
	provider.On("DocumentByID", mock.Anything, "doc1", admin).Return(doc, nil)

	GetByID(req.Context(), testLogger, w, req, "doc1", provider)

	resp := w.Result()
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed map[string]dto.DocumentResponse
	err := json.NewDecoder(resp.Body).Decode(&parsed)
	assert.NoError(t, err)
	assert.Equal(t, "doc1", parsed["response"].ID)
	assert.Equal(t, 3, parsed["response"].AssignedCount)
	assert.Len(t, parsed["response"].Fields, 1)

	provider.AssertExpectations(t)
}

func TestGetByID_NotFound(t *testing.T) {
	t.Parallel()

	admin := &models.User{ID: "a1", Role: models.RoleAdmin}

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/docs/ghost", nil), admin)
	w := httptest.NewRecorder()

	provider := new(mockProvider)
	provider.On("DocumentByID", mock.Anything, "ghost", admin).Return(nil, models.ErrDocumentNotFound)

	GetByID(req.Context(), testLogger, w, req, "ghost", provider)

	resp := w.Result()
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
