package export

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"docflow/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockAssignmentRenderer struct {
	mock.Mock
}

func (m *mockAssignmentRenderer) RenderAssignment(ctx context.Context, requester *models.User, assignmentID string) ([]byte, string, error) {
	args := m.Called(ctx, requester, assignmentID)
	if b := args.Get(0); b != nil {
		return b.([]byte), args.String(1), args.Error(2)
	}
	return nil, args.String(1), args.Error(2)
}

type mockBundleRenderer struct {
	mock.Mock
}

func (m *mockBundleRenderer) RenderCompletedBundle(ctx context.Context, requester *models.User, documentID string) ([]byte, string, error) {
	args := m.Called(ctx, requester, documentID)
	if b := args.Get(0); b != nil {
		return b.([]byte), args.String(1), args.Error(2)
	}
	return nil, args.String(1), args.Error(2)
}

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func withUser(req *http.Request, user *models.User) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), models.UserContextKey, user))
}

func TestDownload_Success(t *testing.T) {
	t.Parallel()

	owner := &models.User{ID: "u1", Login: "alice", Role: models.RoleUser}

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/assignments/a1/download", nil), owner)
	w := httptest.NewRecorder()

	renderer := new(mockAssignmentRenderer)
	renderer.On("RenderAssignment", mock.Anything, owner, "a1").
		Return([]byte("docx-bytes"), "Contract_alice.docx", nil)

	Download(req.Context(), testLogger, w, req, "a1", renderer)

	resp := w.Result()
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, docxMIME, resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Contract_alice.docx"`, resp.Header.Get("Content-Disposition"))

	body, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	assert.Equal(t, []byte("docx-bytes"), body)

	renderer.AssertExpectations(t)
}

func TestDownload_NoRequester(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/assignments/a1/download", nil)
	w := httptest.NewRecorder()

	Download(req.Context(), testLogger, w, req, "a1", new(mockAssignmentRenderer))

	resp := w.Result()
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestDownload_NotFound(t *testing.T) {
	t.Parallel()

	owner := &models.User{ID: "u1", Role: models.RoleUser}

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/assignments/ghost/download", nil), owner)
	w := httptest.NewRecorder()

	renderer := new(mockAssignmentRenderer)
	renderer.On("RenderAssignment", mock.Anything, owner, "ghost").
		Return(nil, "", models.ErrAssignmentNotFound)

	Download(req.Context(), testLogger, w, req, "ghost", renderer)

	resp := w.Result()
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDownload_NotOwner(t *testing.T) {
	t.Parallel()

	stranger := &models.User{ID: "u2", Role: models.RoleUser}

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/assignments/a1/download", nil), stranger)
	w := httptest.NewRecorder()

	renderer := new(mockAssignmentRenderer)
	renderer.On("RenderAssignment", mock.Anything, stranger, "a1").
		Return(nil, "", models.ErrForbidden)

	Download(req.Context(), testLogger, w, req, "a1", renderer)

	resp := w.Result()
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestDownloadBundle_Success(t *testing.T) {
	t.Parallel()

	admin := &models.User{ID: "a1", Role: models.RoleAdmin}

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/assignments/completed/archive?document_id=doc1", nil), admin)
	w := httptest.NewRecorder()

	renderer := new(mockBundleRenderer)
	renderer.On("RenderCompletedBundle", mock.Anything, admin, "doc1").
		Return([]byte("zip-bytes"), "completed_assignments.zip", nil)

	DownloadBundle(req.Context(), testLogger, w, req, renderer)

	resp := w.Result()
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, zipMIME, resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename="completed_assignments.zip"`, resp.Header.Get("Content-Disposition"))

	renderer.AssertExpectations(t)
}

func TestDownloadBundle_Forbidden(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: "u1", Role: models.RoleUser}

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/assignments/completed/archive", nil), user)
	w := httptest.NewRecorder()

	renderer := new(mockBundleRenderer)
	renderer.On("RenderCompletedBundle", mock.Anything, user, "").
		Return(nil, "", models.ErrForbidden)

	DownloadBundle(req.Context(), testLogger, w, req, renderer)

	resp := w.Result()
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
