package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"docflow/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockSessionCreator struct {
	mock.Mock
}

func (m *mockSessionCreator) Login(ctx context.Context, login string, password string) (string, error) {
	args := m.Called(ctx, login, password)
	return args.String(0), args.Error(1)
}

func TestAdd_Success(t *testing.T) {
	t.Parallel()

	body := `{"login": "user1", "pswd": "pass123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth", strings.NewReader(body))
	w := httptest.NewRecorder()

	creator := new(mockSessionCreator)
	creator.On("Login", mock.Anything, "user1", "pass123").Return("tok-abc", nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	Add(req.Context(), logger, w, req, creator)

	resp := w.Result()
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed map[string]map[string]string
	err := json.NewDecoder(resp.Body).Decode(&parsed)
	assert.NoError(t, err)
	assert.Equal(t, "tok-abc", parsed["response"]["token"])
	creator.AssertExpectations(t)
}

func TestAdd_WrongPassword(t *testing.T) {
	t.Parallel()

	body := `{"login": "user1", "pswd": "wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth", strings.NewReader(body))
	w := httptest.NewRecorder()

	creator := new(mockSessionCreator)
	creator.On("Login", mock.Anything, "user1", "wrong").Return("", models.ErrInvalidCredentials)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	Add(req.Context(), logger, w, req, creator)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	creator.AssertExpectations(t)
}

func TestAdd_UnknownUserHidesReason(t *testing.T) {
	t.Parallel()

	body := `{"login": "ghost", "pswd": "whatever"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth", strings.NewReader(body))
	w := httptest.NewRecorder()

	creator := new(mockSessionCreator)
	creator.On("Login", mock.Anything, "ghost", "whatever").Return("", models.ErrUserNotFound)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	Add(req.Context(), logger, w, req, creator)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	creator.AssertExpectations(t)
}

type mockSessionDeleter struct {
	mock.Mock
}

func (m *mockSessionDeleter) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func TestDelete_Success(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodDelete, "/api/auth/tok-abc", nil)
	w := httptest.NewRecorder()

	deleter := new(mockSessionDeleter)
	deleter.On("Logout", mock.Anything, "tok-abc").Return(nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	Delete(req.Context(), logger, w, req, "tok-abc", deleter)

	resp := w.Result()
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed map[string]map[string]bool
	err := json.NewDecoder(resp.Body).Decode(&parsed)
	assert.NoError(t, err)
	assert.True(t, parsed["response"]["tok-abc"])
	deleter.AssertExpectations(t)
}

func TestDelete_MissingSessionStillOK(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodDelete, "/api/auth/stale", nil)
	w := httptest.NewRecorder()

	deleter := new(mockSessionDeleter)
	deleter.On("Logout", mock.Anything, "stale").Return(errors.New("session not found"))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	Delete(req.Context(), logger, w, req, "stale", deleter)

	assert.Equal(t, http.StatusOK, w.Code)
	deleter.AssertExpectations(t)
}
