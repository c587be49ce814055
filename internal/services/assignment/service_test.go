package assignmentservice

import (
	"context"
	"docflow/internal/models"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAssignmentRepo struct {
	mock.Mock
}

func (m *MockAssignmentRepo) CreateAssignment(ctx context.Context, a *models.Assignment) (bool, error) {
	args := m.Called(ctx, a)
	return args.Bool(0), args.Error(1)
}

func (m *MockAssignmentRepo) AssignmentByID(ctx context.Context, id string) (*models.Assignment, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.Assignment), args.Error(1)
}

func (m *MockAssignmentRepo) ListByUser(ctx context.Context, userID string) ([]*models.Assignment, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*models.Assignment), args.Error(1)
}

func (m *MockAssignmentRepo) ListCompleted(ctx context.Context, documentID string) ([]*models.Assignment, error) {
	args := m.Called(ctx, documentID)
	return args.Get(0).([]*models.Assignment), args.Error(1)
}

func (m *MockAssignmentRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAssignmentRepo) UpsertValues(ctx context.Context, assignmentID string, values []models.FieldValue) error {
	args := m.Called(ctx, assignmentID, values)
	return args.Error(0)
}

func (m *MockAssignmentRepo) Start(ctx context.Context, id string, startedAt time.Time) error {
	args := m.Called(ctx, id, startedAt)
	return args.Error(0)
}

func (m *MockAssignmentRepo) Complete(ctx context.Context, id string, completedAt time.Time) (bool, error) {
	args := m.Called(ctx, id, completedAt)
	return args.Bool(0), args.Error(1)
}

type MockDocProvider struct {
	mock.Mock
}

func (m *MockDocProvider) DocumentByID(ctx context.Context, id string) (*models.Document, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockDocProvider) FieldsByDocument(ctx context.Context, docID string) ([]models.EditableField, error) {
	args := m.Called(ctx, docID)
	return args.Get(0).([]models.EditableField), args.Error(1)
}

func (m *MockDocProvider) MarkSent(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUserProvider struct {
	mock.Mock
}

func (m *MockUserProvider) UserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.User), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Del(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func newService(repo *MockAssignmentRepo, docs *MockDocProvider, users *MockUserProvider, cache *MockCache) *AssignmentService {
	return New(slog.Default(), repo, docs, users, cache)
}

var (
	admin = &models.User{ID: "adminID", Login: "admin", Role: models.RoleAdmin}
	plain = &models.User{ID: "userID", Login: "user", Role: models.RoleUser}
)

func testDoc() *models.Document {
	return &models.Document{
		ID:        "docID",
		Name:      "contract",
		CreatedBy: "adminID",
		Status:    models.DocumentStatusDraft,
		Fields: []models.EditableField{
			{ID: "f1", DocumentID: "docID", FieldID: "field_aaaa"},
		},
	}
}

func TestAssignDocument_NotAdmin(t *testing.T) {
	t.Parallel()

	service := newService(new(MockAssignmentRepo), new(MockDocProvider), new(MockUserProvider), new(MockCache))

	created, skipped, err := service.AssignDocument(context.Background(), plain, "docID", []string{"u1"})
	assert.ErrorIs(t, err, models.ErrForbidden)
	assert.Zero(t, created)
	assert.Zero(t, skipped)
}

func TestAssignDocument_EmptyUserList(t *testing.T) {
	t.Parallel()

	service := newService(new(MockAssignmentRepo), new(MockDocProvider), new(MockUserProvider), new(MockCache))

	_, _, err := service.AssignDocument(context.Background(), admin, "docID", nil)
	assert.ErrorIs(t, err, models.ErrEmptyUserList)
}

func TestAssignDocument_DocumentNotFound(t *testing.T) {
	t.Parallel()

	mockDocs := new(MockDocProvider)
	service := newService(new(MockAssignmentRepo), mockDocs, new(MockUserProvider), new(MockCache))

	mockDocs.On("DocumentByID", mock.Anything, "missing").Return((*models.Document)(nil), models.ErrDocumentNotFound)

	_, _, err := service.AssignDocument(context.Background(), admin, "missing", []string{"u1"})
	assert.ErrorIs(t, err, models.ErrDocumentNotFound)
}

func TestAssignDocument_NoEditableFields(t *testing.T) {
	t.Parallel()

	mockDocs := new(MockDocProvider)
	service := newService(new(MockAssignmentRepo), mockDocs, new(MockUserProvider), new(MockCache))

	doc := testDoc()
	doc.Fields = nil

	mockDocs.On("DocumentByID", mock.Anything, "docID").Return(doc, nil)

	_, _, err := service.AssignDocument(context.Background(), admin, "docID", []string{"u1"})
	assert.ErrorIs(t, err, models.ErrNoEditableFields)
}

func TestAssignDocument_MixedBatch(t *testing.T) {
	t.Parallel()

	mockRepo := new(MockAssignmentRepo)
	mockDocs := new(MockDocProvider)
	mockUsers := new(MockUserProvider)
	mockCache := new(MockCache)
	service := newService(mockRepo, mockDocs, mockUsers, mockCache)

	mockDocs.On("DocumentByID", mock.Anything, "docID").Return(testDoc(), nil)

	mockUsers.On("UserByID", mock.Anything, "u1").Return(&models.User{ID: "u1"}, nil)
	mockUsers.On("UserByID", mock.Anything, "ghost").Return((*models.User)(nil), models.ErrUserNotFound)
	mockUsers.On("UserByID", mock.Anything, "u2").Return(&models.User{ID: "u2"}, nil)

	mockRepo.On("CreateAssignment", mock.Anything, mock.MatchedBy(func(a *models.Assignment) bool {
		return a.UserID == "u1" && a.Status == models.AssignmentStatusPending
	})).Return(true, nil)
	// u2 already holds an assignment for the document
	mockRepo.On("CreateAssignment", mock.Anything, mock.MatchedBy(func(a *models.Assignment) bool {
		return a.UserID == "u2"
	})).Return(false, nil)

	mockDocs.On("MarkSent", mock.Anything, "docID").Return(nil)
	mockCache.On("Del", mock.Anything, mock.Anything).Return(nil)

	created, skipped, err := service.AssignDocument(context.Background(), admin, "docID", []string{"u1", "ghost", "u2"})
	assert.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, 2, skipped)

	mockDocs.AssertCalled(t, "MarkSent", mock.Anything, "docID")
}

func TestAssignDocument_AllSkippedLeavesStatus(t *testing.T) {
	t.Parallel()

	mockRepo := new(MockAssignmentRepo)
	mockDocs := new(MockDocProvider)
	mockUsers := new(MockUserProvider)
	service := newService(mockRepo, mockDocs, mockUsers, new(MockCache))

	mockDocs.On("DocumentByID", mock.Anything, "docID").Return(testDoc(), nil)
	mockUsers.On("UserByID", mock.Anything, "u1").Return(&models.User{ID: "u1"}, nil)
	mockRepo.On("CreateAssignment", mock.Anything, mock.Anything).Return(false, nil)

	created, skipped, err := service.AssignDocument(context.Background(), admin, "docID", []string{"u1"})
	assert.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, 1, skipped)

	mockDocs.AssertNotCalled(t, "MarkSent", mock.Anything, mock.Anything)
}

func TestSubmitValues_UnknownKeyRejectsBatch(t *testing.T) {
	t.Parallel()

	mockRepo := new(MockAssignmentRepo)
	mockDocs := new(MockDocProvider)
	service := newService(mockRepo, mockDocs, new(MockUserProvider), new(MockCache))

	assignment := &models.Assignment{ID: "a1", DocumentID: "docID", UserID: "userID", Status: models.AssignmentStatusPending}

	mockRepo.On("AssignmentByID", mock.Anything, "a1").Return(assignment, nil)
	mockDocs.On("FieldsByDocument", mock.Anything, "docID").Return([]models.EditableField{
		{ID: "f1", FieldID: "field_aaaa"},
	}, nil)

	err := service.SubmitValues(context.Background(), plain, "a1", map[string]string{
		"field_aaaa": "ok",
		"field_zzzz": "nope",
	})
	assert.ErrorIs(t, err, models.ErrUnknownFieldKey)

	mockRepo.AssertNotCalled(t, "UpsertValues", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitValues_CompletedAssignment(t *testing.T) {
	t.Parallel()

	mockRepo := new(MockAssignmentRepo)
	service := newService(mockRepo, new(MockDocProvider), new(MockUserProvider), new(MockCache))

	assignment := &models.Assignment{ID: "a1", DocumentID: "docID", UserID: "userID", Status: models.AssignmentStatusCompleted}

	mockRepo.On("AssignmentByID", mock.Anything, "a1").Return(assignment, nil)

	err := service.SubmitValues(context.Background(), plain, "a1", map[string]string{"field_aaaa": "v"})
	assert.ErrorIs(t, err, models.ErrAssignmentCompleted)
}

func TestSubmitValues_ForeignAssignment(t *testing.T) {
	t.Parallel()

	mockRepo := new(MockAssignmentRepo)
	service := newService(mockRepo, new(MockDocProvider), new(MockUserProvider), new(MockCache))

	assignment := &models.Assignment{ID: "a1", DocumentID: "docID", UserID: "someoneElse", Status: models.AssignmentStatusPending}

	mockRepo.On("AssignmentByID", mock.Anything, "a1").Return(assignment, nil)

	err := service.SubmitValues(context.Background(), plain, "a1", map[string]string{"field_aaaa": "v"})
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestSubmitValues_EmptyBatch(t *testing.T) {
	t.Parallel()

	mockRepo := new(MockAssignmentRepo)
	service := newService(mockRepo, new(MockDocProvider), new(MockUserProvider), new(MockCache))

	assignment := &models.Assignment{ID: "a1", DocumentID: "docID", UserID: "userID", Status: models.AssignmentStatusPending}

	mockRepo.On("AssignmentByID", mock.Anything, "a1").Return(assignment, nil)

	err := service.SubmitValues(context.Background(), plain, "a1", map[string]string{})
	assert.ErrorIs(t, err, models.ErrInvalidParams)
}

func TestSubmitValues_PendingStarts(t *testing.T) {
	t.Parallel()

	mockRepo := new(MockAssignmentRepo)
	mockDocs := new(MockDocProvider)
	service := newService(mockRepo, mockDocs, new(MockUserProvider), new(MockCache))

	assignment := &models.Assignment{ID: "a1", DocumentID: "docID", UserID: "userID", Status: models.AssignmentStatusPending}

	mockRepo.On("AssignmentByID", mock.Anything, "a1").Return(assignment, nil)
	mockDocs.On("FieldsByDocument", mock.Anything, "docID").Return([]models.EditableField{
		{ID: "f1", FieldID: "field_aaaa"},
	}, nil)
	mockRepo.On("UpsertValues", mock.Anything, "a1", mock.MatchedBy(func(batch []models.FieldValue) bool {
		return len(batch) == 1 && batch[0].FieldID == "f1" && batch[0].Value == "hello"
	})).Return(nil)
	mockRepo.On("Start", mock.Anything, "a1", mock.Anything).Return(nil)

	err := service.SubmitValues(context.Background(), plain, "a1", map[string]string{"field_aaaa": "hello"})
	assert.NoError(t, err)

	mockRepo.AssertCalled(t, "Start", mock.Anything, "a1", mock.Anything)
}

func TestSubmitValues_InProgressDoesNotRestart(t *testing.T) {
	t.Parallel()

	mockRepo := new(MockAssignmentRepo)
	mockDocs := new(MockDocProvider)
	service := newService(mockRepo, mockDocs, new(MockUserProvider), new(MockCache))

	assignment := &models.Assignment{ID: "a1", DocumentID: "docID", UserID: "userID", Status: models.AssignmentStatusInProgress}

	mockRepo.On("AssignmentByID", mock.Anything, "a1").Return(assignment, nil)
	mockDocs.On("FieldsByDocument", mock.Anything, "docID").Return([]models.EditableField{
		{ID: "f1", FieldID: "field_aaaa"},
	}, nil)
	mockRepo.On("UpsertValues", mock.Anything, "a1", mock.Anything).Return(nil)

	err := service.SubmitValues(context.Background(), plain, "a1", map[string]string{"field_aaaa": "again"})
	assert.NoError(t, err)

	mockRepo.AssertNotCalled(t, "Start", mock.Anything, mock.Anything, mock.Anything)
}

func TestCompleteAssignment_UnfilledField(t *testing.T) {
	t.Parallel()

	mockRepo := new(MockAssignmentRepo)
	mockDocs := new(MockDocProvider)
	service := newService(mockRepo, mockDocs, new(MockUserProvider), new(MockCache))

	assignment := &models.Assignment{
		ID: "a1", DocumentID: "docID", UserID: "userID", Status: models.AssignmentStatusInProgress,
		Values: []models.FieldValue{{FieldID: "f1", Value: "set"}},
	}

	mockRepo.On("AssignmentByID", mock.Anything, "a1").Return(assignment, nil)
	mockDocs.On("FieldsByDocument", mock.Anything, "docID").Return([]models.EditableField{
		{ID: "f1", FieldID: "field_aaaa"},
		{ID: "f2", FieldID: "field_bbbb"},
	}, nil)

	err := service.CompleteAssignment(context.Background(), plain, "a1")
	assert.ErrorIs(t, err, models.ErrFieldsUnfilled)

	mockRepo.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
}

func TestCompleteAssignment_Success(t *testing.T) {
	t.Parallel()

	mockRepo := new(MockAssignmentRepo)
	mockDocs := new(MockDocProvider)
	service := newService(mockRepo, mockDocs, new(MockUserProvider), new(MockCache))

	assignment := &models.Assignment{
		ID: "a1", DocumentID: "docID", UserID: "userID", Status: models.AssignmentStatusInProgress,
		Values: []models.FieldValue{{FieldID: "f1", Value: "set"}},
	}

	mockRepo.On("AssignmentByID", mock.Anything, "a1").Return(assignment, nil)
	mockDocs.On("FieldsByDocument", mock.Anything, "docID").Return([]models.EditableField{
		{ID: "f1", FieldID: "field_aaaa"},
	}, nil)
	mockRepo.On("Complete", mock.Anything, "a1", mock.Anything).Return(true, nil)

	err := service.CompleteAssignment(context.Background(), plain, "a1")
	assert.NoError(t, err)
}

func TestCompleteAssignment_ConcurrentLoser(t *testing.T) {
	t.Parallel()

	mockRepo := new(MockAssignmentRepo)
	mockDocs := new(MockDocProvider)
	service := newService(mockRepo, mockDocs, new(MockUserProvider), new(MockCache))

	assignment := &models.Assignment{
		ID: "a1", DocumentID: "docID", UserID: "userID", Status: models.AssignmentStatusInProgress,
		Values: []models.FieldValue{{FieldID: "f1", Value: "set"}},
	}

	mockRepo.On("AssignmentByID", mock.Anything, "a1").Return(assignment, nil)
	mockDocs.On("FieldsByDocument", mock.Anything, "docID").Return([]models.EditableField{
		{ID: "f1", FieldID: "field_aaaa"},
	}, nil)
	mockRepo.On("Complete", mock.Anything, "a1", mock.Anything).Return(false, nil)

	err := service.CompleteAssignment(context.Background(), plain, "a1")
	assert.ErrorIs(t, err, models.ErrAssignmentCompleted)
}

func TestDeleteAssignment_NotAdmin(t *testing.T) {
	t.Parallel()

	service := newService(new(MockAssignmentRepo), new(MockDocProvider), new(MockUserProvider), new(MockCache))

	err := service.DeleteAssignment(context.Background(), plain, "a1")
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestDeleteAssignment_Success(t *testing.T) {
	t.Parallel()

	mockRepo := new(MockAssignmentRepo)
	mockDocs := new(MockDocProvider)
	mockCache := new(MockCache)
	service := newService(mockRepo, mockDocs, new(MockUserProvider), mockCache)

	assignment := &models.Assignment{ID: "a1", DocumentID: "docID", UserID: "userID", Status: models.AssignmentStatusPending}

	mockRepo.On("AssignmentByID", mock.Anything, "a1").Return(assignment, nil)
	mockRepo.On("Delete", mock.Anything, "a1").Return(nil)
	mockDocs.On("DocumentByID", mock.Anything, "docID").Return(testDoc(), nil)
	mockCache.On("Del", mock.Anything, mock.Anything).Return(nil)

	err := service.DeleteAssignment(context.Background(), admin, "a1")
	assert.NoError(t, err)
}

func TestAssignmentsByUser_RepoError(t *testing.T) {
	t.Parallel()

	mockRepo := new(MockAssignmentRepo)
	service := newService(mockRepo, new(MockDocProvider), new(MockUserProvider), new(MockCache))

	mockRepo.On("ListByUser", mock.Anything, "userID").Return(([]*models.Assignment)(nil), errors.New("db down"))

	assignments, err := service.AssignmentsByUser(context.Background(), plain)
	assert.Nil(t, assignments)
	assert.ErrorIs(t, err, models.ErrInternal)
}

func TestCompletedAssignments_NotAdmin(t *testing.T) {
	t.Parallel()

	service := newService(new(MockAssignmentRepo), new(MockDocProvider), new(MockUserProvider), new(MockCache))

	_, err := service.CompletedAssignments(context.Background(), plain, "")
	assert.ErrorIs(t, err, models.ErrForbidden)
}
