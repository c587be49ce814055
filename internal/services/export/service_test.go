package exportservice

import (
	"archive/zip"
	"bytes"
	"context"
	"docflow/internal/models"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAssignmentProvider struct {
	mock.Mock
}

func (m *MockAssignmentProvider) AssignmentByID(ctx context.Context, id string) (*models.Assignment, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.Assignment), args.Error(1)
}

func (m *MockAssignmentProvider) ListCompleted(ctx context.Context, documentID string) ([]*models.Assignment, error) {
	args := m.Called(ctx, documentID)
	return args.Get(0).([]*models.Assignment), args.Error(1)
}

type MockDocumentProvider struct {
	mock.Mock
}

func (m *MockDocumentProvider) DocumentByID(ctx context.Context, id string) (*models.Document, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.Document), args.Error(1)
}

var (
	admin = &models.User{ID: "adminID", Login: "admin", Role: models.RoleAdmin}
	plain = &models.User{ID: "userID", Login: "user", Role: models.RoleUser}
)

func TestFill_SplicesValuesOverSpans(t *testing.T) {
	t.Parallel()

	content := "Dear NAME, your order ORDER is ready."

	fields := []models.EditableField{
		{ID: "f1", Label: "Name", PositionStart: 5, PositionEnd: 9},
		{ID: "f2", Label: "Order", PositionStart: 22, PositionEnd: 27},
	}
	values := []models.FieldValue{
		{FieldID: "f1", Value: "Alice"},
		{FieldID: "f2", Value: "#42"},
	}

	got := Fill(content, fields, values)
	assert.Equal(t, "Dear Alice, your order #42 is ready.", got)
}

func TestFill_MissingValueFallsBackToPlaceholder(t *testing.T) {
	t.Parallel()

	content := "Hello NAME"

	fields := []models.EditableField{
		{ID: "f1", Label: "Name", Placeholder: "<name>", PositionStart: 6, PositionEnd: 10},
	}

	got := Fill(content, fields, nil)
	assert.Equal(t, "Hello <name>", got)
}

func TestFill_NoPlaceholderUsesLabel(t *testing.T) {
	t.Parallel()

	content := "Hello NAME"

	fields := []models.EditableField{
		{ID: "f1", Label: "Name", PositionStart: 6, PositionEnd: 10},
	}

	got := Fill(content, fields, nil)
	assert.Equal(t, "Hello [Name]", got)
}

func TestFill_OffsetsCountCharactersNotBytes(t *testing.T) {
	t.Parallel()

	// "ę" is two bytes; the span after it must still land on "Jan".
	content := "Imię: Jan, wiek: NN"

	fields := []models.EditableField{
		{ID: "f1", Label: "Imię", PositionStart: 6, PositionEnd: 9},
		{ID: "f2", Label: "Wiek", PositionStart: 17, PositionEnd: 19},
	}
	values := []models.FieldValue{
		{FieldID: "f1", Value: "Anna"},
		{FieldID: "f2", Value: "30"},
	}

	got := Fill(content, fields, values)
	assert.Equal(t, "Imię: Anna, wiek: 30", got)
}

func TestFill_StaleSpansClamped(t *testing.T) {
	t.Parallel()

	content := "short"

	fields := []models.EditableField{
		// starts inside, runs past the end
		{ID: "f1", Label: "Tail", PositionStart: 2, PositionEnd: 50},
		// starts past the end entirely
		{ID: "f2", Label: "Ghost", PositionStart: 100, PositionEnd: 120},
	}
	values := []models.FieldValue{
		{FieldID: "f1", Value: "ORT"},
		{FieldID: "f2", Value: "nope"},
	}

	got := Fill(content, fields, values)
	assert.Equal(t, "shORT", got)
}

func TestFill_AppliedBackToFront(t *testing.T) {
	t.Parallel()

	content := "AB"

	// replacement at 0 grows the string; the span at 1 must still hit "B"
	fields := []models.EditableField{
		{ID: "f1", PositionStart: 0, PositionEnd: 1},
		{ID: "f2", PositionStart: 1, PositionEnd: 2},
	}
	values := []models.FieldValue{
		{FieldID: "f1", Value: "longer"},
		{FieldID: "f2", Value: "X"},
	}

	got := Fill(content, fields, values)
	assert.Equal(t, "longerX", got)
}

func TestRenderAssignment_ForeignAssignment(t *testing.T) {
	t.Parallel()

	mockAssignments := new(MockAssignmentProvider)
	service := New(slog.Default(), mockAssignments, new(MockDocumentProvider))

	assignment := &models.Assignment{ID: "a1", DocumentID: "docID", UserID: "someoneElse"}

	mockAssignments.On("AssignmentByID", mock.Anything, "a1").Return(assignment, nil)

	_, _, err := service.RenderAssignment(context.Background(), plain, "a1")
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestRenderAssignment_NotFound(t *testing.T) {
	t.Parallel()

	mockAssignments := new(MockAssignmentProvider)
	service := New(slog.Default(), mockAssignments, new(MockDocumentProvider))

	mockAssignments.On("AssignmentByID", mock.Anything, "missing").Return((*models.Assignment)(nil), models.ErrAssignmentNotFound)

	_, _, err := service.RenderAssignment(context.Background(), plain, "missing")
	assert.ErrorIs(t, err, models.ErrAssignmentNotFound)
}

func TestRenderAssignment_Success(t *testing.T) {
	t.Parallel()

	mockAssignments := new(MockAssignmentProvider)
	mockDocs := new(MockDocumentProvider)
	service := New(slog.Default(), mockAssignments, mockDocs)

	assignment := &models.Assignment{
		ID: "a1", DocumentID: "docID", UserID: "userID", UserLogin: "user",
		Values: []models.FieldValue{{FieldID: "f1", Value: "Alice"}},
	}
	doc := &models.Document{
		ID: "docID", Name: "Offer Letter", Content: "Hello NAME",
		Fields: []models.EditableField{{ID: "f1", Label: "Name", PositionStart: 6, PositionEnd: 10}},
	}

	mockAssignments.On("AssignmentByID", mock.Anything, "a1").Return(assignment, nil)
	mockDocs.On("DocumentByID", mock.Anything, "docID").Return(doc, nil)

	payload, name, err := service.RenderAssignment(context.Background(), plain, "a1")
	require.NoError(t, err)
	assert.Equal(t, "Offer_Letter_user.docx", name)
	assert.NotEmpty(t, payload)

	zr, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	require.NoError(t, err)
	assert.NotEmpty(t, zr.File)
}

func TestRenderCompletedBundle_NotAdmin(t *testing.T) {
	t.Parallel()

	service := New(slog.Default(), new(MockAssignmentProvider), new(MockDocumentProvider))

	_, _, err := service.RenderCompletedBundle(context.Background(), plain, "")
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestRenderCompletedBundle_EmptyArchive(t *testing.T) {
	t.Parallel()

	mockAssignments := new(MockAssignmentProvider)
	service := New(slog.Default(), mockAssignments, new(MockDocumentProvider))

	mockAssignments.On("ListCompleted", mock.Anything, "").Return([]*models.Assignment{}, nil)

	payload, name, err := service.RenderCompletedBundle(context.Background(), admin, "")
	require.NoError(t, err)
	assert.Equal(t, "completed_assignments.zip", name)

	zr, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	require.NoError(t, err)
	assert.Empty(t, zr.File)
}

func TestRenderCompletedBundle_DuplicateNamesStayUnique(t *testing.T) {
	t.Parallel()

	mockAssignments := new(MockAssignmentProvider)
	mockDocs := new(MockDocumentProvider)
	service := New(slog.Default(), mockAssignments, mockDocs)

	doc := &models.Document{ID: "docID", Name: "Form", Content: "X"}

	completed := []*models.Assignment{
		{ID: "a1", DocumentID: "docID", UserID: "u1", UserLogin: "sam"},
		{ID: "a2", DocumentID: "docID", UserID: "u2", UserLogin: "sam"},
	}

	mockAssignments.On("ListCompleted", mock.Anything, "docID").Return(completed, nil)
	mockDocs.On("DocumentByID", mock.Anything, "docID").Return(doc, nil)

	payload, _, err := service.RenderCompletedBundle(context.Background(), admin, "docID")
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)

	assert.Equal(t, "Form_sam.docx", zr.File[0].Name)
	assert.Equal(t, "Form_sam_1.docx", zr.File[1].Name)
}
