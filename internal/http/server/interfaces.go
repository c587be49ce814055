package server

import (
	"context"
	"docflow/internal/dto"
	"docflow/internal/models"
	"io"
)

type AuthService interface {
	Register(ctx context.Context, login string, password string, token string) (string, error)
	Login(ctx context.Context, login string, password string) (string, error)
	UserByToken(ctx context.Context, token string) (*models.User, error)
	Logout(ctx context.Context, token string) error
}

type UserService interface {
	Users(ctx context.Context, requester *models.User, role string) ([]*models.User, error)
	SetRole(ctx context.Context, requester *models.User, userID string, role string) error
}

type DocumentService interface {
	UploadDocument(ctx context.Context, requester *models.User, name string, fileName string, content io.Reader) (*models.Document, error)
	DocumentByID(ctx context.Context, docID string, requester *models.User) (*models.Document, error)
	ListDocuments(ctx context.Context, requester *models.User, filter models.DocumentFilter) ([]*models.Document, error)
	Reprocess(ctx context.Context, docID string, requester *models.User) (*models.Document, error)
	DeleteDocument(ctx context.Context, docID string, requester *models.User) error
	CreateField(ctx context.Context, requester *models.User, docID string, req *dto.CreateFieldRequest) (*models.EditableField, error)
	RemoveField(ctx context.Context, requester *models.User, fieldID string) error
}

type AssignmentService interface {
	AssignDocument(ctx context.Context, requester *models.User, docID string, userIDs []string) (int, int, error)
	AssignmentsByUser(ctx context.Context, requester *models.User) ([]*models.Assignment, error)
	CompletedAssignments(ctx context.Context, requester *models.User, documentID string) ([]*models.Assignment, error)
	SubmitValues(ctx context.Context, requester *models.User, assignmentID string, values map[string]string) error
	CompleteAssignment(ctx context.Context, requester *models.User, assignmentID string) error
	DeleteAssignment(ctx context.Context, requester *models.User, assignmentID string) error
}

type ExportService interface {
	RenderAssignment(ctx context.Context, requester *models.User, assignmentID string) ([]byte, string, error)
	RenderCompletedBundle(ctx context.Context, requester *models.User, documentID string) ([]byte, string, error)
}

type SessionStorer interface {
	UserByToken(ctx context.Context, token string) (*models.User, error)
}
