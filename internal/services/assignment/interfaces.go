package assignmentservice

import (
	"context"
	"docflow/internal/models"
	"time"
)

type AssignmentRepository interface {
	CreateAssignment(ctx context.Context, a *models.Assignment) (bool, error)
	AssignmentByID(ctx context.Context, id string) (*models.Assignment, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Assignment, error)
	ListCompleted(ctx context.Context, documentID string) ([]*models.Assignment, error)
	Delete(ctx context.Context, id string) error
	UpsertValues(ctx context.Context, assignmentID string, values []models.FieldValue) error
	Start(ctx context.Context, id string, startedAt time.Time) error
	Complete(ctx context.Context, id string, completedAt time.Time) (bool, error)
}

type DocumentProvider interface {
	DocumentByID(ctx context.Context, id string) (*models.Document, error)
	FieldsByDocument(ctx context.Context, docID string) ([]models.EditableField, error)
	MarkSent(ctx context.Context, id string) error
}

type UserProvider interface {
	UserByID(ctx context.Context, id string) (*models.User, error)
}

type Cache interface {
	Del(ctx context.Context, keys ...string) error
}
