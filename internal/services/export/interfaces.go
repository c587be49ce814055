package exportservice

import (
	"context"
	"docflow/internal/models"
)

type AssignmentProvider interface {
	AssignmentByID(ctx context.Context, id string) (*models.Assignment, error)
	ListCompleted(ctx context.Context, documentID string) ([]*models.Assignment, error)
}

type DocumentProvider interface {
	DocumentByID(ctx context.Context, id string) (*models.Document, error)
}
