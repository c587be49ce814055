package export

import (
	"context"
	"docflow/internal/models"
)

const pkg = "exportHandler/"

type AssignmentRenderer interface {
	RenderAssignment(ctx context.Context, requester *models.User, assignmentID string) ([]byte, string, error)
}

type BundleRenderer interface {
	RenderCompletedBundle(ctx context.Context, requester *models.User, documentID string) ([]byte, string, error)
}
