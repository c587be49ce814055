package assignments

import (
	"context"
	"docflow/internal/models"
)

const pkg = "assignmentsHandler/"

type DocumentAssigner interface {
	AssignDocument(ctx context.Context, requester *models.User, docID string, userIDs []string) (int, int, error)
}

type AssignmentProvider interface {
	AssignmentsByUser(ctx context.Context, requester *models.User) ([]*models.Assignment, error)
	CompletedAssignments(ctx context.Context, requester *models.User, documentID string) ([]*models.Assignment, error)
}

type ValueSubmitter interface {
	SubmitValues(ctx context.Context, requester *models.User, assignmentID string, values map[string]string) error
}

type AssignmentCompleter interface {
	CompleteAssignment(ctx context.Context, requester *models.User, assignmentID string) error
}

type AssignmentDeleter interface {
	DeleteAssignment(ctx context.Context, requester *models.User, assignmentID string) error
}
