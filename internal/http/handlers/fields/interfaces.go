package fields

import (
	"context"
	"docflow/internal/dto"
	"docflow/internal/models"
)

const pkg = "fieldsHandler/"

type FieldCreator interface {
	CreateField(ctx context.Context, requester *models.User, docID string, req *dto.CreateFieldRequest) (*models.EditableField, error)
}

type FieldRemover interface {
	RemoveField(ctx context.Context, requester *models.User, fieldID string) error
}
