package documentservice

import (
	"context"
	"docflow/internal/models"
	"io"
	"time"
)

type DocumentRepository interface {
	CreateDocument(ctx context.Context, doc *models.Document) error
	DocumentByID(ctx context.Context, id string) (*models.Document, error)
	ListByCreator(ctx context.Context, creatorID string, filter models.DocumentFilter) ([]*models.Document, error)
	UpdateContent(ctx context.Context, id string, content string, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
	CreateField(ctx context.Context, field *models.EditableField) error
	FieldByID(ctx context.Context, id string) (*models.EditableField, error)
	FieldsByDocument(ctx context.Context, docID string) ([]models.EditableField, error)
	DeleteField(ctx context.Context, id string) error
}

type FileStorage interface {
	SaveFile(doc *models.Document, reader io.Reader) error
	LoadFile(doc *models.Document) (io.ReadCloser, error)
	DeleteFile(doc *models.Document) error
}

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}) error
	Del(ctx context.Context, keys ...string) error
}
