package storage

import (
	"docflow/internal/models"
	"io"
)

type FileStorage interface {
	SaveFile(doc *models.Document, reader io.Reader) error
	LoadFile(doc *models.Document) (io.ReadCloser, error)
	DeleteFile(doc *models.Document) error
}
