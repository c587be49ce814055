package filerepo

import (
	"docflow/internal/models"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

const pkg = "fileRepo/"

type repository struct {
	root string
}

func NewRepository(root string) *repository {
	return &repository{root: root}
}

func (r *repository) SaveFile(doc *models.Document, reader io.Reader) error {
	op := pkg + "SaveFile"

	if err := os.MkdirAll(r.root, 0o755); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	f, err := os.Create(r.path(doc))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, reader); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) LoadFile(doc *models.Document) (io.ReadCloser, error) {
	op := pkg + "LoadFile"

	f, err := os.Open(r.path(doc))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrSourceFileNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return f, nil
}

func (r *repository) DeleteFile(doc *models.Document) error {
	op := pkg + "DeleteFile"

	if err := os.Remove(r.path(doc)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", op, models.ErrSourceFileNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// path keys stored files by document id; the original extension is kept so
// the container format stays recognizable on disk.
func (r *repository) path(doc *models.Document) string {
	return filepath.Join(r.root, doc.ID+filepath.Ext(doc.FileName))
}
