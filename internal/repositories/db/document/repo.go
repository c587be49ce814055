package documentrepo

import (
	"context"
	"database/sql"
	"docflow/internal/entities"
	"docflow/internal/models"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const pkg = "documentRepo/"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) CreateDocument(ctx context.Context, doc *models.Document) error {
	op := pkg + "CreateDocument"

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (id, name, file_name, content, created_by, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		doc.ID, doc.Name, doc.FileName, doc.Content, doc.CreatedBy, doc.Status, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) DocumentByID(ctx context.Context, id string) (*models.Document, error) {
	op := pkg + "DocumentByID"

	rawDoc := entities.Document{}

	err := r.db.GetContext(ctx, &rawDoc,
		`SELECT
			d.id AS id,
			d.name AS name,
			d.file_name AS file_name,
			d.content AS content,
			d.created_by AS created_by,
			d.status AS status,
			d.created_at AS created_at,
			d.updated_at AS updated_at
		FROM documents d
		WHERE d.id = $1`,
		id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	fields, err := r.FieldsByDocument(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	assigned, err := r.assignedCount(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return docFromRow(rawDoc, fields, assigned), nil
}

func (r *repository) ListByCreator(ctx context.Context, creatorID string, filter models.DocumentFilter) ([]*models.Document, error) {
	op := pkg + "ListByCreator"

	rawDocs := make([]entities.Document, 0)

	baseQuery := `SELECT
			d.id AS id,
			d.name AS name,
			d.file_name AS file_name,
			d.content AS content,
			d.created_by AS created_by,
			d.status AS status,
			d.created_at AS created_at,
			d.updated_at AS updated_at
		FROM documents d
		WHERE d.created_by = $1
		AND (
			($2 = 'name' AND d.name = $3) OR
			($2 = 'status' AND d.status = $3) OR
			($2 = '' AND TRUE)
		)
		ORDER BY d.created_at DESC`

	args := []any{creatorID, filter.Key, filter.Value}

	if filter.Limit > 0 {
		args = append(args, filter.Limit)

		baseQuery += ` LIMIT $4`
	}

	err := r.db.SelectContext(ctx, &rawDocs, baseQuery, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	docs := make([]*models.Document, 0)

	for _, rawDoc := range rawDocs {
		fields, err := r.FieldsByDocument(ctx, rawDoc.ID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		assigned, err := r.assignedCount(ctx, rawDoc.ID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		docs = append(docs, docFromRow(rawDoc, fields, assigned))
	}

	return docs, nil
}

func (r *repository) UpdateContent(ctx context.Context, id string, content string, updatedAt time.Time) error {
	op := pkg + "UpdateContent"

	res, err := r.db.ExecContext(ctx,
		`UPDATE documents SET content = $2, updated_at = $3 WHERE id = $1`,
		id, content, updatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if affected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
	}

	return nil
}

// MarkSent flips a draft document to sent. Once sent the status never
// reverts, so a repeat call is a no-op.
func (r *repository) MarkSent(ctx context.Context, id string) error {
	op := pkg + "MarkSent"

	_, err := r.db.ExecContext(ctx,
		`UPDATE documents SET status = $2, updated_at = $3 WHERE id = $1 AND status = $4`,
		id, models.DocumentStatusSent, time.Now(), models.DocumentStatusDraft)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	op := pkg + "Delete"

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM documents WHERE id = $1`,
		id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if affected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
	}

	return nil
}

func (r *repository) CreateField(ctx context.Context, field *models.EditableField) error {
	op := pkg + "CreateField"

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO editable_fields (id, document_id, field_id, label, placeholder, field_type, position_start, position_end, original_value, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		field.ID, field.DocumentID, field.FieldID, field.Label, field.Placeholder,
		field.FieldType, field.PositionStart, field.PositionEnd, field.OriginalValue, field.CreatedAt)
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok {
			if pgErr.Code == "23505" {
				return &models.UniqueConstraintError{
					Constraint: pgErr.Constraint,
					Err:        models.ErrFieldIDTaken,
				}
			}
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) FieldByID(ctx context.Context, id string) (*models.EditableField, error) {
	op := pkg + "FieldByID"

	rawField := entities.EditableField{}

	err := r.db.GetContext(ctx, &rawField,
		`SELECT
			f.id AS id,
			f.document_id AS document_id,
			f.field_id AS field_id,
			f.label AS label,
			f.placeholder AS placeholder,
			f.field_type AS field_type,
			f.position_start AS position_start,
			f.position_end AS position_end,
			f.original_value AS original_value,
			f.created_at AS created_at
		FROM editable_fields f
		WHERE f.id = $1`,
		id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrFieldNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	field := fieldFromRow(rawField)

	return &field, nil
}

func (r *repository) FieldsByDocument(ctx context.Context, docID string) ([]models.EditableField, error) {
	op := pkg + "FieldsByDocument"

	rawFields := make([]entities.EditableField, 0)

	err := r.db.SelectContext(ctx, &rawFields,
		`SELECT
			f.id AS id,
			f.document_id AS document_id,
			f.field_id AS field_id,
			f.label AS label,
			f.placeholder AS placeholder,
			f.field_type AS field_type,
			f.position_start AS position_start,
			f.position_end AS position_end,
			f.original_value AS original_value,
			f.created_at AS created_at
		FROM editable_fields f
		WHERE f.document_id = $1
		ORDER BY f.created_at ASC, f.id ASC`,
		docID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	fields := make([]models.EditableField, 0, len(rawFields))

	for _, rawField := range rawFields {
		fields = append(fields, fieldFromRow(rawField))
	}

	return fields, nil
}

func (r *repository) DeleteField(ctx context.Context, id string) error {
	op := pkg + "DeleteField"

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM editable_fields WHERE id = $1`,
		id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if affected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrFieldNotFound)
	}

	return nil
}

func (r *repository) assignedCount(ctx context.Context, docID string) (int, error) {
	op := pkg + "assignedCount"

	var count int

	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM assignments a WHERE a.document_id = $1`,
		docID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}

func docFromRow(raw entities.Document, fields []models.EditableField, assigned int) *models.Document {
	return &models.Document{
		ID:            raw.ID,
		Name:          raw.Name,
		FileName:      raw.FileName,
		Content:       raw.Content,
		CreatedBy:     raw.CreatedBy,
		Status:        raw.Status,
		Fields:        fields,
		AssignedCount: assigned,
		CreatedAt:     raw.CreatedAt,
		UpdatedAt:     raw.UpdatedAt,
	}
}

func fieldFromRow(raw entities.EditableField) models.EditableField {
	return models.EditableField{
		ID:            raw.ID,
		DocumentID:    raw.DocumentID,
		FieldID:       raw.FieldID,
		Label:         raw.Label,
		Placeholder:   raw.Placeholder,
		FieldType:     raw.FieldType,
		PositionStart: raw.PositionStart,
		PositionEnd:   raw.PositionEnd,
		OriginalValue: raw.OriginalValue,
		CreatedAt:     raw.CreatedAt,
	}
}
