package assignmentrepo

import (
	"context"
	"database/sql"
	"docflow/internal/entities"
	"docflow/internal/models"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const pkg = "assignmentRepo/"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

// CreateAssignment inserts one pending assignment. A (document, user) pair
// that already has an assignment is left untouched; the bool reports whether
// a row was actually created.
func (r *repository) CreateAssignment(ctx context.Context, a *models.Assignment) (bool, error) {
	op := pkg + "CreateAssignment"

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO assignments (id, document_id, user_id, status, assigned_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (document_id, user_id) DO NOTHING`,
		a.ID, a.DocumentID, a.UserID, a.Status, a.AssignedAt)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return affected > 0, nil
}

func (r *repository) AssignmentByID(ctx context.Context, id string) (*models.Assignment, error) {
	op := pkg + "AssignmentByID"

	rawAssignment := entities.Assignment{}

	err := r.db.GetContext(ctx, &rawAssignment,
		`SELECT
			a.id AS id,
			a.document_id AS document_id,
			d.name AS document_name,
			a.user_id AS user_id,
			u.login AS user_login,
			a.status AS status,
			a.assigned_at AS assigned_at,
			a.started_at AS started_at,
			a.completed_at AS completed_at
		FROM assignments a
		INNER JOIN documents d ON a.document_id = d.id
		INNER JOIN users u ON a.user_id = u.id
		WHERE a.id = $1`,
		id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrAssignmentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	values, err := r.ValuesByAssignment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return assignmentFromRow(rawAssignment, values), nil
}

func (r *repository) ListByUser(ctx context.Context, userID string) ([]*models.Assignment, error) {
	op := pkg + "ListByUser"

	rawAssignments := make([]entities.Assignment, 0)

	err := r.db.SelectContext(ctx, &rawAssignments,
		`SELECT
			a.id AS id,
			a.document_id AS document_id,
			d.name AS document_name,
			a.user_id AS user_id,
			u.login AS user_login,
			a.status AS status,
			a.assigned_at AS assigned_at,
			a.started_at AS started_at,
			a.completed_at AS completed_at
		FROM assignments a
		INNER JOIN documents d ON a.document_id = d.id
		INNER JOIN users u ON a.user_id = u.id
		WHERE a.user_id = $1
		ORDER BY a.assigned_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return r.withValues(ctx, op, rawAssignments)
}

// ListCompleted returns completed assignments ordered by id ascending so
// bundles built from the same state come out identical. An empty documentID
// means no document filter.
func (r *repository) ListCompleted(ctx context.Context, documentID string) ([]*models.Assignment, error) {
	op := pkg + "ListCompleted"

	rawAssignments := make([]entities.Assignment, 0)

	err := r.db.SelectContext(ctx, &rawAssignments,
		`SELECT
			a.id AS id,
			a.document_id AS document_id,
			d.name AS document_name,
			a.user_id AS user_id,
			u.login AS user_login,
			a.status AS status,
			a.assigned_at AS assigned_at,
			a.started_at AS started_at,
			a.completed_at AS completed_at
		FROM assignments a
		INNER JOIN documents d ON a.document_id = d.id
		INNER JOIN users u ON a.user_id = u.id
		WHERE a.status = $1
		AND ($2 = '' OR a.document_id = $2)
		ORDER BY a.id ASC`,
		models.AssignmentStatusCompleted, documentID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return r.withValues(ctx, op, rawAssignments)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	op := pkg + "Delete"

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM assignments WHERE id = $1`,
		id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if affected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrAssignmentNotFound)
	}

	return nil
}

// UpsertValues applies one submission batch atomically: either every value
// lands or none does, so readers never see a half-applied batch.
func (r *repository) UpsertValues(ctx context.Context, assignmentID string, values []models.FieldValue) error {
	op := pkg + "UpsertValues"

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	for _, v := range values {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO field_values (id, assignment_id, field_id, value, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5)
			ON CONFLICT (assignment_id, field_id)
			DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
			v.ID, assignmentID, v.FieldID, v.Value, v.UpdatedAt)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) ValuesByAssignment(ctx context.Context, assignmentID string) ([]models.FieldValue, error) {
	op := pkg + "ValuesByAssignment"

	rawValues := make([]entities.FieldValue, 0)

	err := r.db.SelectContext(ctx, &rawValues,
		`SELECT
			v.id AS id,
			v.assignment_id AS assignment_id,
			v.field_id AS field_id,
			f.field_id AS field_key,
			f.label AS label,
			f.field_type AS field_type,
			v.value AS value,
			v.created_at AS created_at,
			v.updated_at AS updated_at
		FROM field_values v
		INNER JOIN editable_fields f ON v.field_id = f.id
		WHERE v.assignment_id = $1
		ORDER BY f.created_at ASC, f.id ASC`,
		assignmentID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	values := make([]models.FieldValue, 0, len(rawValues))

	for _, raw := range rawValues {
		values = append(values, models.FieldValue{
			ID:        raw.ID,
			FieldID:   raw.FieldID,
			FieldKey:  raw.FieldKey,
			Label:     raw.Label,
			FieldType: raw.FieldType,
			Value:     raw.Value,
			CreatedAt: raw.CreatedAt,
			UpdatedAt: raw.UpdatedAt,
		})
	}

	return values, nil
}

// Start advances a pending assignment to in_progress. Assignments already
// past pending are left as-is.
func (r *repository) Start(ctx context.Context, id string, startedAt time.Time) error {
	op := pkg + "Start"

	_, err := r.db.ExecContext(ctx,
		`UPDATE assignments SET status = $2, started_at = $3
		WHERE id = $1 AND status = $4`,
		id, models.AssignmentStatusInProgress, startedAt, models.AssignmentStatusPending)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Complete transitions to completed unless the assignment already is. The
// conditional update makes concurrent retries safe: exactly one caller sees
// true, the rest see false.
func (r *repository) Complete(ctx context.Context, id string, completedAt time.Time) (bool, error) {
	op := pkg + "Complete"

	res, err := r.db.ExecContext(ctx,
		`UPDATE assignments SET status = $2, completed_at = $3
		WHERE id = $1 AND status <> $2`,
		id, models.AssignmentStatusCompleted, completedAt)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return affected > 0, nil
}

func (r *repository) withValues(ctx context.Context, op string, rawAssignments []entities.Assignment) ([]*models.Assignment, error) {
	assignments := make([]*models.Assignment, 0, len(rawAssignments))

	for _, raw := range rawAssignments {
		values, err := r.ValuesByAssignment(ctx, raw.ID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		assignments = append(assignments, assignmentFromRow(raw, values))
	}

	return assignments, nil
}

func assignmentFromRow(raw entities.Assignment, values []models.FieldValue) *models.Assignment {
	a := &models.Assignment{
		ID:           raw.ID,
		DocumentID:   raw.DocumentID,
		DocumentName: raw.DocumentName,
		UserID:       raw.UserID,
		UserLogin:    raw.UserLogin,
		Status:       raw.Status,
		AssignedAt:   raw.AssignedAt,
		Values:       values,
	}

	if raw.StartedAt.Valid {
		t := raw.StartedAt.Time
		a.StartedAt = &t
	}

	if raw.CompletedAt.Valid {
		t := raw.CompletedAt.Time
		a.CompletedAt = &t
	}

	return a
}
