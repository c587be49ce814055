package entities

import (
	"database/sql"
	"time"
)

type Assignment struct {
	ID           string       `db:"id"`
	DocumentID   string       `db:"document_id"`
	DocumentName string       `db:"document_name"`
	UserID       string       `db:"user_id"`
	UserLogin    string       `db:"user_login"`
	Status       string       `db:"status"`
	AssignedAt   time.Time    `db:"assigned_at"`
	StartedAt    sql.NullTime `db:"started_at"`
	CompletedAt  sql.NullTime `db:"completed_at"`
}

type FieldValue struct {
	ID           string    `db:"id"`
	AssignmentID string    `db:"assignment_id"`
	FieldID      string    `db:"field_id"`
	FieldKey     string    `db:"field_key"`
	Label        string    `db:"label"`
	FieldType    string    `db:"field_type"`
	Value        string    `db:"value"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
