package models

import "time"

const (
	AssignmentStatusPending    = "pending"
	AssignmentStatusInProgress = "in_progress"
	AssignmentStatusCompleted  = "completed"
)

// Assignment binds one document to one user. DocumentName and UserLogin are
// projections joined in at read time, never stored.
type Assignment struct {
	ID           string          `json:"id"`
	DocumentID   string          `json:"document_id"`
	DocumentName string          `json:"document_name"`
	UserID       string          `json:"user_id"`
	UserLogin    string          `json:"user_username"`
	Status       string          `json:"status"`
	AssignedAt   time.Time       `json:"assigned_at"`
	StartedAt    *time.Time      `json:"started_at"`
	CompletedAt  *time.Time      `json:"completed_at"`
	Values       []FieldValue    `json:"field_values"`
	Fields       []EditableField `json:"editable_fields"`
}

// FieldValue is the latest submitted value for one field of one assignment.
// Label and FieldType are cached off the field for display.
type FieldValue struct {
	ID        string    `json:"id"`
	FieldID   string    `json:"field_id"`
	FieldKey  string    `json:"field_key"`
	Label     string    `json:"field_label"`
	FieldType string    `json:"field_type"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
