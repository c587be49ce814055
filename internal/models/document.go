package models

import "time"

const (
	DocumentStatusDraft = "draft"
	DocumentStatusSent  = "sent"
	// DocumentStatusCompleted is reserved; no transition sets it yet.
	// Completion is tracked per assignment, not on the document.
	DocumentStatusCompleted = "completed"
)

const (
	FieldTypeText   = "text"
	FieldTypeEmail  = "email"
	FieldTypeNumber = "number"
	FieldTypeDate   = "date"
)

type Document struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	FileName      string          `json:"file_name"`
	Content       string          `json:"content"`
	CreatedBy     string          `json:"created_by"`
	Status        string          `json:"status"`
	Fields        []EditableField `json:"editable_fields"`
	AssignedCount int             `json:"assigned_users_count"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// EditableField anchors a fillable slot to a span of the document content.
// Offsets refer to the content as it was when the field was captured.
type EditableField struct {
	ID            string    `json:"id"`
	DocumentID    string    `json:"document_id"`
	FieldID       string    `json:"field_id"`
	Label         string    `json:"label"`
	Placeholder   string    `json:"placeholder"`
	FieldType     string    `json:"field_type"`
	PositionStart int       `json:"position_start"`
	PositionEnd   int       `json:"position_end"`
	OriginalValue string    `json:"original_value"`
	CreatedAt     time.Time `json:"created_at"`
}

type DocumentFilter struct {
	Key   string
	Value string
	Limit int
}

var allowedKeys = map[string]bool{
	"name":   true,
	"status": true,
}

func (f DocumentFilter) IsValid() bool {
	if f.Key == "" && f.Value != "" {
		return false
	}
	if f.Key != "" && !allowedKeys[f.Key] {
		return false
	}
	return true
}

func IsValidFieldType(t string) bool {
	switch t {
	case FieldTypeText, FieldTypeEmail, FieldTypeNumber, FieldTypeDate:
		return true
	}
	return false
}
