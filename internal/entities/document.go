package entities

import "time"

type Document struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	FileName  string    `db:"file_name"`
	Content   string    `db:"content"`
	CreatedBy string    `db:"created_by"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type EditableField struct {
	ID            string    `db:"id"`
	DocumentID    string    `db:"document_id"`
	FieldID       string    `db:"field_id"`
	Label         string    `db:"label"`
	Placeholder   string    `db:"placeholder"`
	FieldType     string    `db:"field_type"`
	PositionStart int       `db:"position_start"`
	PositionEnd   int       `db:"position_end"`
	OriginalValue string    `db:"original_value"`
	CreatedAt     time.Time `db:"created_at"`
}
