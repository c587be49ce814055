package dto

import "time"

type CreateFieldRequest struct {
	FieldID       string `json:"field_id"`
	Label         string `json:"label"`
	Placeholder   string `json:"placeholder"`
	FieldType     string `json:"field_type"`
	PositionStart int    `json:"position_start"`
	PositionEnd   int    `json:"position_end"`
	OriginalValue string `json:"original_value"`
}

type FieldResponse struct {
	ID            string    `json:"id"`
	FieldID       string    `json:"field_id"`
	Label         string    `json:"label"`
	Placeholder   string    `json:"placeholder"`
	FieldType     string    `json:"field_type"`
	PositionStart int       `json:"position_start"`
	PositionEnd   int       `json:"position_end"`
	OriginalValue string    `json:"original_value"`
	CreatedAt     time.Time `json:"created"`
}

type DocumentResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	FileName      string          `json:"file_name"`
	Content       string          `json:"content"`
	Status        string          `json:"status"`
	CreatedBy     string          `json:"created_by"`
	Fields        []FieldResponse `json:"editable_fields"`
	AssignedCount int             `json:"assigned_users_count"`
	CreatedAt     time.Time       `json:"created"`
	UpdatedAt     time.Time       `json:"updated"`
}
