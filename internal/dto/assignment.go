package dto

import "time"

type AssignRequest struct {
	UserIDs []string `json:"user_ids"`
}

type AssignResponse struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

type SubmitValuesRequest struct {
	Values map[string]string `json:"field_values"`
}

type FieldValueResponse struct {
	ID        string    `json:"id"`
	FieldKey  string    `json:"field_id"`
	Label     string    `json:"field_label"`
	FieldType string    `json:"field_type"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"updated"`
}

type AssignmentResponse struct {
	ID           string               `json:"id"`
	DocumentID   string               `json:"document_id"`
	DocumentName string               `json:"document_name"`
	UserID       string               `json:"user_id"`
	UserLogin    string               `json:"user_username"`
	Status       string               `json:"status"`
	AssignedAt   time.Time            `json:"assigned_at"`
	StartedAt    *time.Time           `json:"started_at"`
	CompletedAt  *time.Time           `json:"completed_at"`
	Values       []FieldValueResponse `json:"field_values"`
	Fields       []FieldResponse      `json:"editable_fields"`
}
