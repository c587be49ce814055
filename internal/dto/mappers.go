package dto

import "docflow/internal/models"

func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Login:     user.Login,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}

func NewFieldResponse(field models.EditableField) FieldResponse {
	return FieldResponse{
		ID:            field.ID,
		FieldID:       field.FieldID,
		Label:         field.Label,
		Placeholder:   field.Placeholder,
		FieldType:     field.FieldType,
		PositionStart: field.PositionStart,
		PositionEnd:   field.PositionEnd,
		OriginalValue: field.OriginalValue,
		CreatedAt:     field.CreatedAt,
	}
}

func NewDocumentResponse(doc *models.Document) DocumentResponse {
	fields := make([]FieldResponse, 0, len(doc.Fields))
	for _, field := range doc.Fields {
		fields = append(fields, NewFieldResponse(field))
	}

	return DocumentResponse{
		ID:            doc.ID,
		Name:          doc.Name,
		FileName:      doc.FileName,
		Content:       doc.Content,
		Status:        doc.Status,
		CreatedBy:     doc.CreatedBy,
		Fields:        fields,
		AssignedCount: doc.AssignedCount,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
}

func NewAssignmentResponse(a *models.Assignment) AssignmentResponse {
	values := make([]FieldValueResponse, 0, len(a.Values))
	for _, value := range a.Values {
		values = append(values, FieldValueResponse{
			ID:        value.ID,
			FieldKey:  value.FieldKey,
			Label:     value.Label,
			FieldType: value.FieldType,
			Value:     value.Value,
			CreatedAt: value.CreatedAt,
			UpdatedAt: value.UpdatedAt,
		})
	}

	fields := make([]FieldResponse, 0, len(a.Fields))
	for _, field := range a.Fields {
		fields = append(fields, NewFieldResponse(field))
	}

	return AssignmentResponse{
		ID:           a.ID,
		DocumentID:   a.DocumentID,
		DocumentName: a.DocumentName,
		UserID:       a.UserID,
		UserLogin:    a.UserLogin,
		Status:       a.Status,
		AssignedAt:   a.AssignedAt,
		StartedAt:    a.StartedAt,
		CompletedAt:  a.CompletedAt,
		Values:       values,
		Fields:       fields,
	}
}
