package validator

import (
	"docflow/internal/dto"
	"docflow/internal/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

func IsValidLogin(login string) bool {
	err := validation.Validate(login,
		validation.Required,
		validation.Length(3, 64),
		is.Alphanumeric,
	)
	return err == nil
}

func IsValidPassword(password string) bool {
	err := validation.Validate(password,
		validation.Required,
		validation.Length(6, 128),
	)
	return err == nil
}

func ValidateCreateField(req *dto.CreateFieldRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.FieldID, validation.Length(0, 100)),
		validation.Field(&req.Label, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.Placeholder, validation.Length(0, 255)),
		validation.Field(&req.FieldType,
			validation.Required,
			validation.In(
				models.FieldTypeText,
				models.FieldTypeEmail,
				models.FieldTypeNumber,
				models.FieldTypeDate,
			),
		),
		validation.Field(&req.PositionStart, validation.Min(0)),
		validation.Field(&req.PositionEnd, validation.Min(0)),
	)
}

func ValidateAssign(req *dto.AssignRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.UserIDs,
			validation.Required,
			validation.Each(validation.Required, is.UUIDv4),
		),
	)
}

func ValidateRole(role string) error {
	return validation.Validate(role,
		validation.Required,
		validation.In(models.RoleAdmin, models.RoleUser),
	)
}
