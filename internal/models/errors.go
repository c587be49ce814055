package models

import (
	"errors"
	"fmt"
)

// Kind sentinels. Every concrete error below wraps exactly one of them, so
// callers classify failures with errors.Is against the kind.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrInvalidState = errors.New("invalid state")
	ErrConflict     = errors.New("conflict")
)

var (
	ErrInternal           = errors.New("internal server error")
	ErrMethodNotAllowed   = errors.New("method not allowed")
	ErrForbidden          = errors.New("access denied")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrDocumentNotFound   = fmt.Errorf("document %w", ErrNotFound)
	ErrFieldNotFound      = fmt.Errorf("editable field %w", ErrNotFound)
	ErrAssignmentNotFound = fmt.Errorf("assignment %w", ErrNotFound)
	ErrSessionNotFound    = fmt.Errorf("session %w", ErrNotFound)
	ErrSourceFileNotFound = fmt.Errorf("document source file %w", ErrNotFound)

	ErrInvalidParams    = fmt.Errorf("invalid params: %w", ErrValidation)
	ErrInvalidSpan      = fmt.Errorf("field span start exceeds end: %w", ErrValidation)
	ErrEmptyUserList    = fmt.Errorf("user list is empty: %w", ErrValidation)
	ErrNoEditableFields = fmt.Errorf("document has no editable fields: %w", ErrValidation)
	ErrUnknownFieldKey  = fmt.Errorf("field key does not belong to document: %w", ErrValidation)
	ErrFieldsUnfilled   = fmt.Errorf("not all fields have values: %w", ErrValidation)

	ErrAssignmentCompleted = fmt.Errorf("assignment already completed: %w", ErrInvalidState)

	ErrUserExists   = fmt.Errorf("user already exists: %w", ErrConflict)
	ErrFieldIDTaken = fmt.Errorf("field id already used in document: %w", ErrConflict)
)

type UniqueConstraintError struct {
	Constraint string
	Err        error
}

func (e *UniqueConstraintError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Constraint)
}

func (e *UniqueConstraintError) Unwrap() error {
	return e.Err
}
