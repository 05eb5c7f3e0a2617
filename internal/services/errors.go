package services

import "errors"

// Service errors, mapped to HTTP statuses at the handler boundary.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrForbidden          = errors.New("access denied")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidOrExpired   = errors.New("invalid or expired OTP")
	ErrDeliveryFailed     = errors.New("failed to send OTP email")
)

// FieldError describes a problem with a single request field
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ValidationError reports missing or malformed request fields
type ValidationError struct {
	Msg    string
	Fields []FieldError
}

// NewValidationError creates a validation error with optional field details
func NewValidationError(msg string, fields ...FieldError) *ValidationError {
	return &ValidationError{Msg: msg, Fields: fields}
}

func (e *ValidationError) Error() string {
	return e.Msg
}
