package apperr

import (
	"errors"
	"strings"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrForbidden             = errors.New("forbidden")
	ErrDuplicateIdentifier   = errors.New("identifier already registered")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrExpiredOrInvalidToken = errors.New("expired or invalid token")
	ErrExternalService       = errors.New("external service error")
	ErrValidation            = errors.New("validation failed")
)

type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message,omitempty"`
}

// ValidationError carries every field that failed; nothing is persisted when one is returned.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}

	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}

	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func Invalid(field, rule, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Rule: rule, Message: message}}}
}

// ExternalServiceError reports a collaborator (geocoder, mail) that could not serve the request.
type ExternalServiceError struct {
	Service   string
	Retryable bool
	Err       error
}

func (e *ExternalServiceError) Error() string {
	if e.Err == nil {
		return e.Service + ": unavailable"
	}
	return e.Service + ": " + e.Err.Error()
}

func (e *ExternalServiceError) Unwrap() []error {
	return []error{ErrExternalService, e.Err}
}
