package e

import (
	"fmt"
	"sort"
	"strings"
)

var (
	// Доменные ошибки, маппятся на HTTP/gRPC статусы в delivery
	ErrInvalidInput  = fmt.Errorf("invalid input")
	ErrNotFound      = fmt.Errorf("not found")
	ErrForbidden     = fmt.Errorf("you do not have permission to perform this action")
	ErrUnauthorized  = fmt.Errorf("authentication credentials were not provided or are invalid")
	ErrAlreadyExists = fmt.Errorf("already exists")

	// 400 Bad Request
	ErrStatusBadRequest     = fmt.Errorf("bad request")
	ErrExpectedMultipart    = fmt.Errorf("expected multipart/form-data")
	ErrExpectedJSON         = fmt.Errorf("expected application/json body")
	ErrNoImages             = fmt.Errorf("no image provided")
	ErrFileTooLarge         = fmt.Errorf("file too large")
	ErrUnsupportedMediaType = fmt.Errorf("unsupported media type")
	ErrInvalidDate          = fmt.Errorf("invalid date, expected YYYY-MM-DD")

	// Внутренние ошибки
	ErrInternalServerError  = fmt.Errorf("internal server error")
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

// ValidationError описывает ошибки валидации по полям запроса.
// errors.Is(err, ErrInvalidInput) для неё всегда true.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (v *ValidationError) Error() string {
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v.Fields[k])
	}

	return fmt.Sprintf("%s: %s", ErrInvalidInput.Error(), strings.Join(parts, "; "))
}

func (v *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
