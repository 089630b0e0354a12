// utils/errors.go
package utils

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

// Error kinds surfaced by the service layer. Controllers match them with
// errors.Is and map them to HTTP statuses via StatusForError.
var (
	ErrNotFound          = errors.New("not found")
	ErrBadRequest        = errors.New("bad request")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrConflict          = errors.New("conflict")
)

// AppError carries a human-readable message together with its kind.
type AppError struct {
	Kind    error
	Message string
}

func (e *AppError) Error() string { return e.Message }
func (e *AppError) Unwrap() error { return e.Kind }

func NotFoundf(format string, args ...any) error {
	return &AppError{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func BadRequestf(format string, args ...any) error {
	return &AppError{Kind: ErrBadRequest, Message: fmt.Sprintf(format, args...)}
}

func InsufficientStockf(format string, args ...any) error {
	return &AppError{Kind: ErrInsufficientStock, Message: fmt.Sprintf(format, args...)}
}

func InvalidTransitionf(format string, args ...any) error {
	return &AppError{Kind: ErrInvalidTransition, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) error {
	return &AppError{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

// StatusForError maps a service error to an HTTP status code.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// TranslateDBError converts GORM errors into the service taxonomy. Unique
// constraint violations become Conflict so number-generation races surface
// as reported conflicts instead of silent duplicates.
func TranslateDBError(err error, notFoundMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFoundf("%s", notFoundMsg)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Conflictf("a record with this value already exists")
	default:
		return err
	}
}
