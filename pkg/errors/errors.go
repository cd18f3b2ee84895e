package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is an *Error carrying the same code, so clones of a
// sentinel still match it through errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrValidation       = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrDuplicateEntity  = New("DUPLICATE_ENTITY", http.StatusConflict, "entity already exists")
	ErrEntityNotFound   = New("ENTITY_NOT_FOUND", http.StatusNotFound, "entity not found")
	ErrAlreadyEnrolled  = New("ALREADY_ENROLLED", http.StatusConflict, "student already enrolled in lesson")
	ErrNotEnrolled      = New("NOT_ENROLLED", http.StatusConflict, "student not enrolled in lesson")
	ErrCapacityExceeded = New("CAPACITY_EXCEEDED", http.StatusConflict, "lesson is at full capacity")
	ErrMissingField     = New("MISSING_FIELD", http.StatusUnprocessableEntity, "required field is missing")
	ErrInvalidField     = New("INVALID_FIELD", http.StatusUnprocessableEntity, "field value is invalid")
	ErrDataConversion   = New("DATA_CONVERSION", http.StatusInternalServerError, "stored data could not be read")
	ErrIOFailure        = New("IO_FAILURE", http.StatusInternalServerError, "could not save data to disk")
	ErrInternal         = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// Clonef is Clone with a formatted message.
func Clonef(err *Error, format string, args ...interface{}) *Error {
	return Clone(err, fmt.Sprintf(format, args...))
}

// WrapAs wraps err under the code and status of the sentinel kind.
func WrapAs(err error, kind *Error, message string) *Error {
	if message == "" {
		message = kind.Message
	}
	return Wrap(err, kind.Code, kind.Status, message)
}
