package types

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies an error for the transport layer.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindUnexpected
)

// String returns the error type label used in responses and logs.
func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unexpected"
	}
}

// Status maps the kind to its HTTP status code.
func (k ErrorKind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// CustomError is the single error type crossing the service boundary.
// Message is safe to show to the caller; Err carries the internal cause.
type CustomError struct {
	Kind    ErrorKind `json:"-"`
	Code    int       `json:"code"`
	Field   string    `json:"field,omitempty"`
	Message string    `json:"message"`
	Type    string    `json:"type"`
	Err     error     `json:"-"`
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d: %s [type: %s]: %v", e.Code, e.Message, e.Type, e.Err)
	}
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, field, message string, err error) *CustomError {
	return &CustomError{
		Kind:    kind,
		Code:    kind.Status(),
		Field:   field,
		Message: message,
		Type:    kind.String(),
		Err:     err,
	}
}

// ValidationError reports a missing or malformed input field.
func ValidationError(field, message string) *CustomError {
	return newError(KindValidation, field, message, nil)
}

// AuthenticationError reports a missing, invalid or expired credential.
func AuthenticationError(message string) *CustomError {
	return newError(KindAuthentication, "", message, nil)
}

// AuthorizationError reports a valid principal lacking the role or ownership.
func AuthorizationError(message string) *CustomError {
	return newError(KindAuthorization, "", message, nil)
}

// NotFoundError reports an absent or invisible resource.
func NotFoundError(resource string) *CustomError {
	return newError(KindNotFound, "", resource+" not found", nil)
}

// ConflictError reports a uniqueness violation.
func ConflictError(field, message string) *CustomError {
	return newError(KindConflict, field, message, nil)
}

// UnexpectedError wraps an internal failure. The caller only ever sees a generic message.
func UnexpectedError(err error) *CustomError {
	return newError(KindUnexpected, "", "An unexpected error occurred", err)
}

// AsCustomError unwraps err into a *CustomError if one is in the chain.
func AsCustomError(err error) (*CustomError, bool) {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	ce, ok := AsCustomError(err)
	return ok && ce.Kind == kind
}
