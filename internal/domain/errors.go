package domain

import (
	"errors"
	"fmt"
	"net/http"

	"git.appkode.ru/pub/go/failure"

	"skinvault/pkg/errcodes"
)

// Kind classifies an AppError for callers that need to decide how to surface
// it (redirect to login, inline field error, toast).
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindValidation
	KindNotFound
	KindUpstream
	KindPartialFailure
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindUpstream:
		return "upstream"
	case KindPartialFailure:
		return "partial_failure"
	default:
		return "internal"
	}
}

// AppError is a domain error of the application.
type AppError struct {
	Kind    Kind
	Code    failure.ErrorCode
	Message string
	cause   error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.cause
}

func (e *AppError) ErrorCode() failure.ErrorCode {
	return e.Code
}

// Description is the client-facing message; the cause is never exposed.
func (e *AppError) Description() string {
	return e.Message
}

func (e *AppError) StatusCode() int {
	switch e.Kind {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NewError creates a new domain error.
func NewError(kind Kind, code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(err error, kind Kind, code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
		cause:   err,
	}
}

func Internal(err error, message string) *AppError {
	return WrapError(err, KindInternal, errcodes.InternalServerError, message)
}

func Validation(code failure.ErrorCode, message string) *AppError {
	return NewError(KindValidation, code, message)
}

func NotFound(code failure.ErrorCode, message string) *AppError {
	return NewError(KindNotFound, code, message)
}

func Unauthenticated(message string) *AppError {
	return NewError(KindUnauthenticated, errcodes.Unauthenticated, message)
}

func Upstream(err error, message string) *AppError {
	return WrapError(err, KindUpstream, errcodes.UpstreamError, message)
}

// IsAppError reports whether err is a domain error.
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetCode extracts the error code of an AppError.
func GetCode(err error) (failure.ErrorCode, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}
	return "", false
}

// KindOf returns the kind of an AppError, KindInternal for any other error.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}
