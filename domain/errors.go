package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeInvalidState ErrorCode = "INVALID_STATE"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches two domain errors by code and message so that sentinel values
// survive wrapping.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Invalidf builds a validation error with a formatted message.
func Invalidf(format string, args ...any) *Error {
	return NewError(ErrCodeInvalid, fmt.Sprintf(format, args...))
}

// Common domain errors.
var (
	ErrMemberNotFound  = NewError(ErrCodeNotFound, "member not found")
	ErrTaskNotFound    = NewError(ErrCodeNotFound, "task not found")
	ErrItemNotFound    = NewError(ErrCodeNotFound, "item not found")
	ErrSessionNotFound = NewError(ErrCodeNotFound, "session not found")
	ErrNoMembers       = NewError(ErrCodeInvalidState, "household has no members")
	ErrLastAdmin       = NewError(ErrCodeInvalidState, "cannot remove the last admin")
	ErrSoleMember      = NewError(ErrCodeInvalidState, "cannot remove the only member")
	ErrSelfDeletion    = NewError(ErrCodeForbidden, "members cannot delete themselves")
	ErrAdminRequired   = NewError(ErrCodeForbidden, "admin privileges required")
	ErrMemberHasTasks  = NewError(ErrCodeConflict, "member still has incomplete tasks")
	ErrMemberExists    = NewError(ErrCodeConflict, "member name already taken")
	ErrUnauthorized    = NewError(ErrCodeUnauthorized, "unauthorized")
	ErrInvalidPayload  = NewError(ErrCodeInvalid, "invalid payload")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
