package services

import (
	"errors"
	"fmt"
)

// ErrorType represents the type/category of error
type ErrorType string

const (
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeForbidden    ErrorType = "forbidden"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypeInternal     ErrorType = "internal"
)

// DomainError represents a structured error with additional context.
// Code names the specific failure within a Type.
type DomainError struct {
	Type    ErrorType
	Code    string
	Message string
	Err     error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is. A target with a Code matches only that code,
// otherwise any error of the same Type matches.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	if t.Code != "" {
		return e.Code == t.Code
	}
	return e.Type == t.Type
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Wrap returns a copy of e carrying err as its cause
func (e *DomainError) Wrap(err error) *DomainError {
	return &DomainError{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// NewDomainError creates a new domain error
func NewDomainError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

func newCodedError(errType ErrorType, code, message string) *DomainError {
	e := NewDomainError(errType, message, nil)
	e.Code = code
	return e
}

// Authentication and authorization failures. Messages are deliberately coarse.
var (
	ErrInvalidCredentials    = newCodedError(ErrorTypeUnauthorized, "invalid_credentials", "invalid email or password")
	ErrProfileNotFound       = newCodedError(ErrorTypeNotFound, "profile_not_found", "profile not found")
	ErrPrincipalNotFound     = newCodedError(ErrorTypeNotFound, "principal_not_found", "user not found")
	ErrTokenMissing          = newCodedError(ErrorTypeUnauthorized, "token_missing", "authentication token required")
	ErrTokenInvalid          = newCodedError(ErrorTypeUnauthorized, "token_invalid", "invalid authentication token")
	ErrRefreshTokenMalformed = newCodedError(ErrorTypeUnauthorized, "refresh_token_malformed", "invalid refresh token")
	ErrRoleNotPermitted      = newCodedError(ErrorTypeForbidden, "role_not_permitted", "insufficient permissions")
	ErrUnexpected            = newCodedError(ErrorTypeInternal, "unexpected_error", "unexpected error")
)

// Resource errors
var (
	ErrAreaNotFound   = newCodedError(ErrorTypeNotFound, "area_not_found", "area not found")
	ErrRoomNotFound   = newCodedError(ErrorTypeNotFound, "room_not_found", "room not found")
	ErrInvalidInput   = NewDomainError(ErrorTypeValidation, "invalid input", nil)
	ErrDuplicateEmail = newCodedError(ErrorTypeConflict, "duplicate_email", "email already exists")
	ErrDuplicateArea  = newCodedError(ErrorTypeConflict, "duplicate_area", "area name already exists")
	ErrDuplicateRoom  = newCodedError(ErrorTypeConflict, "duplicate_room", "room name already exists in area")
)

// Error type checking helper functions

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return GetErrorType(err) == ErrorTypeNotFound
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return GetErrorType(err) == ErrorTypeValidation
}

// IsUnauthorizedError checks if an error is an unauthorized error
func IsUnauthorizedError(err error) bool {
	return GetErrorType(err) == ErrorTypeUnauthorized
}

// IsForbiddenError checks if an error is a forbidden error
func IsForbiddenError(err error) bool {
	return GetErrorType(err) == ErrorTypeForbidden
}

// IsConflictError checks if an error is a conflict error
func IsConflictError(err error) bool {
	return GetErrorType(err) == ErrorTypeConflict
}

// IsInternalError checks if an error is an internal error
func IsInternalError(err error) bool {
	return GetErrorType(err) == ErrorTypeInternal
}

// GetErrorType returns the ErrorType of a domain error, or empty string if not a domain error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ""
}

// GetErrorCode returns the Code of a domain error, falling back to its Type
func GetErrorCode(err error) string {
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		return ""
	}
	if domainErr.Code != "" {
		return domainErr.Code
	}
	return string(domainErr.Type)
}

// GetErrorDetails returns the details map of a domain error, or nil if not a domain error
func GetErrorDetails(err error) map[string]interface{} {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return NewDomainError(ErrorTypeInternal, message, err)
}
