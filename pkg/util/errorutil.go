package util

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// Stable error codes surfaced to API callers.
const (
	CodeValidationFailed        = "VALIDATION_FAILED"
	CodeInvalidDuration         = "INVALID_DURATION"
	CodeInvalidLateThreshold    = "INVALID_LATE_THRESHOLD"
	CodeNoFilterSpecified       = "NO_FILTER_SPECIFIED"
	CodeActiveTokenExists       = "ACTIVE_TOKEN_EXISTS"
	CodeDuplicateSubmission     = "DUPLICATE_SUBMISSION"
	CodeInvalidOrExpiredToken   = "INVALID_OR_EXPIRED_TOKEN"
	CodeNotFound                = "NOT_FOUND"
	CodeCodeGenerationExhausted = "CODE_GENERATION_EXHAUSTED"
	CodeStoreUnavailable        = "STORE_UNAVAILABLE"
	CodeRateLimited             = "RATE_LIMITED"
	CodeUnauthorized            = "UNAUTHORIZED"
	CodeForbidden               = "FORBIDDEN"
	CodeInternalError           = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

// NewValidationCode builds a validation error carrying a caller-distinguishable code.
func NewValidationCode(code, message string) error {
	return NewDomainError(code, message, http.StatusBadRequest, nil)
}

// NewConflictCode builds a business-conflict error with a distinguishable code.
func NewConflictCode(code, message string) error {
	return NewDomainError(code, message, http.StatusConflict, nil)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

// NewLookupFailure reports an undifferentiated lookup failure. Wrong code and
// expired code intentionally produce the same error so callers cannot probe
// token timing.
func NewLookupFailure(code, message string) error {
	return NewDomainError(code, message, http.StatusNotFound, nil)
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

// NewStoreUnavailable reports a storage-layer failure; callers own retry policy.
func NewStoreUnavailable(err error) error {
	return &DomainError{
		Code:       CodeStoreUnavailable,
		Message:    "store unavailable",
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternalError,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		if de, ok := NewStoreUnavailable(err).(*DomainError); ok {
			return de
		}
	}
	return &DomainError{
		Code:       CodeInternalError,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}

// CodeOf extracts the stable code from any error, empty when not a DomainError.
func CodeOf(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}
