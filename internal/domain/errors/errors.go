// Package errors provides domain-specific error types.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Error codes for domain errors.
const (
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeInternal            = "INTERNAL_ERROR"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeTimeout             = "TIMEOUT"
	ErrCodeCacheUnavailable    = "CACHE_UNAVAILABLE"
	ErrCodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	ErrCodeUpstreamRateLimited = "UPSTREAM_RATE_LIMITED"
	ErrCodeUpstreamNotFound    = "UPSTREAM_NOT_FOUND"
	ErrCodeModelUnavailable    = "MODEL_UNAVAILABLE"
	ErrCodeInvalidTool         = "INVALID_TOOL"
	ErrCodeSessionNotFound     = "SESSION_NOT_FOUND"
)

// DomainError represents a domain-specific error.
type DomainError struct {
	Code       string        `json:"code"`
	Message    string        `json:"message"`
	Details    string        `json:"details,omitempty"`
	HTTPStatus int           `json:"-"`
	RetryAfter time.Duration `json:"-"`
	Err        error         `json:"-"`
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new not found error.
func NewNotFoundError(resource, identifier string) *DomainError {
	return &DomainError{
		Code:       ErrCodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		Details:    identifier,
		HTTPStatus: http.StatusNotFound,
	}
}

// NewValidationError creates a new validation error.
func NewValidationError(message string, details string) *DomainError {
	return &DomainError{
		Code:       ErrCodeValidation,
		Message:    message,
		Details:    details,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewUnauthorizedError creates a new unauthorized error.
func NewUnauthorizedError(message string) *DomainError {
	return &DomainError{
		Code:       ErrCodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, err error) *DomainError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &DomainError{
		Code:       ErrCodeInternal,
		Message:    message,
		Details:    details,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewConflictError creates a new conflict error.
func NewConflictError(message string, details string) *DomainError {
	return &DomainError{
		Code:       ErrCodeConflict,
		Message:    message,
		Details:    details,
		HTTPStatus: http.StatusConflict,
	}
}

// NewTimeoutError creates a new timeout error.
func NewTimeoutError(operation string) *DomainError {
	return &DomainError{
		Code:       ErrCodeTimeout,
		Message:    fmt.Sprintf("%s timed out", operation),
		HTTPStatus: http.StatusGatewayTimeout,
	}
}

// NewCacheUnavailableError reports a cache backend failure. It is logged,
// never returned to API clients.
func NewCacheUnavailableError(op string, err error) *DomainError {
	return &DomainError{
		Code:       ErrCodeCacheUnavailable,
		Message:    fmt.Sprintf("cache %s failed", op),
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

// NewUpstreamUnavailableError reports a transport failure or 5xx from an
// external system.
func NewUpstreamUnavailableError(upstream string, err error) *DomainError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &DomainError{
		Code:       ErrCodeUpstreamUnavailable,
		Message:    fmt.Sprintf("%s is unavailable", upstream),
		Details:    details,
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewUpstreamRateLimitedError reports a 429 from an external system.
func NewUpstreamRateLimitedError(upstream string, retryAfter time.Duration) *DomainError {
	return &DomainError{
		Code:       ErrCodeUpstreamRateLimited,
		Message:    fmt.Sprintf("%s rate limit exceeded", upstream),
		HTTPStatus: http.StatusTooManyRequests,
		RetryAfter: retryAfter,
	}
}

// NewUpstreamNotFoundError reports that an external system has no such resource.
func NewUpstreamNotFoundError(upstream, resource string) *DomainError {
	return &DomainError{
		Code:       ErrCodeUpstreamNotFound,
		Message:    fmt.Sprintf("%s has no %s", upstream, resource),
		HTTPStatus: http.StatusNotFound,
	}
}

// NewModelUnavailableError reports that no language-model backend produced a reply.
func NewModelUnavailableError(details string, err error) *DomainError {
	return &DomainError{
		Code:       ErrCodeModelUnavailable,
		Message:    "language model is unavailable",
		Details:    details,
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

// NewInvalidToolError reports an unknown tool or malformed tool arguments.
func NewInvalidToolError(tool, details string) *DomainError {
	return &DomainError{
		Code:       ErrCodeInvalidTool,
		Message:    fmt.Sprintf("invalid tool call %q", tool),
		Details:    details,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewSessionNotFoundError creates a session not found error.
func NewSessionNotFoundError(sessionID string) *DomainError {
	return &DomainError{
		Code:       ErrCodeSessionNotFound,
		Message:    "session not found",
		Details:    sessionID,
		HTTPStatus: http.StatusNotFound,
	}
}

// IsDomainError checks if the error is a domain error.
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error.
func GetDomainError(err error) (*DomainError, bool) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}

func hasCode(err error, code string) bool {
	domainErr, ok := GetDomainError(err)
	return ok && domainErr.Code == code
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

// IsValidationError checks if the error is a validation error.
func IsValidationError(err error) bool {
	return hasCode(err, ErrCodeValidation)
}

// IsUpstreamUnavailable checks if the error is an upstream unavailable error.
func IsUpstreamUnavailable(err error) bool {
	return hasCode(err, ErrCodeUpstreamUnavailable)
}

// IsRateLimited checks if the error is an upstream rate-limit error.
func IsRateLimited(err error) bool {
	return hasCode(err, ErrCodeUpstreamRateLimited)
}

// IsUpstreamNotFound checks if the error is an upstream not found error.
func IsUpstreamNotFound(err error) bool {
	return hasCode(err, ErrCodeUpstreamNotFound)
}

// IsModelUnavailable checks if the error is a model unavailable error.
func IsModelUnavailable(err error) bool {
	return hasCode(err, ErrCodeModelUnavailable)
}

// IsInvalidTool checks if the error is an invalid tool error.
func IsInvalidTool(err error) bool {
	return hasCode(err, ErrCodeInvalidTool)
}

// IsSessionNotFound checks if the error is a session not found error.
func IsSessionNotFound(err error) bool {
	return hasCode(err, ErrCodeSessionNotFound)
}

// IsRetryable reports whether a gateway error is worth retrying.
func IsRetryable(err error) bool {
	return IsUpstreamUnavailable(err) || IsRateLimited(err)
}

// RetryAfter returns the upstream-provided retry hint, if any.
func RetryAfter(err error) time.Duration {
	if domainErr, ok := GetDomainError(err); ok {
		return domainErr.RetryAfter
	}
	return 0
}
