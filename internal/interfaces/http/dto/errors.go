package dto

import (
	"net/http"
	"strings"
)

// Codes produced by the HTTP layer itself. Domain codes pass through unchanged.
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeRequestTooLarge  = "REQUEST_TOO_LARGE"
	ErrCodeTimeout          = "REQUEST_TIMEOUT"
	ErrCodeDuplicateRequest = "DUPLICATE_REQUEST"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes. Codes missing
// here are resolved by GetHTTPStatus from their naming pattern.
var ErrorCodeHTTPStatus = map[string]int{
	// Request level
	ErrCodeValidation:       http.StatusBadRequest,
	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeInternal:         http.StatusInternalServerError,
	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeRateLimited:      http.StatusTooManyRequests,
	ErrCodeRequestTooLarge:  http.StatusRequestEntityTooLarge,
	ErrCodeTimeout:          http.StatusGatewayTimeout,
	ErrCodeDuplicateRequest: http.StatusConflict,
	"INVALID_INPUT":         http.StatusBadRequest,

	// Authentication and authorization
	ErrCodeUnauthorized:   http.StatusUnauthorized,
	ErrCodeForbidden:      http.StatusForbidden,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"ACCOUNT_INACTIVE":    http.StatusForbidden,

	// Conflicts with existing rows
	"ALREADY_EXISTS":          http.StatusConflict,
	"CONCURRENCY_CONFLICT":    http.StatusConflict,
	"OPTIMISTIC_LOCK_FAILED":  http.StatusConflict,
	"FINANCIAL_YEAR_OVERLAP":  http.StatusConflict,
	"FINANCIAL_YEAR_ACTIVE":   http.StatusConflict,
	"USER_ALREADY_LINKED":     http.StatusConflict,
	"USER_LINKED_TO_EMPLOYEE": http.StatusConflict,
	"JOURNAL_ENTRY_POSTED":    http.StatusConflict,

	// Business rules
	"INVALID_STATE":            http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":       http.StatusUnprocessableEntity,
	"NO_ACTIVE_FINANCIAL_YEAR": http.StatusUnprocessableEntity,
	"STORAGE_UNAVAILABLE":      http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status for an error code. Unlisted codes
// follow their naming pattern: *_NOT_FOUND is 404, *_EXISTS, *_HAS_* and
// *_IN_USE are 409, CANNOT_* is 403, TOKEN_* is 401 and INVALID_* is 400.
// Anything else is a business rule violation (422).
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	switch {
	case code == "":
		return http.StatusInternalServerError
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "_EXISTS"),
		strings.HasSuffix(code, "_IN_USE"),
		strings.Contains(code, "_HAS_"):
		return http.StatusConflict
	case strings.HasPrefix(code, "CANNOT_"):
		return http.StatusForbidden
	case strings.HasPrefix(code, "TOKEN_"):
		return http.StatusUnauthorized
	case strings.HasPrefix(code, "INVALID_"):
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}
