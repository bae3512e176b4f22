package dto

import (
	"net/http"
	"strings"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION> for transport-level codes;
// domain business-rule codes pass through unchanged.

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes. Billing
// business-rule rejections are listed individually so each surfaces as
// 422 with its domain code intact.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	ErrCodeInvalidState: http.StatusUnprocessableEntity,

	// Billing business rules -> 422 Unprocessable Entity
	"ALREADY_ISSUED":           http.StatusUnprocessableEntity,
	"NO_BILLABLE_ITEMS":        http.StatusUnprocessableEntity,
	"IMMUTABLE_INVOICE":        http.StatusUnprocessableEntity,
	"CANNOT_VOID_PAID":         http.StatusUnprocessableEntity,
	"CREDIT_EXCEEDS_BALANCE":   http.StatusUnprocessableEntity,
	"CREDIT_NOTE_APPLIED":      http.StatusUnprocessableEntity,
	"PAYMENT_EXCEEDS_BALANCE":  http.StatusUnprocessableEntity,
	"INVALID_READING":          http.StatusUnprocessableEntity,
	"STATEMENT_FINAL":          http.StatusUnprocessableEntity,
	"STATEMENT_NOT_FINAL":      http.StatusUnprocessableEntity,
	"STATEMENT_ALREADY_BILLED": http.StatusUnprocessableEntity,
	"RATE_PLAN_MISMATCH":       http.StatusUnprocessableEntity,
	"CHARGE_TYPE_NOT_FOUND":    http.StatusUnprocessableEntity,
}

// legacyErrorCodeMapping maps generic domain codes to standardized codes
var legacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
}

// NormalizeErrorCode converts a generic domain code to the standardized
// transport format. Business-rule codes are returned as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := legacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unlisted INVALID_* codes are input rejections; anything else unknown
// is an internal error.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
