package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Input error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
)

// Resource error codes
const (
	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeConflict      = "ERR_CONFLICT"
	ErrCodeInvalidState  = "ERR_INVALID_STATE"
)

// Catalog and sync error codes
const (
	// ErrCodeInvalidOrderReference is used when an order references an
	// unknown customer or product
	ErrCodeInvalidOrderReference = "ERR_INVALID_ORDER_REFERENCE"
	// ErrCodeSyncInProgress is used when a sync is requested while
	// another pass holds the lock
	ErrCodeSyncInProgress = "ERR_SYNC_IN_PROGRESS"
	// ErrCodeRemoteUnavailable is used when the remote catalog system
	// cannot be reached
	ErrCodeRemoteUnavailable = "ERR_REMOTE_UNAVAILABLE"
	// ErrCodeSyncUnavailable is used when sync cannot run due to a
	// storage or coordination failure
	ErrCodeSyncUnavailable = "ERR_SYNC_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,
	ErrCodeInvalidState:  http.StatusUnprocessableEntity,

	ErrCodeInvalidOrderReference: http.StatusUnprocessableEntity,
	ErrCodeSyncInProgress:        http.StatusConflict,
	ErrCodeRemoteUnavailable:     http.StatusBadGateway,
	ErrCodeSyncUnavailable:       http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes get 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps domain error codes to the wire format
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":      ErrCodeNotFound,
	"ALREADY_EXISTS": ErrCodeAlreadyExists,
	"INVALID_INPUT":  ErrCodeInvalidInput,
	"INVALID_STATE":  ErrCodeInvalidState,
	"BAD_REQUEST":    ErrCodeBadRequest,
	"INTERNAL_ERROR": ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the wire format.
// Codes already in the wire format pass through unchanged.
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
