package dto

import (
	"net/http"
	"strings"
)

// General error codes
const (
	ErrCodeInternal    = "INTERNAL_ERROR"
	ErrCodeBadRequest  = "BAD_REQUEST"
	ErrCodeValidation  = "VALIDATION_ERROR"
	ErrCodeInvalidJSON = "INVALID_JSON"
	ErrCodeTimeout     = "REQUEST_TIMEOUT"
	ErrCodeTooLarge    = "REQUEST_TOO_LARGE"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "INVALID_TOKEN"
)

// Resource error codes
const (
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeCompanyNotFound    = "COMPANY_NOT_FOUND"
	ErrCodeAlreadyExists      = "ALREADY_EXISTS"
	ErrCodeInvalidState       = "INVALID_STATE"
	ErrCodeCatalogUnavailable = "CATALOG_UNAVAILABLE"
	ErrCodeIncompleteItem     = "INCOMPLETE_ITEM"
)

// Export error codes
const (
	ErrCodeExportUnavailable = "EXPORT_UNAVAILABLE"
	ErrCodeRenderTimeout     = "RENDER_TIMEOUT"
	ErrCodeRenderFailed      = "RENDER_FAILED"
	ErrCodeRendererMissing   = "RENDERER_NOT_CONFIGURED"
	ErrCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:    http.StatusInternalServerError,
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeValidation:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,
	ErrCodeTimeout:     http.StatusGatewayTimeout,
	ErrCodeTooLarge:    http.StatusRequestEntityTooLarge,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeCompanyNotFound:    http.StatusNotFound,
	ErrCodeAlreadyExists:      http.StatusConflict,
	ErrCodeInvalidState:       http.StatusUnprocessableEntity,
	ErrCodeCatalogUnavailable: http.StatusServiceUnavailable,
	ErrCodeIncompleteItem:     http.StatusBadRequest,

	ErrCodeExportUnavailable: http.StatusNotImplemented,
	ErrCodeRendererMissing:   http.StatusNotImplemented,
	ErrCodeRenderTimeout:     http.StatusGatewayTimeout,
	ErrCodeRenderFailed:      http.StatusBadGateway,
	ErrCodeUnsupportedFormat: http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Codes starting with INVALID_ are input errors; other unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
