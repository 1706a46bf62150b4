package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeValidation = "VALIDATION_ERROR"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed here fall back to 422: they are domain rejections,
// not transport problems.
var ErrorCodeHTTPStatus = map[string]int{
	// Transport and input
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,
	"INVALID_INPUT":   http.StatusBadRequest,
	"INVALID_PRICE":   http.StatusBadRequest,

	// Missing resources
	"NOT_FOUND":        http.StatusNotFound,
	"LANE_NOT_FOUND":   http.StatusNotFound,
	"ITEM_NOT_FOUND":   http.StatusNotFound,
	"BAG_NOT_FOUND":    http.StatusNotFound,
	"LINE_NOT_FOUND":   http.StatusNotFound,
	"TENDER_NOT_FOUND": http.StatusNotFound,

	// Conflicting state
	"DUPLICATE_ITEM":       http.StatusConflict,
	"DUPLICATE_SUBMIT":     http.StatusConflict,
	"SESSION_ALREADY_OPEN": http.StatusConflict,

	// Business rule rejections
	"AMBIGUOUS_ITEM":          http.StatusUnprocessableEntity,
	"SESSION_CLOSED":          http.StatusUnprocessableEntity,
	"EMPTY_CART":              http.StatusUnprocessableEntity,
	"NO_CLIENT":               http.StatusUnprocessableEntity,
	"NO_BAG":                  http.StatusUnprocessableEntity,
	"NO_PENDING_RESTOCK":      http.StatusUnprocessableEntity,
	"TENDER_SHORTFALL":        http.StatusUnprocessableEntity,
	"TENDER_EXCEEDS_TOTAL":    http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":      http.StatusUnprocessableEntity,
	"INSUFFICIENT_BALANCE":    http.StatusUnprocessableEntity,
	"INVALID_STATE":           http.StatusUnprocessableEntity,
	"INVALID_OPENING_BALANCE": http.StatusUnprocessableEntity,

	// Collaborator failures
	"REMOTE_FAILURE": http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for a domain error code
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusUnprocessableEntity
}
