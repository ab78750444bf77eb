package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/gcbaptista/go-wardrobe-search/internal/errors"
)

// ErrorCode represents standardized error codes for the API
type ErrorCode string

const (
	// Client Error Codes (4xx)
	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrorCodeClosetNotFound   ErrorCode = "CLOSET_NOT_FOUND"
	ErrorCodeItemNotFound     ErrorCode = "ITEM_NOT_FOUND"
	ErrorCodeClosetExists     ErrorCode = "CLOSET_ALREADY_EXISTS"
	ErrorCodeInvalidJSON      ErrorCode = "INVALID_JSON"
	ErrorCodeInvalidQuery     ErrorCode = "INVALID_QUERY"

	// Server Error Codes (5xx)
	ErrorCodeInternalError     ErrorCode = "INTERNAL_ERROR"
	ErrorCodeIndexingFailed    ErrorCode = "INDEXING_FAILED"
	ErrorCodeSearchFailed      ErrorCode = "SEARCH_FAILED"
	ErrorCodePersistenceFailed ErrorCode = "PERSISTENCE_FAILED"
)

// ErrorDetail provides additional context for an error
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// QueryErrorInfo locates a rejected query expression in the parser.
type QueryErrorInfo struct {
	Kind       string `json:"kind"`     // unexpected_token, unknown_field or unterminated_expression
	State      string `json:"state"`    // Parser state at failure
	Fragment   string `json:"fragment"` // Tail of the input read so far
	Key        string `json:"key,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// APIError represents a standardized API error response
type APIError struct {
	Error      string          `json:"error"`
	Code       ErrorCode       `json:"code"`
	Message    string          `json:"message"`
	Details    []ErrorDetail   `json:"details,omitempty"`
	QueryError *QueryErrorInfo `json:"query_error,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
	RequestID  string          `json:"request_id,omitempty"`
}

// APIErrorResponse creates a standardized error response
func APIErrorResponse(code ErrorCode, message string, details ...ErrorDetail) *APIError {
	return &APIError{
		Error:     "Request failed",
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	}
}

func sendAPIError(c *gin.Context, statusCode int, errorResponse *APIError) {
	if requestID, exists := c.Get(requestIDKey); exists {
		if id, ok := requestID.(string); ok {
			errorResponse.RequestID = id
		}
	}
	c.JSON(statusCode, errorResponse)
}

// SendError sends a standardized error response
func SendError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...ErrorDetail) {
	sendAPIError(c, statusCode, APIErrorResponse(code, message, details...))
}

// SendStructuredValidationError sends a validation error with structured details
func SendStructuredValidationError(c *gin.Context, result *ValidationResult) {
	details := make([]ErrorDetail, len(result.Errors))
	for i, err := range result.Errors {
		details[i] = ErrorDetail{
			Field:   err.Field,
			Message: err.Message,
			Code:    "VALIDATION_ERROR",
		}
	}

	SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "Request validation failed", details...)
}

// SendClosetNotFoundError sends a standardized closet not found error
func SendClosetNotFoundError(c *gin.Context, closetName string) {
	SendError(c, http.StatusNotFound, ErrorCodeClosetNotFound,
		"Closet '"+closetName+"' not found")
}

// SendItemNotFoundError sends a standardized item not found error
func SendItemNotFoundError(c *gin.Context, itemID, closetName string) {
	SendError(c, http.StatusNotFound, ErrorCodeItemNotFound,
		"Item '"+itemID+"' not found in closet '"+closetName+"'")
}

// SendClosetExistsError sends a standardized closet already exists error
func SendClosetExistsError(c *gin.Context, closetName string) {
	SendError(c, http.StatusConflict, ErrorCodeClosetExists,
		"Closet '"+closetName+"' already exists")
}

// SendInvalidJSONError sends a standardized invalid JSON error
func SendInvalidJSONError(c *gin.Context, err error) {
	SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON,
		"Invalid JSON in request body: "+err.Error())
}

// SendQueryError sends a 400 describing where the parser rejected the expression.
func SendQueryError(c *gin.Context, pe *internalErrors.ParseError) {
	resp := APIErrorResponse(ErrorCodeInvalidQuery, pe.Error())
	resp.QueryError = &QueryErrorInfo{
		Kind:       pe.KindName(),
		State:      pe.State,
		Fragment:   pe.Fragment,
		Key:        pe.Key,
		Suggestion: pe.Suggestion,
	}
	sendAPIError(c, http.StatusBadRequest, resp)
}

// SendInternalError sends a standardized internal server error
func SendInternalError(c *gin.Context, operation string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeInternalError,
		"Internal error during "+operation+": "+err.Error())
}

// SendIndexingError sends a standardized indexing error
func SendIndexingError(c *gin.Context, operation string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeIndexingFailed,
		"Failed to "+operation+": "+err.Error())
}

// SendSearchError sends a standardized search error
func SendSearchError(c *gin.Context, closetName string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeSearchFailed,
		"Search failed in closet '"+closetName+"': "+err.Error())
}

// SendPersistenceError sends a standardized persistence error
func SendPersistenceError(c *gin.Context, closetName string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodePersistenceFailed,
		"Failed to persist closet '"+closetName+"': "+err.Error())
}

// SendEngineError maps a typed engine error to its response and reports
// whether it did. Unrecognized errors are left to the caller.
func SendEngineError(c *gin.Context, closetName string, err error) bool {
	var pe *internalErrors.ParseError
	var notFound *internalErrors.ItemNotFoundError
	var invalid *internalErrors.ValidationError

	switch {
	case errors.As(err, &pe):
		SendQueryError(c, pe)
	case errors.Is(err, internalErrors.ErrClosetNotFound):
		SendClosetNotFoundError(c, closetName)
	case errors.Is(err, internalErrors.ErrClosetAlreadyExists):
		SendClosetExistsError(c, closetName)
	case errors.As(err, &notFound):
		SendItemNotFoundError(c, notFound.ItemID, closetName)
	case errors.As(err, &invalid):
		result := &ValidationResult{Valid: true}
		result.AddError(invalid.Field, invalid.Message)
		SendStructuredValidationError(c, result)
	default:
		return false
	}
	return true
}
