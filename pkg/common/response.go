package common

import (
	"github.com/gin-gonic/gin"
)

// correlationIDKey mirrors the gin-context key set by the correlation ID
// middleware. Kept as a literal here to avoid an import cycle with
// pkg/middleware.
const correlationIDKey = "correlation_id"

// APIResponse is the standard success envelope
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// APIError is the standard error envelope. Every error carries the request's
// correlation ID so callers can reference it when reporting problems.
type APIError struct {
	Success       bool        `json:"success"`
	Message       string      `json:"message"`
	CorrelationID string      `json:"correlation_id,omitempty"`
	Details       interface{} `json:"details,omitempty"`
}

// SuccessResponse writes a 200 response with the standard envelope
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(200, APIResponse{Success: true, Data: data})
}

// ErrorResponse writes an error response with the standard envelope
func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, APIError{
		Success:       false,
		Message:       message,
		CorrelationID: c.GetString(correlationIDKey),
	})
}

// ErrorResponseWithDetails writes an error response carrying extra detail
// payload (validation errors, policy metadata).
func ErrorResponseWithDetails(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, APIError{
		Success:       false,
		Message:       message,
		CorrelationID: c.GetString(correlationIDKey),
		Details:       details,
	})
}
