// Package dto contains the request and response shapes of the HTTP API
package dto

// APIResponse represents the standard response structure of the service endpoints
// (health, not found, rate limit, unhandled errors)
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty" validate:"omitempty"`
	Error   any    `json:"error,omitempty" validate:"omitempty"`
}

// ErrorDetail represents error details in API responses
type ErrorDetail struct {
	Code    string `json:"code"`
	Details any    `json:"details,omitempty" validate:"omitempty"`
}

// ErrorResponse is the error body of the note endpoints
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is a plain acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}
