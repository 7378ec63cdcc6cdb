// Package utils provides utility functions for the application.
package utils

// ToPtr returns a pointer to the given value
func ToPtr[T any](v T) *T {
	return &v
}

// contextKey is an unexported type for request-scoped context values
type contextKey string

// Request-scoped context keys set by the HTTP handlers
const (
	RequestIDKey contextKey = "request_id"
	UserAgentKey contextKey = "user_agent"
	IPAddressKey contextKey = "ip_address"
	EndpointKey  contextKey = "endpoint"
	TimeoutKey   contextKey = "timeout"
)
