package asekoapi

import "fmt"

// AuthError means the API key was rejected (401/403). Fatal for a polling
// session: retrying without a new credential cannot succeed.
type AuthError struct {
	Status int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("invalid or expired API key (status %d)", e.Status)
}

// NotFoundError is a 404 for a specific resource.
type NotFoundError struct {
	Endpoint string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.Endpoint)
}

// TransportError wraps network-level failures (DNS, timeout, closed conn).
// Retryable on the next poll tick.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("connection error: %s", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError covers any other non-2xx response.
type APIError struct {
	Status   int
	Endpoint string
	Message  string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API request failed: %s", e.Message)
	}
	return fmt.Sprintf("API request failed: %s returned status %d", e.Endpoint, e.Status)
}
