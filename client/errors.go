package client

import "fmt"

// NetworkError means no HTTP response was received at all, after any
// configured retries were exhausted.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: no response received: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError carries a non-success envelope returned by the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error (%d)", e.StatusCode)
}
