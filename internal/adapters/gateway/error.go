package gateway

import "fmt"

const (
	defaultErrorMessage = "Failed to perform API request"
	defaultErrorCode    = "UNKNOWN_ERROR"
)

// APIError is a non-2xx response from the sponsorship service, carrying the
// human-readable message and machine code from the body's error/code fields.
type APIError struct {
	Status  int
	Message string
	Code    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}
