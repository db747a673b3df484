package domain

import "errors"

var (
	ErrNoPoolSelected      = errors.New("no pool selected")
	ErrNotConnected        = errors.New("wallet not connected")
	ErrPromptDeclined      = errors.New("prompt declined")
	ErrStrategyUnavailable = errors.New("wallet strategy unavailable")
)

// ValidationError is a client-side gate failure: it is reported to the user
// under Title before any network request is made.
type ValidationError struct {
	Title  string
	Detail string
}

func (e *ValidationError) Error() string {
	return e.Title + ": " + e.Detail
}
