package ports

import "context"

// Prompter is the explicit awaiting-user-input point inside an operation.
// A declined or empty response returns domain.ErrPromptDeclined; operations
// treat that as a distinct abort transition, not a failure of the prompt
// mechanism.
type Prompter interface {
	Password(ctx context.Context, label string) (string, error)
	Amount(ctx context.Context, label string) (float64, error)
	Confirm(ctx context.Context, label string) (bool, error)
}
