package ports

import "context"

// WalletStrategy is one interchangeable wallet-connection backend.
type WalletStrategy interface {
	Name() string
	Connect(ctx context.Context, permissions []string) error
	Disconnect(ctx context.Context) error
	ActiveAddress(ctx context.Context) (string, error)
}

// StrategyRegistry resolves wallet backends by name. Backends that failed to
// initialize stay registered but resolve to an error, so one broken backend
// never disables the rest.
type StrategyRegistry interface {
	Strategy(name string) (WalletStrategy, error)
	Ready() bool
	Names() []string
}
