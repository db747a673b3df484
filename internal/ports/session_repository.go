package ports

import (
	"context"

	"github.com/veldt-labs/sponsorctl/internal/domain"
)

// SessionRepository persists the wallet session between CLI invocations.
// Load returns a zero-value disconnected session when none exists.
type SessionRepository interface {
	Load(ctx context.Context) (domain.WalletSession, error)
	Save(ctx context.Context, session domain.WalletSession) error
	Clear(ctx context.Context) error
}
