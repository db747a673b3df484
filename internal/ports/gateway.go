package ports

import (
	"context"
	"encoding/json"

	"github.com/veldt-labs/sponsorctl/internal/domain"
)

// Gateway is the remote sponsorship API. Implementations inject the shared
// API key header and normalize error responses; callers see domain values
// and typed errors only.
type Gateway interface {
	// ListPools returns the creator's pools in server enumeration order,
	// balances unset.
	ListPools(ctx context.Context, creatorAddress string) ([]domain.Pool, error)
	PoolBalance(ctx context.Context, id domain.PoolID, creatorAddress string) (float64, error)
	CreatePool(ctx context.Context, req CreatePoolRequest) error
	EditPool(ctx context.Context, id domain.PoolID, password string, req EditPoolRequest) error
	DeletePool(ctx context.Context, id domain.PoolID, password, creatorAddress string) error
	RevokeAccess(ctx context.Context, id domain.PoolID, password, creatorAddress, walletAddress string) error
	PoolWallet(ctx context.Context, id domain.PoolID, password, creatorAddress string) (json.RawMessage, error)
	TopUp(ctx context.Context, id domain.PoolID, creatorAddress, password string, amount float64) (string, error)
	ShareCredits(ctx context.Context, poolID domain.PoolID, walletAddress, password string) error
}

type CreatePoolRequest struct {
	Name           string
	Password       string
	StartTime      string
	EndTime        string
	UsageCap       float64
	Whitelist      []string
	CreatorAddress string
	SponsorInfo    string
}

type EditPoolRequest struct {
	Name           string
	StartTime      string
	EndTime        string
	UsageCap       float64
	Whitelist      []string
	CreatorAddress string
	SponsorInfo    string
}
