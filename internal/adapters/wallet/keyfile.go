package wallet

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/veldt-labs/sponsorctl/internal/domain"
	"github.com/veldt-labs/sponsorctl/internal/ports"
)

const KeyfileStrategyName = "keyfile"

// KeyfileStrategy connects with a local Arweave JWK key file. The wallet
// address is the SHA-256 of the RSA modulus, base64url-encoded without
// padding, which yields the 43-character address shape.
type KeyfileStrategy struct {
	path string

	mu      sync.Mutex
	address string
}

var _ ports.WalletStrategy = (*KeyfileStrategy)(nil)

func NewKeyfileStrategy(path string) (*KeyfileStrategy, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, errors.New("key file path is empty")
	}

	return &KeyfileStrategy{path: trimmed}, nil
}

func (s *KeyfileStrategy) Name() string {
	return KeyfileStrategyName
}

func (s *KeyfileStrategy) Connect(ctx context.Context, _ []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read key file: %w", err)
	}

	address, err := AddressFromJWK(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.address = address
	s.mu.Unlock()

	return nil
}

func (s *KeyfileStrategy) Disconnect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.address = ""
	s.mu.Unlock()

	return nil
}

func (s *KeyfileStrategy) ActiveAddress(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.address == "" {
		return "", domain.ErrNotConnected
	}

	return s.address, nil
}

// AddressFromJWK derives the owner address from an Arweave RSA key file.
func AddressFromJWK(data []byte) (string, error) {
	var jwk struct {
		Kty string `json:"kty"`
		N   string `json:"n"`
	}
	if err := json.Unmarshal(data, &jwk); err != nil {
		return "", fmt.Errorf("decode key file: %w", err)
	}
	if jwk.Kty != "RSA" {
		return "", fmt.Errorf("unsupported key type %q", jwk.Kty)
	}
	if jwk.N == "" {
		return "", errors.New("key file missing modulus")
	}

	modulus, err := base64.RawURLEncoding.DecodeString(jwk.N)
	if err != nil {
		return "", fmt.Errorf("decode key modulus: %w", err)
	}

	sum := sha256.Sum256(modulus)
	return base64.RawURLEncoding.EncodeToString(sum[:]), nil
}
