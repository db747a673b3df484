package wallet

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veldt-labs/sponsorctl/internal/domain"
	"github.com/veldt-labs/sponsorctl/internal/ports"
)

func writeKeyFixture(t *testing.T) string {
	t.Helper()

	modulus := base64.RawURLEncoding.EncodeToString([]byte("test-modulus-bytes"))
	path := filepath.Join(t.TempDir(), "wallet.json")
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(`{"kty":"RSA","n":"%s","e":"AQAB"}`, modulus)), 0o600))
	return path
}

func TestKeyfileStrategyDerivesStableAddress(t *testing.T) {
	t.Parallel()

	path := writeKeyFixture(t)
	strategy, err := NewKeyfileStrategy(path)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, strategy.Connect(ctx, []string{"ACCESS_ADDRESS"}))

	address, err := strategy.ActiveAddress(ctx)
	require.NoError(t, err)
	assert.Len(t, address, 43)
	assert.True(t, domain.IsValidArweaveAddress(address))

	again, err := strategy.ActiveAddress(ctx)
	require.NoError(t, err)
	assert.Equal(t, address, again)
}

func TestKeyfileStrategyAddressRequiresConnect(t *testing.T) {
	t.Parallel()

	strategy, err := NewKeyfileStrategy(writeKeyFixture(t))
	require.NoError(t, err)

	_, err = strategy.ActiveAddress(context.Background())
	require.ErrorIs(t, err, domain.ErrNotConnected)
}

func TestKeyfileStrategyDisconnectClearsAddress(t *testing.T) {
	t.Parallel()

	strategy, err := NewKeyfileStrategy(writeKeyFixture(t))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, strategy.Connect(ctx, nil))
	require.NoError(t, strategy.Disconnect(ctx))

	_, err = strategy.ActiveAddress(ctx)
	require.ErrorIs(t, err, domain.ErrNotConnected)
}

func TestAddressFromJWKRejectsNonRSAKeys(t *testing.T) {
	t.Parallel()

	_, err := AddressFromJWK([]byte(`{"kty":"EC","n":"AQAB"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported key type")
}

func TestAgentStrategyConnectAndAddress(t *testing.T) {
	t.Parallel()

	var connected bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/connect":
			connected = true
			_, _ = fmt.Fprint(w, `{}`)
		case "/address":
			_, _ = fmt.Fprint(w, `{"address":"agent-address-1"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	strategy, err := NewAgentStrategy(server.URL, nil)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, strategy.Connect(ctx, []string{"ACCESS_ADDRESS"}))
	assert.True(t, connected)

	address, err := strategy.ActiveAddress(ctx)
	require.NoError(t, err)
	assert.Equal(t, "agent-address-1", address)
}

func TestAgentStrategySurfacesDaemonErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = fmt.Fprint(w, "locked")
	}))
	defer server.Close()

	strategy, err := NewAgentStrategy(server.URL, nil)
	require.NoError(t, err)

	err = strategy.Connect(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestRegistryKeepsFailedBackendUnavailable(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(nil)
	registry.Register("keyfile", func() (ports.WalletStrategy, error) {
		return nil, errors.New("missing key file")
	})
	registry.Register("agent", func() (ports.WalletStrategy, error) {
		return NewAgentStrategy("http://127.0.0.1:9", nil)
	})

	assert.False(t, registry.Ready())
	assert.Equal(t, []string{"agent"}, registry.Names())

	_, err := registry.Strategy("keyfile")
	require.ErrorIs(t, err, domain.ErrStrategyUnavailable)
	assert.Contains(t, err.Error(), "missing key file")

	_, err = registry.Strategy("unregistered")
	require.ErrorIs(t, err, domain.ErrStrategyUnavailable)

	strategy, err := registry.Strategy("agent")
	require.NoError(t, err)
	assert.Equal(t, "agent", strategy.Name())
}

func TestRegistryReadyWhenAllBackendsBuilt(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(nil)
	registry.Register("keyfile", func() (ports.WalletStrategy, error) {
		return NewKeyfileStrategy(writeKeyFixture(t))
	})

	assert.True(t, registry.Ready())
}
