package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veldt-labs/sponsorctl/internal/domain"
	"github.com/veldt-labs/sponsorctl/internal/ports"
)

type fakeStrategy struct {
	name          string
	connectErr    error
	disconnectErr error
	address       string
	addressErr    error

	connectedWith []string
	disconnected  bool
}

func (s *fakeStrategy) Name() string { return s.name }

func (s *fakeStrategy) Connect(ctx context.Context, permissions []string) error {
	s.connectedWith = permissions
	return s.connectErr
}

func (s *fakeStrategy) Disconnect(ctx context.Context) error {
	s.disconnected = true
	return s.disconnectErr
}

func (s *fakeStrategy) ActiveAddress(ctx context.Context) (string, error) {
	return s.address, s.addressErr
}

type fakeRegistry struct {
	strategies map[string]*fakeStrategy
}

func (r *fakeRegistry) Strategy(name string) (ports.WalletStrategy, error) {
	strategy, ok := r.strategies[name]
	if !ok {
		return nil, domain.ErrStrategyUnavailable
	}
	return strategy, nil
}

func (r *fakeRegistry) Ready() bool { return len(r.strategies) > 0 }

func (r *fakeRegistry) Names() []string {
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	return names
}

func TestSessionConnect(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		strategy := &fakeStrategy{name: "keyfile", address: addressOne}
		registry := &fakeRegistry{strategies: map[string]*fakeStrategy{"keyfile": strategy}}
		sessions := &memSessions{session: domain.WalletSession{Generation: 3, SelectedPool: "stale"}}
		notifier := &recordingNotifier{}
		service := NewSessionService(sessions, registry, notifier, nil)

		service.Connect(context.Background(), "keyfile")

		assert.Equal(t, []string{"ACCESS_ADDRESS"}, strategy.connectedWith)
		assert.True(t, sessions.session.Connected)
		assert.Equal(t, addressOne, sessions.session.Address)
		assert.Equal(t, "keyfile", sessions.session.Strategy)
		assert.Equal(t, domain.PoolID(""), sessions.session.SelectedPool)
		assert.Equal(t, uint64(4), sessions.session.Generation)

		entry, ok := notifier.titled("Wallet Connected")
		require.True(t, ok)
		assert.Equal(t, "success", entry.severity)
		assert.Contains(t, entry.message, domain.TruncateAddress(addressOne))
	})

	t.Run("unknown strategy", func(t *testing.T) {
		registry := &fakeRegistry{strategies: map[string]*fakeStrategy{}}
		sessions := &memSessions{}
		notifier := &recordingNotifier{}
		service := NewSessionService(sessions, registry, notifier, nil)

		service.Connect(context.Background(), "ledger")

		entry, ok := notifier.titled("Connection Failed")
		require.True(t, ok)
		assert.Equal(t, "error", entry.severity)
		assert.False(t, sessions.session.Connected)
	})

	t.Run("backend refuses", func(t *testing.T) {
		strategy := &fakeStrategy{name: "agent", connectErr: errors.New("agent offline")}
		registry := &fakeRegistry{strategies: map[string]*fakeStrategy{"agent": strategy}}
		sessions := &memSessions{}
		notifier := &recordingNotifier{}
		service := NewSessionService(sessions, registry, notifier, nil)

		service.Connect(context.Background(), "agent")

		entry, ok := notifier.titled("Connection Failed")
		require.True(t, ok)
		assert.Contains(t, entry.message, "agent offline")
		assert.False(t, sessions.session.Connected)
	})
}

func TestSessionDisconnect(t *testing.T) {
	t.Run("clears session", func(t *testing.T) {
		strategy := &fakeStrategy{name: "keyfile"}
		registry := &fakeRegistry{strategies: map[string]*fakeStrategy{"keyfile": strategy}}
		sessions := &memSessions{session: domain.WalletSession{
			Connected:    true,
			Address:      addressOne,
			Strategy:     "keyfile",
			SelectedPool: "pool-1",
			Generation:   7,
		}}
		notifier := &recordingNotifier{}
		service := NewSessionService(sessions, registry, notifier, nil)

		service.Disconnect(context.Background())

		assert.True(t, strategy.disconnected)
		assert.False(t, sessions.session.Connected)
		assert.Equal(t, domain.PoolID(""), sessions.session.SelectedPool)
		assert.Equal(t, uint64(8), sessions.session.Generation)

		_, ok := notifier.titled("Wallet Disconnected")
		assert.True(t, ok)
	})

	t.Run("backend failure still tears down", func(t *testing.T) {
		strategy := &fakeStrategy{name: "agent", disconnectErr: errors.New("timeout")}
		registry := &fakeRegistry{strategies: map[string]*fakeStrategy{"agent": strategy}}
		sessions := &memSessions{session: domain.WalletSession{
			Connected: true,
			Address:   addressOne,
			Strategy:  "agent",
		}}
		notifier := &recordingNotifier{}
		service := NewSessionService(sessions, registry, notifier, nil)

		service.Disconnect(context.Background())

		assert.False(t, sessions.session.Connected)
		warn, ok := notifier.titled("Disconnect Failed")
		require.True(t, ok)
		assert.Equal(t, "warning", warn.severity)
		_, ok = notifier.titled("Wallet Disconnected")
		assert.True(t, ok)
	})

	t.Run("not connected", func(t *testing.T) {
		registry := &fakeRegistry{strategies: map[string]*fakeStrategy{}}
		sessions := &memSessions{}
		notifier := &recordingNotifier{}
		service := NewSessionService(sessions, registry, notifier, nil)

		service.Disconnect(context.Background())

		entry, ok := notifier.titled("Not Connected")
		require.True(t, ok)
		assert.Equal(t, "info", entry.severity)
	})
}
