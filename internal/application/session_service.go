package application

import (
	"context"

	"github.com/veldt-labs/sponsorctl/internal/domain"
	"github.com/veldt-labs/sponsorctl/internal/ports"
	"go.uber.org/zap"
)

// Permissions requested from every wallet backend on connect.
var connectPermissions = []string{"ACCESS_ADDRESS"}

// SessionService owns the wallet session lifecycle. Connecting picks one
// backend from the registry, adopts its active address, and bumps the
// session generation; disconnecting tears the session down unconditionally,
// reporting but not honoring a backend disconnect failure.
type SessionService struct {
	sessions ports.SessionRepository
	registry ports.StrategyRegistry
	notifier ports.Notifier
	log      *zap.Logger
}

func NewSessionService(sessions ports.SessionRepository, registry ports.StrategyRegistry, notifier ports.Notifier, log *zap.Logger) *SessionService {
	if log == nil {
		log = zap.NewNop()
	}

	return &SessionService{
		sessions: sessions,
		registry: registry,
		notifier: notifier,
		log:      log,
	}
}

func (s *SessionService) Current(ctx context.Context) (domain.WalletSession, error) {
	return s.sessions.Load(ctx)
}

func (s *SessionService) Connect(ctx context.Context, strategyName string) {
	strategy, err := s.registry.Strategy(strategyName)
	if err != nil {
		s.notifier.Error("Connection Failed", err.Error())
		return
	}

	if err := strategy.Connect(ctx, connectPermissions); err != nil {
		s.notifier.Error("Connection Failed", "Error connecting wallet: "+err.Error())
		return
	}

	address, err := strategy.ActiveAddress(ctx)
	if err != nil {
		s.notifier.Error("Connection Failed", "Error reading wallet address: "+err.Error())
		return
	}

	session, err := s.sessions.Load(ctx)
	if err != nil {
		s.notifier.Error("Connection Failed", "Error loading session: "+err.Error())
		return
	}

	session.Connected = true
	session.Address = address
	session.Strategy = strategy.Name()
	session.SelectedPool = ""
	session.Generation++

	if err := s.sessions.Save(ctx, session); err != nil {
		s.notifier.Error("Connection Failed", "Error saving session: "+err.Error())
		return
	}

	s.notifier.Success("Wallet Connected", "Connected as "+domain.TruncateAddress(address))
}

func (s *SessionService) Disconnect(ctx context.Context) {
	session, err := s.sessions.Load(ctx)
	if err != nil {
		s.notifier.Error("Disconnect Failed", "Error loading session: "+err.Error())
		return
	}

	if !session.Connected {
		s.notifier.Info("Not Connected", "No wallet session to disconnect")
		return
	}

	// Backend disconnect failure is reported but never blocks teardown.
	if strategy, err := s.registry.Strategy(session.Strategy); err == nil {
		if err := strategy.Disconnect(ctx); err != nil {
			s.log.Warn("wallet disconnect", zap.String("strategy", session.Strategy), zap.Error(err))
			s.notifier.Warning("Disconnect Failed", "Error disconnecting wallet: "+err.Error())
		}
	}

	if err := s.sessions.Clear(ctx); err != nil {
		s.notifier.Error("Disconnect Failed", "Error clearing session: "+err.Error())
		return
	}

	s.notifier.Success("Wallet Disconnected", "Session cleared")
}
