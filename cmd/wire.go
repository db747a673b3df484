package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/veldt-labs/sponsorctl/internal/adapters/gateway"
	"github.com/veldt-labs/sponsorctl/internal/adapters/notify"
	"github.com/veldt-labs/sponsorctl/internal/adapters/prompt"
	tomlrepo "github.com/veldt-labs/sponsorctl/internal/adapters/repo/toml"
	"github.com/veldt-labs/sponsorctl/internal/adapters/wallet"
	"github.com/veldt-labs/sponsorctl/internal/application"
	"github.com/veldt-labs/sponsorctl/internal/domain"
	"github.com/veldt-labs/sponsorctl/internal/ports"
	"github.com/veldt-labs/sponsorctl/pkg/logger"
	"go.uber.org/zap"
)

var errOperationFailed = errors.New("one or more operations failed")

type app struct {
	sessions    ports.SessionRepository
	gateway     ports.Gateway
	registry    *wallet.Registry
	center      *notify.Center
	log         *zap.Logger
	clock       ports.Clock
	httpClient  *http.Client
	keyfilePath string
	agentURL    string
}

func wireApp() (*app, error) {
	// A .env in the working directory is optional.
	_ = godotenv.Load()

	log, err := logger.New(os.Getenv("SPONSOR_DEBUG") != "")
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	sessions, err := tomlrepo.NewRepository(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire session repository: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	keyfilePath := envOrDefault("SPONSOR_KEYFILE", filepath.Join(homeDir, ".sponsorctl", "wallet.json"))
	agentURL := envOrDefault("SPONSOR_AGENT_URL", "http://127.0.0.1:1985")

	registry := wallet.NewRegistry(log)
	registry.Register(wallet.KeyfileStrategyName, func() (ports.WalletStrategy, error) {
		return wallet.NewKeyfileStrategy(keyfilePath)
	})
	registry.Register(wallet.AgentStrategyName, func() (ports.WalletStrategy, error) {
		return wallet.NewAgentStrategy(agentURL, httpClient)
	})

	return &app{
		sessions: sessions,
		gateway: gateway.NewClient(
			envOrDefault("SPONSOR_API_URL", "https://sponsor.veldt.dev"),
			os.Getenv("SPONSOR_API_KEY"),
			httpClient,
			log,
		),
		registry:    registry,
		center:      notify.NewCenter(ports.SystemClock{}),
		log:         log,
		clock:       ports.SystemClock{},
		httpClient:  httpClient,
		keyfilePath: keyfilePath,
		agentURL:    agentURL,
	}, nil
}

func (a *app) sessionService() *application.SessionService {
	return application.NewSessionService(a.sessions, a.registry, a.center, a.log)
}

// poolManager builds a manager bound to the command's stdin for prompts.
// Pool operations require a connected wallet.
func (a *app) poolManager(cmd *cobra.Command) (*application.PoolManager, error) {
	session, err := a.sessions.Load(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !session.Connected {
		return nil, fmt.Errorf("%w: run 'sponsorctl wallet connect' first", domain.ErrNotConnected)
	}

	prompter := prompt.New(cmd.InOrStdin(), cmd.OutOrStdout())
	return application.NewPoolManager(a.gateway, a.sessions, a.center, prompter, a.clock, a.log, session), nil
}

// flush prints pending notifications and turns any error-severity outcome
// into a non-zero exit status.
func (a *app) flush(cmd *cobra.Command) error {
	failed := a.center.Failed()
	a.center.Flush(cmd.OutOrStdout())
	if failed {
		return errOperationFailed
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
