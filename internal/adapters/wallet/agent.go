package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/veldt-labs/sponsorctl/internal/ports"
)

const AgentStrategyName = "agent"

const maxAgentResponseBytes = 1 << 16

// AgentStrategy connects through a local wallet agent daemon speaking a
// small JSON protocol: POST /connect, POST /disconnect, GET /address.
type AgentStrategy struct {
	baseURL string
	http    *http.Client
}

var _ ports.WalletStrategy = (*AgentStrategy)(nil)

func NewAgentStrategy(baseURL string, httpClient *http.Client) (*AgentStrategy, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("agent url is empty")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &AgentStrategy{baseURL: trimmed, http: httpClient}, nil
}

func (s *AgentStrategy) Name() string {
	return AgentStrategyName
}

func (s *AgentStrategy) Connect(ctx context.Context, permissions []string) error {
	payload, err := json.Marshal(map[string]any{"permissions": permissions})
	if err != nil {
		return fmt.Errorf("encode connect request: %w", err)
	}

	return s.post(ctx, "/connect", payload)
}

func (s *AgentStrategy) Disconnect(ctx context.Context) error {
	return s.post(ctx, "/disconnect", nil)
}

func (s *AgentStrategy) ActiveAddress(ctx context.Context) (string, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/address", nil)
	if err != nil {
		return "", fmt.Errorf("create address request: %w", err)
	}

	response, err := s.http.Do(request)
	if err != nil {
		return "", fmt.Errorf("query wallet agent: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxAgentResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read agent response: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return "", fmt.Errorf("wallet agent status %d: %s", response.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Address string `json:"address"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode agent response: %w", err)
	}
	if payload.Address == "" {
		return "", errors.New("wallet agent returned no address")
	}

	return payload.Address, nil
}

func (s *AgentStrategy) post(ctx context.Context, path string, payload []byte) error {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create agent request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := s.http.Do(request)
	if err != nil {
		return fmt.Errorf("call wallet agent: %w", err)
	}
	defer response.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(response.Body, maxAgentResponseBytes))
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return fmt.Errorf("wallet agent status %d: %s", response.StatusCode, strings.TrimSpace(string(body)))
	}

	return nil
}
