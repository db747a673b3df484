package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/veldt-labs/sponsorctl/internal/domain"
	"github.com/veldt-labs/sponsorctl/internal/ports"
	"go.uber.org/zap"
)

const maxResponseBytes = 1 << 20

// Client talks to the remote sponsorship API. Every request goes through
// do(), which injects the API key and JSON headers and normalizes error
// bodies, so header and error handling are defined once.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *zap.Logger
}

var _ ports.Gateway = (*Client)(nil)

func NewClient(baseURL, apiKey string, httpClient *http.Client, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    httpClient,
		log:     log,
	}
}

type poolRecord struct {
	Name        string   `json:"name"`
	StartTime   string   `json:"startTime"`
	EndTime     string   `json:"endTime"`
	UsageCap    float64  `json:"usageCap"`
	Whitelist   []string `json:"whitelist"`
	SponsorInfo string   `json:"sponsorInfo"`
}

func (c *Client) ListPools(ctx context.Context, creatorAddress string) ([]domain.Pool, error) {
	query := url.Values{"creatorAddress": {creatorAddress}}
	body, err := c.do(ctx, http.MethodGet, "/pools", query, nil)
	if err != nil {
		return nil, err
	}

	return decodePoolMap(body)
}

// decodePoolMap walks the id->pool JSON object token by token so the server's
// enumeration order survives decoding.
func decodePoolMap(body []byte) ([]domain.Pool, error) {
	dec := json.NewDecoder(bytes.NewReader(body))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode pools response: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("decode pools response: expected object, got %v", tok)
	}

	var pools []domain.Pool
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode pool id: %w", err)
		}
		id, _ := keyTok.(string)

		var record poolRecord
		if err := dec.Decode(&record); err != nil {
			return nil, fmt.Errorf("decode pool %s: %w", id, err)
		}

		pool := domain.Pool{
			ID:          domain.PoolID(id),
			Name:        record.Name,
			UsageCap:    record.UsageCap,
			StartTime:   parseServerTime(record.StartTime),
			EndTime:     parseServerTime(record.EndTime),
			Whitelist:   record.Whitelist,
			SponsorInfo: record.SponsorInfo,
		}
		pool.NormalizeWhitelist()
		pools = append(pools, pool)
	}

	return pools, nil
}

func (c *Client) PoolBalance(ctx context.Context, id domain.PoolID, creatorAddress string) (float64, error) {
	query := url.Values{"creatorAddress": {creatorAddress}}
	body, err := c.do(ctx, http.MethodGet, "/pool/"+url.PathEscape(string(id))+"/balance", query, nil)
	if err != nil {
		return 0, err
	}

	var payload struct {
		Balance struct {
			EffectiveBalance float64 `json:"effectiveBalance"`
		} `json:"balance"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("decode balance response: %w", err)
	}

	return payload.Balance.EffectiveBalance, nil
}

func (c *Client) CreatePool(ctx context.Context, req ports.CreatePoolRequest) error {
	payload := map[string]any{
		"name":           req.Name,
		"password":       req.Password,
		"startTime":      req.StartTime,
		"endTime":        req.EndTime,
		"usageCap":       req.UsageCap,
		"whitelist":      req.Whitelist,
		"creatorAddress": req.CreatorAddress,
		"sponsorInfo":    req.SponsorInfo,
	}

	_, err := c.do(ctx, http.MethodPost, "/create-pool", nil, payload)
	return err
}

func (c *Client) EditPool(ctx context.Context, id domain.PoolID, password string, req ports.EditPoolRequest) error {
	query := url.Values{
		"password":       {password},
		"creatorAddress": {req.CreatorAddress},
	}
	payload := map[string]any{
		"name":           req.Name,
		"startTime":      req.StartTime,
		"endTime":        req.EndTime,
		"usageCap":       req.UsageCap,
		"whitelist":      req.Whitelist,
		"creatorAddress": req.CreatorAddress,
		"sponsorInfo":    req.SponsorInfo,
	}

	_, err := c.do(ctx, http.MethodPatch, "/pool/"+url.PathEscape(string(id))+"/edit", query, payload)
	return err
}

func (c *Client) DeletePool(ctx context.Context, id domain.PoolID, password, creatorAddress string) error {
	payload := map[string]any{
		"password":       password,
		"creatorAddress": creatorAddress,
	}

	_, err := c.do(ctx, http.MethodDelete, "/pool/"+url.PathEscape(string(id)), nil, payload)
	return err
}

func (c *Client) RevokeAccess(ctx context.Context, id domain.PoolID, password, creatorAddress, walletAddress string) error {
	query := url.Values{
		"password":       {password},
		"creatorAddress": {creatorAddress},
	}
	payload := map[string]any{"walletAddress": walletAddress}

	_, err := c.do(ctx, http.MethodPost, "/pool/"+url.PathEscape(string(id))+"/revoke", query, payload)
	return err
}

func (c *Client) PoolWallet(ctx context.Context, id domain.PoolID, password, creatorAddress string) (json.RawMessage, error) {
	query := url.Values{
		"password":       {password},
		"creatorAddress": {creatorAddress},
	}

	body, err := c.do(ctx, http.MethodPost, "/pool/"+url.PathEscape(string(id))+"/wallet", query, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Wallet json.RawMessage `json:"wallet"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode wallet response: %w", err)
	}

	return payload.Wallet, nil
}

func (c *Client) TopUp(ctx context.Context, id domain.PoolID, creatorAddress, password string, amount float64) (string, error) {
	query := url.Values{"creatorAddress": {creatorAddress}}
	payload := map[string]any{
		"password": password,
		"amount":   amount,
	}

	body, err := c.do(ctx, http.MethodPost, "/pool/"+url.PathEscape(string(id))+"/topup", query, payload)
	if err != nil {
		return "", err
	}

	var result struct {
		TransactionID string `json:"transactionId"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("decode topup response: %w", err)
	}

	return result.TransactionID, nil
}

func (c *Client) ShareCredits(ctx context.Context, poolID domain.PoolID, walletAddress, password string) error {
	payload := map[string]any{
		"eventPoolId":   poolID,
		"walletAddress": walletAddress,
		"password":      password,
	}

	_, err := c.do(ctx, http.MethodPost, "/share-credits", nil, payload)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("X-API-Key", c.apiKey)

	started := time.Now()
	response, err := c.http.Do(request)
	if err != nil {
		return nil, fmt.Errorf("perform request: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.log.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", response.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
	)

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, apiErrorFromBody(response.StatusCode, body)
	}

	return body, nil
}

func apiErrorFromBody(status int, body []byte) *APIError {
	var payload struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	_ = json.Unmarshal(body, &payload)

	apiErr := &APIError{
		Status:  status,
		Message: payload.Error,
		Code:    payload.Code,
	}
	if apiErr.Message == "" {
		apiErr.Message = defaultErrorMessage
	}
	if apiErr.Code == "" {
		apiErr.Code = defaultErrorCode
	}

	return apiErr
}

func parseServerTime(raw string) time.Time {
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
