package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veldt-labs/sponsorctl/internal/domain"
	"github.com/veldt-labs/sponsorctl/internal/ports"
)

func TestClientInjectsSharedHeaders(t *testing.T) {
	t.Parallel()

	var gotKey, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		gotContentType = r.Header.Get("Content-Type")
		_, _ = fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "deploy-key-1", nil, nil)
	_, err := client.ListPools(context.Background(), "creator")
	require.NoError(t, err)
	assert.Equal(t, "deploy-key-1", gotKey)
	assert.Equal(t, "application/json", gotContentType)
}

func TestClientListPoolsPreservesEnumerationOrder(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pools", r.URL.Path)
		assert.Equal(t, "creator-1", r.URL.Query().Get("creatorAddress"))
		_, _ = fmt.Fprint(w, `{
			"zz-first": {"name":"First","startTime":"2026-03-01T00:00:00Z","endTime":"2026-03-10T00:00:00Z","usageCap":5,"whitelist":["a","a "],"sponsorInfo":"launch"},
			"aa-second": {"name":"Second","startTime":"2026-04-01T00:00:00Z","endTime":"2026-04-10T00:00:00Z","usageCap":2,"whitelist":[],"sponsorInfo":""}
		}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", nil, nil)
	pools, err := client.ListPools(context.Background(), "creator-1")
	require.NoError(t, err)
	require.Len(t, pools, 2)

	assert.Equal(t, domain.PoolID("zz-first"), pools[0].ID)
	assert.Equal(t, domain.PoolID("aa-second"), pools[1].ID)
	assert.Equal(t, "First", pools[0].Name)
	assert.Equal(t, []string{"a"}, pools[0].Whitelist)
	assert.Nil(t, pools[0].Balance)
	assert.Equal(t, float64(5), pools[0].UsageCap)
	assert.Equal(t, 2026, pools[0].StartTime.Year())
}

func TestClientErrorBodyBecomesAPIError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = fmt.Fprint(w, `{"error":"wrong password","code":"INVALID_PASSWORD"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", nil, nil)
	err := client.DeletePool(context.Background(), "pool-1", "pw", "creator")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "wrong password", apiErr.Message)
	assert.Equal(t, "INVALID_PASSWORD", apiErr.Code)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "wrong password (INVALID_PASSWORD)", apiErr.Error())
}

func TestClientErrorDefaultsWhenBodyIsOpaque(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = fmt.Fprint(w, `<html>bad gateway</html>`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", nil, nil)
	_, err := client.PoolBalance(context.Background(), "pool-1", "creator")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Failed to perform API request", apiErr.Message)
	assert.Equal(t, "UNKNOWN_ERROR", apiErr.Code)
}

func TestClientPoolBalanceReadsEffectiveBalance(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pool/pool%201/balance", r.URL.EscapedPath())
		_, _ = fmt.Fprint(w, `{"balance":{"effectiveBalance":12.5}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", nil, nil)
	balance, err := client.PoolBalance(context.Background(), "pool 1", "creator")
	require.NoError(t, err)
	assert.Equal(t, 12.5, balance)
}

func TestClientTopUpReturnsTransactionID(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "creator", r.URL.Query().Get("creatorAddress"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "pw", body["password"])
		assert.Equal(t, 4.2, body["amount"])

		_, _ = fmt.Fprint(w, `{"transactionId":"tx-99"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", nil, nil)
	tx, err := client.TopUp(context.Background(), "pool-1", "creator", "pw", 4.2)
	require.NoError(t, err)
	assert.Equal(t, "tx-99", tx)
}

func TestClientShareCreditsSendsEventPoolID(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/share-credits", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "pool-1", body["eventPoolId"])
		assert.Equal(t, "addr-1", body["walletAddress"])
		_, _ = fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", nil, nil)
	require.NoError(t, client.ShareCredits(context.Background(), "pool-1", "addr-1", "pw"))
}

func TestClientEditPoolPutsCredentialsInQuery(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/pool/pool-1/edit", r.URL.Path)
		assert.Equal(t, "pw", r.URL.Query().Get("password"))
		assert.Equal(t, "creator", r.URL.Query().Get("creatorAddress"))
		_, _ = fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", nil, nil)
	err := client.EditPool(context.Background(), "pool-1", "pw", ports.EditPoolRequest{
		Name:           "renamed",
		CreatorAddress: "creator",
	})
	require.NoError(t, err)
}
