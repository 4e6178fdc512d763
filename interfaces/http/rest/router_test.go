package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"agentxrp-backend/infrastructure/config"
	"agentxrp-backend/infrastructure/di"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiClient struct {
	t         *testing.T
	srv       *httptest.Server
	container *di.Container
}

func newAPI(t *testing.T, mutate func(*config.Config)) *apiClient {
	t.Helper()
	cfg := config.Default()
	cfg.DatabaseDSN = filepath.Join(t.TempDir(), "api.db")
	cfg.LogLevel = "error"
	if mutate != nil {
		mutate(cfg)
	}

	container, cleanup, err := di.InitializeContainer(context.Background(), cfg)
	require.NoError(t, err)
	srv := httptest.NewServer(container.HTTPHandler())
	t.Cleanup(func() {
		srv.Close()
		_ = container.Close(context.Background())
		cleanup()
	})
	return &apiClient{t: t, srv: srv, container: container}
}

// do sends a request and decodes the JSON response into a generic map
func (c *apiClient) do(method, path, apiKey string, body interface{}) (int, map[string]interface{}) {
	c.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.srv.URL+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func (c *apiClient) register(name, address string) (apiKey string) {
	c.t.Helper()
	status, body := c.do(http.MethodPost, "/api/agents/register", "", map[string]string{
		"name":        name,
		"xrp_address": address,
	})
	require.Equal(c.t, http.StatusOK, status, body)
	assert.NotEmpty(c.t, body["note"])
	agent := body["agent"].(map[string]interface{})
	return agent["api_key"].(string)
}

func TestHealthAndReadiness(t *testing.T) {
	api := newAPI(t, nil)

	status, body := api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])

	status, body = api.do(http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ready", body["status"])
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	api := newAPI(t, nil)

	status, body := api.do(http.MethodGet, "/api/nothing-here", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, true, body["error"])
	assert.Equal(t, "NOT_FOUND", body["type"])

	status, _ = api.do(http.MethodPut, "/api/stats", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAuthentication(t *testing.T) {
	api := newAPI(t, nil)
	key := api.register("alice", "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh")

	status, body := api.do(http.MethodGet, "/api/agents/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", body["type"])

	status, _ = api.do(http.MethodGet, "/api/agents/me", "agentxrp_not_a_real_key", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = api.do(http.MethodGet, "/api/agents/me", key, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice", body["name"])
	assert.NotContains(t, body, "api_key")
}

func TestRegisterConflictAndValidation(t *testing.T) {
	api := newAPI(t, nil)
	api.register("alice", "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh")

	status, body := api.do(http.MethodPost, "/api/agents/register", "", map[string]string{
		"name":        "alice",
		"xrp_address": "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTj",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", body["type"])

	status, body = api.do(http.MethodPost, "/api/agents/register", "", map[string]string{
		"name":        "bob",
		"xrp_address": "not-an-address",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["type"])
}

func TestVoteAndTipFlow(t *testing.T) {
	api := newAPI(t, nil)
	aliceKey := api.register("alice", "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh")
	bobKey := api.register("bob", "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTj")

	status, body := api.do(http.MethodPost, "/api/posts", aliceKey, map[string]string{
		"title":   "Hello ledger",
		"content": "first post",
	})
	require.Equal(t, http.StatusOK, status, body)
	postID := body["post"].(map[string]interface{})["id"].(string)

	// Voting twice keeps a single vote.
	for i := 0; i < 2; i++ {
		status, body = api.do(http.MethodPost, "/api/posts/"+postID+"/upvote", bobKey, nil)
		require.Equal(t, http.StatusOK, status, body)
	}
	assert.Equal(t, float64(1), body["upvotes"])
	assert.Equal(t, float64(0), body["downvotes"])

	status, body = api.do(http.MethodGet, "/api/agents/alice", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["agent"].(map[string]interface{})["karma"])

	status, _ = api.do(http.MethodPost, "/api/posts/missing01/downvote", bobKey, nil)
	assert.Equal(t, http.StatusOK, status)

	tip := map[string]interface{}{
		"tx_hash":      "TXHTTP1",
		"to_agent":     "alice",
		"amount_drops": 5_000_000,
		"post_id":      postID,
	}
	status, body = api.do(http.MethodPost, "/api/tips/record", bobKey, tip)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "TXHTTP1", body["tip"].(map[string]interface{})["tx_hash"])

	status, body = api.do(http.MethodPost, "/api/tips/record", bobKey, tip)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE_TX_HASH", body["code"])

	status, body = api.do(http.MethodPost, "/api/tips/record", bobKey, map[string]interface{}{
		"tx_hash":      "TXHTTP2",
		"to_agent":     "nobody",
		"amount_drops": 1,
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "RECIPIENT_NOT_FOUND", body["code"])

	status, body = api.do(http.MethodGet, "/api/posts/"+postID, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(5_000_000), body["post"].(map[string]interface{})["tips_drops"])

	status, body = api.do(http.MethodGet, "/api/leaderboard?by=tips", "", nil)
	require.Equal(t, http.StatusOK, status)
	board := body["leaderboard"].([]interface{})
	require.Len(t, board, 2)
	assert.Equal(t, "alice", board[0].(map[string]interface{})["name"])

	status, _ = api.do(http.MethodGet, "/api/leaderboard?by=followers", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = api.do(http.MethodGet, "/api/stats", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), body["agents"])
	assert.Equal(t, float64(1), body["posts"])
	assert.Equal(t, float64(5), body["tips_xrp"])
}

func TestCommentFlow(t *testing.T) {
	api := newAPI(t, nil)
	key := api.register("alice", "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh")

	_, body := api.do(http.MethodPost, "/api/posts", key, map[string]string{"title": "Discuss"})
	postID := body["post"].(map[string]interface{})["id"].(string)

	status, body := api.do(http.MethodPost, "/api/posts/"+postID+"/comments", key, map[string]string{
		"content": "agreed",
	})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, true, body["success"])

	status, _ = api.do(http.MethodPost, "/api/posts/missing01/comments", key, map[string]string{
		"content": "lost",
	})
	assert.Equal(t, http.StatusNotFound, status)

	status, body = api.do(http.MethodGet, "/api/posts/"+postID, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["comments"], 1)
}

func TestRateLimitOnProtectedRoutes(t *testing.T) {
	api := newAPI(t, func(cfg *config.Config) {
		cfg.RateLimitPerMinute = 1
		cfg.RateLimitBurst = 1
	})
	key := api.register("alice", "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh")

	status, _ := api.do(http.MethodGet, "/api/agents/me", key, nil)
	assert.Equal(t, http.StatusOK, status)

	status, body := api.do(http.MethodGet, "/api/agents/me", key, nil)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, "RATE_LIMIT", body["type"])

	// Public routes are not limited.
	status, _ = api.do(http.MethodGet, "/api/stats", "", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestStorageFailureHidesDetails(t *testing.T) {
	api := newAPI(t, func(cfg *config.Config) {
		cfg.Environment = "development"
	})
	require.NoError(t, api.container.Store.Close())

	status, body := api.do(http.MethodGet, "/api/stats", "", nil)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "DATABASE", body["type"])
	assert.Equal(t, "An internal error occurred", body["message"])
	assert.NotContains(t, body, "details")
}
