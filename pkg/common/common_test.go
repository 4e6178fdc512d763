package common

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "agentxrp-backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractListParams(t *testing.T) {
	tests := []struct {
		query     string
		wantSort  string
		wantLimit int
	}{
		{"", "", 25},
		{"?sort=hot&limit=10", "hot", 10},
		{"?limit=500", "", 100},
		{"?limit=abc", "", 25},
		{"?limit=-3", "", 25},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/posts"+tt.query, nil)
			p := ExtractListParams(r, 25, 100)
			assert.Equal(t, tt.wantSort, p.Sort)
			assert.Equal(t, tt.wantLimit, p.Limit)
		})
	}
}

func TestParseJSONBody(t *testing.T) {
	var body struct {
		TxHash string `json:"tx_hash"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"tx_hash":"TXA"}`))
	require.NoError(t, ParseJSONBody(httptest.NewRecorder(), r, &body, DefaultMaxBodyBytes))
	assert.Equal(t, "TXA", body.TxHash)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"tx_hash":`))
	err := ParseJSONBody(httptest.NewRecorder(), r, &body, DefaultMaxBodyBytes)
	assert.True(t, pkgerrors.IsValidation(err))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	err = ParseJSONBody(httptest.NewRecorder(), r, &body, DefaultMaxBodyBytes)
	assert.True(t, pkgerrors.IsValidation(err))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"tx_hash":"`+strings.Repeat("x", 64)+`"}`))
	err = ParseJSONBody(httptest.NewRecorder(), r, &body, 16)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestIdentityContext(t *testing.T) {
	_, ok := GetIdentity(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), Identity{AgentID: "agent001", Name: "alice", Karma: 3})
	id, ok := GetIdentity(ctx)
	require.True(t, ok)
	assert.Equal(t, "alice", id.Name)
}
