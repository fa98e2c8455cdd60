package tokenizer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteEngine_Tag(t *testing.T) {
	var gotPath string
	var gotReq engineRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(engineResponse{
			Tokens: []engineToken{
				{Text: "I", Tag: "PRON"},
				{Text: "run", Tag: "VERB"},
			},
		})
	}))
	defer server.Close()

	provider := NewRemoteEngineProvider(RemoteEngineConfig{BaseURL: server.URL, Timeout: 5})
	engine := provider(FamilyLatin, "en")

	require.NoError(t, engine.EnsureReady(context.Background()))
	assert.Equal(t, "/models", gotPath)
	assert.Equal(t, "latin", gotReq.Family)
	assert.Equal(t, "en", gotReq.Language)

	tokens, err := engine.Tag(context.Background(), "I run")
	require.NoError(t, err)
	assert.Equal(t, "/tag", gotPath)
	assert.Equal(t, "I run", gotReq.Text)
	require.Len(t, tokens, 2)
	assert.Equal(t, EngineToken{Text: "run", Tag: "VERB"}, tokens[1])
}

func TestRemoteEngine_ServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(engineResponse{Error: "model unavailable"})
	}))
	defer server.Close()

	provider := NewRemoteEngineProvider(RemoteEngineConfig{BaseURL: server.URL, Timeout: 5})
	engine := provider(FamilyJapanese, "ja")

	_, err := engine.Tag(context.Background(), "猫")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model unavailable")
}
