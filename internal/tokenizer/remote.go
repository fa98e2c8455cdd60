package tokenizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// RemoteEngineConfig configures the HTTP tagging engine client.
type RemoteEngineConfig struct {
	BaseURL string
	Timeout int // seconds
}

// RemoteEngine calls an external tagging service over HTTP. One instance
// serves one (family, model language) pair.
type RemoteEngine struct {
	config     RemoteEngineConfig
	family     Family
	modelLang  string
	httpClient *http.Client
}

// NewRemoteEngineProvider returns an EngineProvider backed by the tagging
// service at config.BaseURL.
func NewRemoteEngineProvider(config RemoteEngineConfig) EngineProvider {
	return func(family Family, modelLang string) Engine {
		return &RemoteEngine{
			config:    config,
			family:    family,
			modelLang: modelLang,
			httpClient: &http.Client{
				Timeout: time.Duration(config.Timeout) * time.Second,
			},
		}
	}
}

type engineRequest struct {
	Family   string `json:"family"`
	Language string `json:"language"`
	Text     string `json:"text,omitempty"`
}

type engineResponse struct {
	Tokens []engineToken `json:"tokens"`
	Error  string        `json:"error,omitempty"`
}

type engineToken struct {
	Text string `json:"text"`
	Tag  string `json:"tag"`
}

// EnsureReady asks the service to load the language model. Loading an
// already-loaded model is a no-op on the service side, so retries are safe.
func (e *RemoteEngine) EnsureReady(ctx context.Context) error {
	_, err := e.makeRequest(ctx, "/models", engineRequest{
		Family:   e.family.String(),
		Language: e.modelLang,
	})
	return err
}

func (e *RemoteEngine) Tag(ctx context.Context, text string) ([]EngineToken, error) {
	resp, err := e.makeRequest(ctx, "/tag", engineRequest{
		Family:   e.family.String(),
		Language: e.modelLang,
		Text:     text,
	})
	if err != nil {
		return nil, err
	}
	tokens := make([]EngineToken, 0, len(resp.Tokens))
	for _, tok := range resp.Tokens {
		tokens = append(tokens, EngineToken{Text: tok.Text, Tag: tok.Tag})
	}
	return tokens, nil
}

func (e *RemoteEngine) makeRequest(ctx context.Context, path string, payload engineRequest) (*engineResponse, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.config.BaseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		if os.IsTimeout(err) {
			return nil, fmt.Errorf("tagging request timed out: %w", err)
		}
		return nil, fmt.Errorf("tagging request failed: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var engineResp engineResponse
	if err := json.Unmarshal(responseBody, &engineResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if engineResp.Error != "" {
		return &engineResp, fmt.Errorf("tagging service error: %s", engineResp.Error)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &engineResp, fmt.Errorf("tagging request failed with status %d: %s", resp.StatusCode, string(responseBody))
	}
	return &engineResp, nil
}
