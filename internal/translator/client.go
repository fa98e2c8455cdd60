package translator

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

// ClientConfig holds the configuration for the phrase-translation API.
type ClientConfig struct {
	APIKey  string
	APIURL  string
	Timeout int // seconds
}

func (c ClientConfig) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("translation API key is required")
	}
	if c.APIURL == "" {
		return fmt.Errorf("translation API URL is required")
	}
	return nil
}

// Client is a PhraseService backed by a machine-translation REST API.
// Requests are synchronous with no retries; a transient failure is a
// permanent failure for that item within the current request.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
}

func NewClient(config ClientConfig) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.Timeout) * time.Second,
		},
	}, nil
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source,omitempty"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type translateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("translation API error %d: %s", e.Code, e.Message)
}

func (c *Client) Translate(ctx context.Context, text, src, dst string) (string, error) {
	payload := translateRequest{
		Q:      text,
		Source: src,
		Target: dst,
		Format: "text",
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.APIURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if os.IsTimeout(err) {
			return "", fmt.Errorf("translation request timed out: %w", err)
		}
		return "", fmt.Errorf("translation request failed: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	var translateResp translateResponse
	if err := json.Unmarshal(responseBody, &translateResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if translateResp.Error != nil && translateResp.Error.Message != "" {
		return "", translateResp.Error
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("translation request failed with status %d: %s", resp.StatusCode, string(responseBody))
	}
	if len(translateResp.Data.Translations) == 0 {
		return "", fmt.Errorf("no translations in response")
	}
	return translateResp.Data.Translations[0].TranslatedText, nil
}
