// Package icon asks an external generation service for a small icon to
// decorate a chore. The call happens only when a chore's title is new
// or changed, and any failure quietly yields an empty icon.
package icon

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *slog.Logger
}

func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 20 * time.Second},
		logger:  logger,
	}
}

// Configured reports whether a generation service URL is set.
func (c *Client) Configured() bool {
	return c.baseURL != ""
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Icon string `json:"icon"`
}

// Generate returns an icon payload for the given chore title, or ""
// when unconfigured or on any failure. No error is ever surfaced.
func (c *Client) Generate(ctx context.Context, title string) string {
	if !c.Configured() || title == "" {
		return ""
	}

	body, err := json.Marshal(generateRequest{Prompt: title})
	if err != nil {
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		c.logger.Debug("icon request build failed", "error", err)
		return ""
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("icon generation failed", "title", title, "error", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("icon generation failed", "title", title, "status", resp.StatusCode)
		return ""
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.logger.Debug("icon response decode failed", "error", err)
		return ""
	}
	return out.Icon
}
