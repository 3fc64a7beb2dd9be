package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ClientConfig describes how to reach the chat-completion backend.
type ClientConfig struct {
	BaseURL  string
	ChatPath string
	APIKey   string
	Timeout  time.Duration
}

// Client calls an HTTP chat-completion endpoint with {message, user} and
// expects a JSON object carrying the reply text.
type Client struct {
	baseURL  string
	chatPath string
	apiKey   string
	http     *http.Client
}

// NewClient validates the configuration and returns a ready-to-use client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("ai: base URL required")
	}
	chatPath := cfg.ChatPath
	if chatPath == "" {
		chatPath = "/api/routes/chat/"
	}
	if !strings.HasPrefix(chatPath, "/") {
		chatPath = "/" + chatPath
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		chatPath: chatPath,
		apiKey:   cfg.APIKey,
		http: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type chatRequest struct {
	Message string `json:"message"`
	User    string `json:"user"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// Chat sends the user message to the backend and returns the reply text.
func (c *Client) Chat(ctx context.Context, message, user string) (Reply, error) {
	data, err := json.Marshal(chatRequest{Message: message, User: user})
	if err != nil {
		return Reply{}, fmt.Errorf("ai: failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.chatPath, bytes.NewBuffer(data))
	if err != nil {
		return Reply{}, fmt.Errorf("ai: request build failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if strings.TrimSpace(c.apiKey) != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Reply{}, fmt.Errorf("ai: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Reply{}, fmt.Errorf("ai: read response failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Reply{}, fmt.Errorf("ai: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return Reply{}, fmt.Errorf("ai: decode response failed: %w", err)
	}
	return Reply{Text: out.Response}, nil
}
