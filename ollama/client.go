// Package ollama implements the HTTP client for an Ollama-compatible
// inference server: model listing via /api/tags and streaming text
// generation via /api/generate with newline-delimited JSON frames.
//
//	client, err := ollama.NewClient(&ollama.Config{BaseURL: "http://localhost:11434"})
//	units, err := client.Generate(ctx, "llama3", "Explain foo()")
package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client talks to one inference server. Safe for concurrent use; the
// orchestrator serializes generation requests itself.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the configured server.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil || cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{},
	}, nil
}

// BaseURL returns the normalized server root this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Models fetches the identifiers of the models the server hosts, in server
// order. Duplicates are passed through untouched. An empty list is a valid
// result; any transport or decode failure returns an error rather than a
// partial list.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list models: %w: %s", ErrUnexpectedStatus, resp.Status)
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("list models: decode: %w", err)
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// readStatusDetail pulls a short error detail from a failed response body.
func readStatusDetail(body io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(body, 512))
	return strings.TrimSpace(string(b))
}
