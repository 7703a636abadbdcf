// Package apiclient talks to a remote Campaign Store over JSON/HTTP.
package apiclient

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

	"go.uber.org/zap"

	appErrors "github.com/unclebandit/fellowship-comms/internal/errors"
)

// Client issues one request per call. Nothing is retried and nothing is cached.
type Client struct {
	BaseURL    *url.URL
	Token      string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

func New(baseURL, token string, logger *zap.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL:    u,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		Logger:     logger,
	}, nil
}

// do sends body as JSON and decodes a 2xx response into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	op := method + " " + path

	ref := &url.URL{Path: path}
	if len(query) > 0 {
		ref.RawQuery = query.Encode()
	}
	target := c.BaseURL.ResolveReference(ref)

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Logger.Warn("request failed", zap.String("op", op), zap.Error(err))
		return appErrors.NewNetwork(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return appErrors.NewAPIError(resp.StatusCode, readErrorMessage(resp.Body))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return appErrors.NewNetwork(op, fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

// readErrorMessage accepts either {"error": "..."} / {"message": "..."} or plain text.
func readErrorMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, 4096))
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return strings.TrimSpace(string(raw))
}
