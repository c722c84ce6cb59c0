// Package curse talks to the Curse REST proxy and the project feed.
package curse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"curse-modpack/addon"
	"curse-modpack/config"

	"go.uber.org/zap"
)

const defaultTimeout = 60 * time.Second

// ModSource looks mods up by identification; the local search index
// implements it.
type ModSource interface {
	WithID(id int) (addon.Mod, error)
}

// Client handles communication with the REST proxy.
type Client struct {
	BaseURL    string
	FeedURL    string // contains an {id} placeholder for the game
	UserAgent  string
	HTTPClient *http.Client
	Auth       *Authorization // optional
	Mods       ModSource      // required by LatestFileTree
	Log        *zap.SugaredLogger
}

// NewClient creates a new proxy client using the provided configuration.
func NewClient(cfg config.Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("USERAGENT is not configured")
	}
	if cfg.CurseProxyURL == "" {
		return nil, fmt.Errorf("CURSE_PROXY_URL is not configured")
	}

	return &Client{
		BaseURL:   strings.TrimRight(cfg.CurseProxyURL, "/"),
		FeedURL:   cfg.CurseFeedURL,
		UserAgent: cfg.UserAgent,
		HTTPClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}, nil
}

func (c *Client) log() *zap.SugaredLogger {
	if c.Log == nil {
		return zap.NewNop().Sugar()
	}
	return c.Log
}

// makeRequest sends the request. JSON bodies are decoded into target; for
// binary requests the caller owns the returned response body.
func (c *Client) makeRequest(ctx context.Context, method, fullURL string, payload, target any, isBinary bool) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.UserAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Auth != nil {
		req.Header.Set("Authorization", c.Auth.header())
	}
	if !isBinary {
		req.Header.Set("Accept", "application/json")
	} else {
		req.Header.Set("Accept", "application/octet-stream")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		resp.Body.Close()
		return resp, &StatusError{URL: fullURL, Code: resp.StatusCode, Body: strings.TrimSpace(string(bodyBytes))}
	}

	if target != nil && !isBinary {
		defer resp.Body.Close()
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return resp, fmt.Errorf("failed to decode json response: %w", err)
		}
	}

	return resp, nil
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL  string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return "request to " + e.URL + " failed: status " + strconv.Itoa(e.Code) + ", body: " + e.Body
}
