package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

const maxPayloadBytes = 256 << 20

type ClientConfig struct {
	BaseURL  string
	Token    string
	Timeout  time.Duration
	RetryMax int
}

// Client fetches payloads over HTTP with bounded retries.
type Client struct {
	baseURL *url.URL
	token   string
	http    *retryablehttp.Client
}

func NewClient(cfg ClientConfig) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid upstream base url %q", cfg.BaseURL)
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryMax
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = nil
	if cfg.Timeout > 0 {
		rc.HTTPClient.Timeout = cfg.Timeout
	}
	rc.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		if attempt > 0 {
			zerolog.Ctx(req.Context()).Warn().
				Str("url", req.URL.Redacted()).
				Int("attempt", attempt).
				Msg("retrying upstream request")
		}
	}

	return &Client{
		baseURL: base,
		token:   cfg.Token,
		http:    rc,
	}, nil
}

func (c *Client) Fetch(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	logger := zerolog.Ctx(ctx)

	target := c.baseURL.JoinPath(strings.TrimPrefix(endpoint, "/"))
	target.RawQuery = query.Encode()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrUnavailable, endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnavailable, endpoint, err)
	}

	logger.Debug().
		Str("endpoint", endpoint).
		Int("bytes", len(body)).
		Dur("took", time.Since(start)).
		Msg("fetched upstream payload")
	return body, nil
}
