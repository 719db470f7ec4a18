// Package fetch retrieves outbreak announcements from configured sources and
// normalizes them into the common RawEvent shape. The WHO fetcher tries the
// structured JSON API first and falls back to scraping the HTML index page.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// requestTimeout bounds every outbound call; a timed-out request counts as a
// failed call and the fallback/no-op path applies.
const requestTimeout = 15 * time.Second

// userAgent mirrors a desktop browser; the WHO endpoints reject obvious bots.
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Client is a rate-limited HTTP client shared by all fetchers.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Client with the standard timeout and a polite request
// rate against upstream sites.
func NewClient() *Client {
	return &Client{
		http:    &http.Client{Timeout: requestTimeout},
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
	}
}

// Get performs a rate-limited GET with the standard headers.
// The caller owns the response body.
func (c *Client) Get(ctx context.Context, url, accept string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}
