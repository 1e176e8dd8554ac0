// Package network provides a pre-configured, shared HTTP client for playlist and segment retrieval.
package network

import (
	"context"
	"net/http"
	"time"

	"github.com/hlsrip-cli/hlsrip/constant"
)

// Client is the singleton HTTP client shared across the application for efficient resource utilization.
// It carries a one-minute overall timeout so a stalled CDN surfaces as a fetch failure instead of hanging the run.
var Client = &http.Client{
	Timeout:   time.Minute,
	Transport: newTransport(),
}

// newTransport initializes a tuned http.Transport with optimized pool and timeout parameters.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 100
	t.MaxConnsPerHost = 200
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	return t
}

// NewRequest constructs a GET request with the application User-Agent attached.
func NewRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", constant.UserAgent)
	return req, nil
}
