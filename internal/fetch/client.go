// Package fetch retrieves remote data files over HTTP and mirrors them into a
// local gzip archive that can be replayed instead of the network.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrNotFound is returned when the remote (or archived) file does not exist.
var ErrNotFound = errors.New("not found")

// Source returns the raw body stored at url.
type Source interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// QuerySource is a Source that can also send query parameters.
type QuerySource interface {
	Source
	FetchQuery(ctx context.Context, url string, params map[string]string) ([]byte, error)
}

// Client is a best-effort HTTP source: one request per call, no retries.
type Client struct {
	http  *resty.Client
	debug bool
}

// NewClient creates a client with the given per-request timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		http: resty.New().
			SetTimeout(timeout).
			SetRetryCount(0).
			SetHeader("User-Agent", "ki7mt-vlf-monitor"),
	}
}

// SetDebug enables logging of every requested URL.
func (c *Client) SetDebug(debug bool) *Client {
	c.debug = debug
	return c
}

// Fetch performs a GET request and returns the body on a 2xx response.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	return c.FetchQuery(ctx, url, nil)
}

// FetchQuery performs a GET request with the given query parameters.
func (c *Client) FetchQuery(ctx context.Context, url string, params map[string]string) ([]byte, error) {
	req := c.http.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryParams(params)
	}

	if c.debug {
		log.Printf("GET %s", url)
	}

	resp, err := req.Get(url)
	if err != nil {
		return nil, fmt.Errorf("HTTP GET failed: %w", err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", url, ErrNotFound)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("HTTP %s", resp.Status())
	}

	return resp.Body(), nil
}

var _ QuerySource = (*Client)(nil)
