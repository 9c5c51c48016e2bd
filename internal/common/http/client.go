// internal/common/http/client.go
package http

import (
	"net/http"
	"time"
)

// Client is a thin wrapper over http.Client enforcing a bounded timeout on
// every provider call; a provider that hangs must not hang the request.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}
