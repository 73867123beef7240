// Package source fetches raw players, scores and fixture outlooks from the upstream API.
package source

import (
	"net/http"
	"time"

	"github.com/okian/scout/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds each upstream request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithBatchSize sets the number of player ids per fixture request.
func WithBatchSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithBatchDelay sets the minimum spacing between fixture requests.
// Zero disables pacing.
func WithBatchDelay(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.batchDelay = d
		}
	}
}

// WithHorizon sets the number of upcoming gameweeks requested per player.
func WithHorizon(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.horizon = n
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}
