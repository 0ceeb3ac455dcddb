package slack

import (
	"time"
)

const (
	// DefaultCacheTTL is the default TTL for resolved user names
	DefaultCacheTTL = 10 * time.Minute

	// errUserNotFound is the Slack API error code for unknown users
	errUserNotFound = "user_not_found"
)

// Option is a functional option for client configuration
type Option func(*Client)

// WithCacheTTL sets the TTL for resolved user names
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.cacheTTL = ttl
	}
}

// WithAPIURL points the client at another Slack API endpoint. The URL must end with a slash.
func WithAPIURL(url string) Option {
	return func(c *Client) {
		c.apiURL = url
	}
}

// WithTeamURL sets the workspace URL used for message links instead of asking auth.test
func WithTeamURL(url string) Option {
	return func(c *Client) {
		c.teamURL = url
	}
}
