package slack

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/modcase/pkg/domain/interfaces"
	"github.com/secmon-lab/modcase/pkg/domain/model"
	"github.com/secmon-lab/modcase/pkg/utils/logging"
	"github.com/slack-go/slack"
)

// cacheEntry holds a resolved user with expiration
type cacheEntry struct {
	user      *model.User
	expiresAt time.Time
}

// Client delivers case messages to Slack as attachments
type Client struct {
	api      *slack.Client
	apiURL   string
	cacheTTL time.Duration

	mu      sync.RWMutex
	cache   map[string]cacheEntry
	teamURL string
}

var _ interfaces.ChatService = &Client{}

// New creates a new Slack service with the provided bot token
func New(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}

	c := &Client{
		cacheTTL: DefaultCacheTTL,
		cache:    make(map[string]cacheEntry),
	}

	for _, opt := range opts {
		opt(c)
	}

	var apiOpts []slack.Option
	if c.apiURL != "" {
		apiOpts = append(apiOpts, slack.OptionAPIURL(c.apiURL))
	}
	c.api = slack.New(token, apiOpts...)

	return c, nil
}

// ResolveUser returns the display name of a Slack user. Unknown users yield model.UnknownUser.
func (c *Client) ResolveUser(ctx context.Context, userID string) (*model.User, error) {
	now := time.Now()

	c.mu.RLock()
	entry, ok := c.cache[userID]
	c.mu.RUnlock()
	if ok && entry.expiresAt.After(now) {
		return entry.user, nil
	}

	info, err := c.api.GetUserInfoContext(ctx, userID)
	if err != nil {
		if err.Error() == errUserNotFound {
			return model.UnknownUser(userID), nil
		}
		return nil, goerr.Wrap(err, "failed to get user info", goerr.V("user_id", userID))
	}

	user := &model.User{ID: info.ID, DisplayName: userDisplayName(info)}

	c.mu.Lock()
	c.cache[userID] = cacheEntry{user: user, expiresAt: now.Add(c.cacheTTL)}
	c.mu.Unlock()

	return user, nil
}

func userDisplayName(u *slack.User) string {
	switch {
	case u.Profile.DisplayName != "":
		return u.Profile.DisplayName
	case u.RealName != "":
		return u.RealName
	default:
		return u.Name
	}
}

// TeamURL retrieves the workspace URL (e.g., "https://example.slack.com/").
// The result is cached for the lifetime of the client.
func (c *Client) TeamURL(ctx context.Context) (string, error) {
	c.mu.RLock()
	cached := c.teamURL
	c.mu.RUnlock()
	if cached != "" {
		return cached, nil
	}

	resp, err := c.api.AuthTestContext(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to call auth.test")
	}

	c.mu.Lock()
	c.teamURL = resp.URL
	c.mu.Unlock()

	return resp.URL, nil
}

// Mention renders a user reference
func (c *Client) Mention(userID string) string {
	return "<@" + userID + ">"
}

// MessageLink returns the archive URL of a message. messageID is the message timestamp.
// Without a known workspace URL the generic slack.com host is used.
func (c *Client) MessageLink(_, channelID, messageID string) string {
	c.mu.RLock()
	base := c.teamURL
	c.mu.RUnlock()
	if base == "" {
		base = "https://slack.com/"
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return fmt.Sprintf("%sarchives/%s/p%s", base, channelID, strings.ReplaceAll(messageID, ".", ""))
}

// FormatLink renders a labeled link in mrkdwn
func (c *Client) FormatLink(label, url string) string {
	return "<" + url + "|" + label + ">"
}

// Send posts a message and returns its channel and timestamp
func (c *Client) Send(ctx context.Context, channelID string, msg *model.Message) (*model.Receipt, error) {
	// Resolve the workspace URL while a context is at hand so later links point to it
	if _, err := c.TeamURL(ctx); err != nil {
		logging.From(ctx).Warn("workspace URL unavailable, message links use slack.com", "error", err.Error())
	}

	channel, ts, err := c.api.PostMessageContext(ctx, channelID, toMsgOptions(msg)...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to post message", goerr.V("channel_id", channelID))
	}

	return &model.Receipt{ChannelID: channel, MessageID: ts}, nil
}
