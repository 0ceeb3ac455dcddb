package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/modcase/pkg/domain/interfaces"
	"github.com/secmon-lab/modcase/pkg/domain/model"
)

// Client delivers case messages to Discord as embeds over the REST API
type Client struct {
	rest rest.Rest
}

var _ interfaces.ChatService = &Client{}

// New creates a Discord service authenticated with a bot token
func New(token string, opts ...rest.ConfigOpt) (*Client, error) {
	if token == "" {
		return nil, goerr.New("Discord bot token is required")
	}

	return &Client{
		rest: rest.New(rest.NewClient(token, opts...)),
	}, nil
}

func parseID(kind, id string) (snowflake.ID, error) {
	sf, err := snowflake.Parse(id)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid snowflake", goerr.V("kind", kind), goerr.V("id", id))
	}
	return sf, nil
}

// ResolveUser looks up a Discord user. Unknown or malformed IDs yield model.UnknownUser.
func (c *Client) ResolveUser(ctx context.Context, userID string) (*model.User, error) {
	sf, err := snowflake.Parse(userID)
	if err != nil {
		return model.UnknownUser(userID), nil
	}

	user, err := c.rest.GetUser(sf, rest.WithCtx(ctx))
	if err != nil {
		var restErr *rest.Error
		if errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
			return model.UnknownUser(userID), nil
		}
		return nil, goerr.Wrap(err, "failed to get user", goerr.V("user_id", userID))
	}

	return &model.User{ID: userID, DisplayName: userDisplayName(user)}, nil
}

func userDisplayName(u *discord.User) string {
	if u.GlobalName != nil && *u.GlobalName != "" {
		return *u.GlobalName
	}
	return u.Username
}

// Mention renders a user reference
func (c *Client) Mention(userID string) string {
	return "<@" + userID + ">"
}

// MessageLink returns the jump URL of a guild message
func (c *Client) MessageLink(guildID, channelID, messageID string) string {
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guildID, channelID, messageID)
}

// FormatLink renders a masked link
func (c *Client) FormatLink(label, url string) string {
	return "[" + label + "](" + url + ")"
}

// Send creates a message in a channel
func (c *Client) Send(ctx context.Context, channelID string, msg *model.Message) (*model.Receipt, error) {
	sf, err := parseID("channel", channelID)
	if err != nil {
		return nil, err
	}

	created, err := c.rest.CreateMessage(sf, toMessageCreate(msg), rest.WithCtx(ctx))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create message", goerr.V("channel_id", channelID))
	}

	return &model.Receipt{
		ChannelID: created.ChannelID.String(),
		MessageID: created.ID.String(),
	}, nil
}
