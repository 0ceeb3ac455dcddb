package interfaces

import (
	"context"
	"time"

	"github.com/secmon-lab/modcase/pkg/domain/model"
)

// UserResolver resolves chat identities. An ID the platform does not know yields
// model.UnknownUser instead of an error; errors are reserved for transport failures.
type UserResolver interface {
	ResolveUser(ctx context.Context, userID string) (*model.User, error)
}

// Markup renders platform-specific references inside message text
type Markup interface {
	// Mention renders a reference to a user
	Mention(userID string) string

	// MessageLink returns a URL pointing to a delivered message
	MessageLink(guildID, channelID, messageID string) string

	// FormatLink renders a labeled link
	FormatLink(label, url string) string
}

// ChatService delivers messages to a chat platform
type ChatService interface {
	UserResolver
	Markup

	// Send posts a message to a channel
	Send(ctx context.Context, channelID string, msg *model.Message) (*model.Receipt, error)
}

// TimeFormatter renders timestamps with the guild's zone and date formats
type TimeFormatter interface {
	Format(t time.Time, style string) string
}
