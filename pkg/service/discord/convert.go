package discord

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/secmon-lab/modcase/pkg/domain/model"
)

func toEmbed(e *model.Embed) discord.Embed {
	builder := discord.NewEmbedBuilder().
		SetTitle(e.Title).
		SetColor(e.Color)

	if e.Author != "" {
		builder.SetAuthorName(e.Author)
	}
	if e.Footer != "" {
		builder.SetFooterText(e.Footer)
	}
	for _, f := range e.Fields {
		builder.AddField(f.Name, f.Value, f.Inline)
	}

	return builder.Build()
}

func toMessageCreate(msg *model.Message) discord.MessageCreate {
	builder := discord.NewMessageCreateBuilder().
		SetContent(msg.Content)

	for _, e := range msg.Embeds {
		builder.AddEmbeds(toEmbed(e))
	}

	// Case text never pings the users it mentions
	builder.SetAllowedMentions(&discord.AllowedMentions{})

	return builder.Build()
}
