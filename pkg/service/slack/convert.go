package slack

import (
	"fmt"
	"strings"

	"github.com/secmon-lab/modcase/pkg/domain/model"
	"github.com/slack-go/slack"
)

var mrkdwnReplacer = strings.NewReplacer(
	"**", "*",
	"__", "_",
)

// toMrkdwn converts the bold and underline markers of case text to Slack mrkdwn
func toMrkdwn(s string) string {
	return mrkdwnReplacer.Replace(s)
}

func toAttachment(e *model.Embed) slack.Attachment {
	fields := make([]slack.AttachmentField, 0, len(e.Fields))
	for _, f := range e.Fields {
		fields = append(fields, slack.AttachmentField{
			Title: toMrkdwn(f.Name),
			Value: toMrkdwn(f.Value),
			Short: f.Inline,
		})
	}

	return slack.Attachment{
		Color:      fmt.Sprintf("#%06x", e.Color),
		AuthorName: e.Author,
		Title:      e.Title,
		Fields:     fields,
		Footer:     e.Footer,
		MarkdownIn: []string{"text", "fields", "pretext"},
	}
}

func toMsgOptions(msg *model.Message) []slack.MsgOption {
	opts := []slack.MsgOption{}
	if msg.Content != "" {
		opts = append(opts, slack.MsgOptionText(toMrkdwn(msg.Content), false))
	}
	if len(msg.Embeds) > 0 {
		attachments := make([]slack.Attachment, 0, len(msg.Embeds))
		for _, e := range msg.Embeds {
			attachments = append(attachments, toAttachment(e))
		}
		opts = append(opts, slack.MsgOptionAttachments(attachments...))
	}
	return opts
}
