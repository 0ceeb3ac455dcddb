package usecase

import (
	"fmt"
	"strings"

	"github.com/secmon-lab/modcase/pkg/domain/interfaces"
	"github.com/secmon-lab/modcase/pkg/domain/model"
	"github.com/secmon-lab/modcase/pkg/utils/chunk"
)

const (
	// NoteFieldBytes is the budget of one note field value, leaving room for markup under MaxFieldValueBytes
	NoteFieldBytes = 1014

	// CompactReasonBytes caps the reason shown in a compact line
	CompactReasonBytes = 300

	noNotesFieldName = "!!! THIS CASE HAS NO NOTES !!!"
	logLinkLabel     = "Go to original case in case log channel"
)

// CaseRenderer renders cases for one guild. It is pure given its collaborators.
type CaseRenderer struct {
	guild  *model.GuildConfig
	markup interfaces.Markup
	times  interfaces.TimeFormatter
}

// NewCaseRenderer creates a renderer bound to a guild's configuration
func NewCaseRenderer(guild *model.GuildConfig, markup interfaces.Markup, times interfaces.TimeFormatter) *CaseRenderer {
	return &CaseRenderer{
		guild:  guild,
		markup: markup,
		times:  times,
	}
}

// RenderOption customizes the detailed rendering
type RenderOption func(*renderConfig)

type renderConfig struct {
	withoutLogLink bool
}

// WithoutLogLink omits the link back to the case log announcement
func WithoutLogLink() RenderOption {
	return func(c *renderConfig) {
		c.withoutLogLink = true
	}
}

// CompactLine renders a case as one summary line. Notes must be loaded.
func (r *CaseRenderer) CompactLine(c *model.Case) string {
	var b strings.Builder

	if icon := r.guild.CaseIcon(c.Type); icon != "" {
		b.WriteString(icon + " ")
	}
	fmt.Fprintf(&b, "`#%d` __%s__ **%s** by %s (%s): ",
		c.CaseNumber,
		c.Type.String(),
		c.UserName,
		c.ModName,
		r.times.Format(c.CreatedAt, model.DateStyleDate))

	if len(c.Notes) == 0 {
		b.WriteString("*No reason specified*")
	} else {
		b.WriteString(compactReason(c.Notes[0].Body))
		if more := len(c.Notes) - 1; more > 0 {
			fmt.Fprintf(&b, " *(+%d %s)*", more, plural(more, "more note", "more notes"))
		}
	}

	if c.IsHidden {
		b.WriteString(" *(hidden)*")
	}

	return b.String()
}

// compactReason flattens a note body to one line and truncates it at a rune boundary
func compactReason(body string) string {
	reason := strings.Join(strings.Fields(body), " ")
	if reason == "" {
		return "*No reason specified*"
	}
	if len(reason) <= CompactReasonBytes {
		return reason
	}
	return chunk.Text(reason, CompactReasonBytes)[0] + "..."
}

// Detailed renders the full embed of a case. Notes must be loaded.
func (r *CaseRenderer) Detailed(c *model.Case, opts ...RenderOption) *model.Embed {
	cfg := &renderConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	title := fmt.Sprintf("%s - Case #%d", strings.ToUpper(c.Type.String()), c.CaseNumber)
	if icon := r.guild.CaseIcon(c.Type); icon != "" {
		title = icon + " " + title
	}
	if c.IsHidden {
		title += " (hidden)"
	}

	embed := &model.Embed{
		Title:  title,
		Color:  r.guild.CaseColor(c.Type),
		Footer: "Case created on " + r.times.Format(c.CreatedAt, model.DateStylePrettyDatetime),
		Fields: []*model.EmbedField{
			{Name: "User", Value: r.userValue(c), Inline: true},
			{Name: "Moderator", Value: r.moderatorValue(c), Inline: true},
		},
	}

	if len(c.Notes) == 0 {
		embed.Fields = append(embed.Fields, &model.EmbedField{
			Name:  noNotesFieldName,
			Value: model.EmptyValue,
		})
	}
	for _, note := range c.Notes {
		embed.Fields = append(embed.Fields, r.noteFields(note)...)
	}

	if channelID, messageID, ok := c.LogMessage(); ok && !cfg.withoutLogLink {
		link := r.markup.MessageLink(c.GuildID, channelID, messageID)
		embed.Fields = append(embed.Fields, &model.EmbedField{
			Name:  model.EmptyValue,
			Value: r.markup.FormatLink(logLinkLabel, link),
		})
	}

	return embed
}

func (r *CaseRenderer) userValue(c *model.Case) string {
	lines := []string{c.UserName}
	// "0" marks cases recorded against no real account
	if c.UserID != "" && c.UserID != "0" {
		lines = append(lines, r.markup.Mention(c.UserID))
	}
	return nonEmpty(strings.TrimSpace(strings.Join(lines, "\n")))
}

func (r *CaseRenderer) moderatorValue(c *model.Case) string {
	lines := []string{c.ModName}
	if c.ModID != "" {
		lines = append(lines, r.markup.Mention(c.ModID))
	}
	if c.PPID != "" {
		lines = append(lines, "p.p. "+c.PPName, r.markup.Mention(c.PPID))
	}
	return nonEmpty(strings.TrimSpace(strings.Join(lines, "\n")))
}

// noteFields splits a note into consecutive fields; only the first carries the author header
func (r *CaseRenderer) noteFields(note *model.Note) []*model.EmbedField {
	body := escapeCodeBlock(strings.TrimSpace(note.Body))
	if body == "" {
		body = model.EmptyValue
	}

	chunks := chunk.Text(body, NoteFieldBytes)
	fields := make([]*model.EmbedField, 0, len(chunks))
	for i, part := range chunks {
		name := model.EmptyValue
		if i == 0 {
			name = fmt.Sprintf("%s at %s:", note.ModName, r.times.Format(note.CreatedAt, model.DateStylePrettyDatetime))
		}
		fields = append(fields, &model.EmbedField{Name: name, Value: part})
	}
	return fields
}

func escapeCodeBlock(s string) string {
	return strings.ReplaceAll(s, "```", "\\`\\`\\`")
}

func nonEmpty(s string) string {
	if s == "" {
		return model.EmptyValue
	}
	return s
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
