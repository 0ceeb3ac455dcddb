package terminal

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/modcase/pkg/domain/interfaces"
	"github.com/secmon-lab/modcase/pkg/domain/model"
)

// Terminal prints case messages to a writer. It backs the CLI when no chat platform is selected.
type Terminal struct {
	w     io.Writer
	names map[string]string

	title  *color.Color
	author *color.Color
	field  *color.Color
	footer *color.Color

	mu  sync.Mutex
	seq int
}

var _ interfaces.ChatService = &Terminal{}

type Option func(*Terminal)

// WithUserNames sets the display names ResolveUser answers with
func WithUserNames(names map[string]string) Option {
	return func(t *Terminal) {
		for id, name := range names {
			t.names[id] = name
		}
	}
}

// WithNoColor disables escape sequences
func WithNoColor() Option {
	return func(t *Terminal) {
		for _, c := range []*color.Color{t.title, t.author, t.field, t.footer} {
			c.DisableColor()
		}
	}
}

func New(w io.Writer, opts ...Option) *Terminal {
	t := &Terminal{
		w:      w,
		names:  make(map[string]string),
		title:  color.New(color.FgHiWhite, color.Bold),
		author: color.New(color.FgCyan),
		field:  color.New(color.FgYellow),
		footer: color.New(color.Faint),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ResolveUser answers with the configured name, or the ID itself
func (t *Terminal) ResolveUser(_ context.Context, userID string) (*model.User, error) {
	if name, ok := t.names[userID]; ok {
		return &model.User{ID: userID, DisplayName: name}, nil
	}
	return &model.User{ID: userID, DisplayName: userID}, nil
}

func (t *Terminal) Mention(userID string) string {
	return "@" + userID
}

func (t *Terminal) MessageLink(_, channelID, messageID string) string {
	return channelID + "#" + messageID
}

func (t *Terminal) FormatLink(label, url string) string {
	return label + " (" + url + ")"
}

// Send prints a message. Message IDs are sequence numbers within the process.
func (t *Terminal) Send(_ context.Context, channelID string, msg *model.Message) (*model.Receipt, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var b strings.Builder
	if msg.Content != "" {
		b.WriteString(msg.Content + "\n")
	}
	for _, e := range msg.Embeds {
		t.writeEmbed(&b, e)
	}

	if _, err := io.WriteString(t.w, b.String()); err != nil {
		return nil, goerr.Wrap(err, "failed to write message", goerr.V("channel_id", channelID))
	}

	t.seq++
	return &model.Receipt{ChannelID: channelID, MessageID: strconv.Itoa(t.seq)}, nil
}

func (t *Terminal) writeEmbed(b *strings.Builder, e *model.Embed) {
	fmt.Fprintf(b, "%s\n", t.author.Sprint("┃ "))
	if e.Author != "" {
		fmt.Fprintf(b, "%s%s\n", t.author.Sprint("┃ "), t.author.Sprint(e.Author))
	}
	if e.Title != "" {
		fmt.Fprintf(b, "%s%s\n", t.author.Sprint("┃ "), t.title.Sprint(e.Title))
	}
	for _, f := range e.Fields {
		if f.Name != model.EmptyValue && f.Name != "" {
			fmt.Fprintf(b, "%s%s\n", t.author.Sprint("┃ "), t.field.Sprint(f.Name))
		}
		if f.Value == model.EmptyValue {
			continue
		}
		for _, line := range strings.Split(f.Value, "\n") {
			fmt.Fprintf(b, "%s  %s\n", t.author.Sprint("┃ "), line)
		}
	}
	if e.Footer != "" {
		fmt.Fprintf(b, "%s%s\n", t.author.Sprint("┃ "), t.footer.Sprint(e.Footer))
	}
}
