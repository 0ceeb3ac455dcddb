package model

// EmptyValue is the placeholder for names and values that must not be empty in an embed
const EmptyValue = "\u200b"

// Size limits of outbound messages, in bytes
const (
	MaxContentBytes    = 2000
	MaxFieldNameBytes  = 256
	MaxFieldValueBytes = 1024
	MaxEmbedBytes      = 6000
)

// MaxEmbedFields is the number of fields a single embed can carry
const MaxEmbedFields = 25

// Message is a platform-neutral outbound chat message: plain content, embeds, or both
type Message struct {
	Content string
	Embeds  []*Embed
}

// Embed is a titled block with a colored marker, ordered name/value fields and a footer
type Embed struct {
	Title  string
	Author string
	Color  int
	Fields []*EmbedField
	Footer string
}

// EmbedField is one name/value pair of an embed
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// TextMessage creates a message with plain content
func TextMessage(content string) *Message {
	return &Message{Content: content}
}

// EmbedMessage creates a message carrying a single embed
func EmbedMessage(embed *Embed) *Message {
	return &Message{Embeds: []*Embed{embed}}
}

// Size returns the number of bytes of user-visible text in the embed
func (e *Embed) Size() int {
	n := len(e.Title) + len(e.Author) + len(e.Footer)
	for _, f := range e.Fields {
		n += len(f.Name) + len(f.Value)
	}
	return n
}

// Receipt identifies a delivered message
type Receipt struct {
	ChannelID string
	MessageID string
}
