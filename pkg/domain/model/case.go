package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/modcase/pkg/domain/types"
)

// CaseID is the store-assigned opaque identifier of a case
type CaseID string

// NewCaseID generates a new CaseID
func NewCaseID() CaseID {
	return CaseID(uuid.New().String())
}

func (id CaseID) String() string {
	return string(id)
}

// NoteID is the store-assigned opaque identifier of a note
type NoteID string

// NewNoteID generates a new NoteID
func NewNoteID() NoteID {
	return NoteID(uuid.New().String())
}

func (id NoteID) String() string {
	return string(id)
}

// Case is one moderation action recorded against a user.
// UserName, ModName and PPName are snapshots taken at creation time.
type Case struct {
	ID         CaseID
	GuildID    string
	CaseNumber int64
	Type       types.CaseType

	UserID   string
	UserName string
	ModID    string
	ModName  string
	PPID     string // proxy moderator, optional
	PPName   string

	IsHidden     bool
	LogMessageID string // "<channelID>-<messageID>" of the case log announcement, optional
	CreatedAt    time.Time

	// Notes is populated only when the case was loaded with notes, ordered by creation
	Notes []*Note
}

// Validate checks the fields required to create a case
func (c *Case) Validate() error {
	if c.GuildID == "" {
		return goerr.Wrap(ErrInvalidCase, "guild ID is required")
	}
	if c.UserID == "" {
		return goerr.Wrap(ErrInvalidCase, "user ID is required")
	}
	if c.ModID == "" {
		return goerr.Wrap(ErrInvalidCase, "moderator ID is required")
	}
	if !c.Type.IsValid() {
		return goerr.Wrap(ErrInvalidCase, "invalid case type", goerr.V(CaseTypeKey, c.Type))
	}
	return nil
}

// LogMessage splits LogMessageID into channel and message IDs at the last dash; message
// IDs never contain one. ok is false when the case has not been announced or the value is malformed.
func (c *Case) LogMessage() (channelID, messageID string, ok bool) {
	i := strings.LastIndex(c.LogMessageID, "-")
	if i <= 0 || i == len(c.LogMessageID)-1 {
		return "", "", false
	}
	return c.LogMessageID[:i], c.LogMessageID[i+1:], true
}

// FormatLogMessageID builds the value stored in Case.LogMessageID
func FormatLogMessageID(channelID, messageID string) string {
	return channelID + "-" + messageID
}

// Note is an append-only annotation on a case
type Note struct {
	ID        NoteID
	CaseID    CaseID
	ModID     string
	ModName   string
	Body      string
	CreatedAt time.Time
}

// CaseScope is the numbering and lookup scope of cases.
// With Global set, case numbers are shared by every guild and lookups are not restricted to GuildID.
type CaseScope struct {
	GuildID string
	Global  bool
}

// GlobalScopeKey is the numbering key shared by all guilds when cases are global
const GlobalScopeKey = "global"

// Key returns the key used to serialize case number assignment
func (s CaseScope) Key() string {
	if s.Global {
		return GlobalScopeKey
	}
	return "guild:" + s.GuildID
}

// Contains reports whether c is visible from this scope
func (s CaseScope) Contains(c *Case) bool {
	return s.Global || c.GuildID == s.GuildID
}
