package usecase

import (
	"errors"

	"github.com/secmon-lab/modcase/pkg/domain/model"
)

// Sentinel errors for use case layer
var (
	// Presentation errors
	ErrTooManyCases = errors.New("too many cases for expanded view")

	// Input errors
	ErrUserNotFound      = errors.New("user not found")
	ErrModeratorNotFound = errors.New("moderator not found")
	ErrNoteRequired      = errors.New("note text is required")
)

// Context keys for error values
const (
	CaseCountKey = "case_count"
	ChannelIDKey = "channel_id"
)

// UserMessage returns the text shown to the requester for errors that are the requester's to fix.
// ok is false for internal failures, which get a generic reply.
func UserMessage(err error) (msg string, ok bool) {
	switch {
	case errors.Is(err, ErrTooManyCases):
		return "Too many cases for expanded view. Please use compact view instead.", true
	case errors.Is(err, ErrUserNotFound):
		return "User not found", true
	case errors.Is(err, ErrModeratorNotFound):
		return "Moderator not found", true
	case errors.Is(err, ErrNoteRequired):
		return "Text or attachment required", true
	case errors.Is(err, model.ErrCaseNotFound):
		return "Case not found", true
	case errors.Is(err, model.ErrInvalidCase):
		return "Invalid case", true
	case errors.Is(err, model.ErrGuildNotFound):
		return "This workspace is not configured for moderation cases", true
	}
	return "", false
}
