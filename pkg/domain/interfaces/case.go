package interfaces

import (
	"context"

	"github.com/secmon-lab/modcase/pkg/domain/model"
)

// CaseRepository defines the interface for Case data access.
// Lookups that find nothing return nil, nil. Results are restricted to what scope can see.
type CaseRepository interface {
	// Create assigns an ID and the next case number in scope, then persists the case
	Create(ctx context.Context, scope model.CaseScope, c *model.Case) (*model.Case, error)

	// Get retrieves a case by ID
	Get(ctx context.Context, scope model.CaseScope, id model.CaseID, opts ...CaseOption) (*model.Case, error)

	// GetByCaseNumber retrieves a case by its number in scope
	GetByCaseNumber(ctx context.Context, scope model.CaseScope, number int64, opts ...CaseOption) (*model.Case, error)

	// GetLatestByModID retrieves the most recently numbered case created by a moderator
	GetLatestByModID(ctx context.Context, scope model.CaseScope, modID string, opts ...CaseOption) (*model.Case, error)

	// ListByUserID lists cases against a user in ascending case number
	ListByUserID(ctx context.Context, scope model.CaseScope, userID string, opts ...CaseOption) ([]*model.Case, error)

	// ListByUserIDAndModID lists cases against a user created by one moderator, in ascending case number
	ListByUserIDAndModID(ctx context.Context, scope model.CaseScope, userID, modID string, opts ...CaseOption) ([]*model.Case, error)

	// AddNote appends a note to a case. Returns model.ErrCaseNotFound if the case does not exist.
	AddNote(ctx context.Context, caseID model.CaseID, note *model.Note) (*model.Note, error)

	// SetHidden sets the hidden flag of a case
	SetHidden(ctx context.Context, caseID model.CaseID, hidden bool) error

	// SetLogMessageID records where the case was announced
	SetLogMessageID(ctx context.Context, caseID model.CaseID, logMessageID string) error
}

// CaseOption is a functional option for case lookups
type CaseOption func(*caseConfig)

type caseConfig struct {
	withNotes bool
}

// WithNotes loads the notes of returned cases
func WithNotes() CaseOption {
	return func(c *caseConfig) {
		c.withNotes = true
	}
}

// BuildCaseConfig builds a caseConfig from options
func BuildCaseConfig(opts ...CaseOption) *caseConfig {
	cfg := &caseConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithNotes reports whether notes should be loaded
func (c *caseConfig) WithNotes() bool {
	return c.withNotes
}
