package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/modcase/pkg/domain/interfaces"
	"github.com/secmon-lab/modcase/pkg/domain/model"
)

type caseRepository struct {
	mu      sync.RWMutex
	cases   map[model.CaseID]*model.Case
	notes   map[model.CaseID][]*model.Note
	counter map[string]int64 // key: CaseScope.Key()
}

var _ interfaces.CaseRepository = &caseRepository{}

func newCaseRepository() *caseRepository {
	return &caseRepository{
		cases:   make(map[model.CaseID]*model.Case),
		notes:   make(map[model.CaseID][]*model.Note),
		counter: make(map[string]int64),
	}
}

// copyCase creates a copy of a case without notes
func copyCase(c *model.Case) *model.Case {
	copied := *c
	copied.Notes = nil
	return &copied
}

func copyNote(n *model.Note) *model.Note {
	copied := *n
	return &copied
}

// export returns a detached case, with notes attached when requested. Caller holds the lock.
func (r *caseRepository) export(c *model.Case, withNotes bool) *model.Case {
	out := copyCase(c)
	if withNotes {
		notes := r.notes[c.ID]
		out.Notes = make([]*model.Note, len(notes))
		for i, n := range notes {
			out.Notes[i] = copyNote(n)
		}
	}
	return out
}

func (r *caseRepository) Create(ctx context.Context, scope model.CaseScope, c *model.Case) (*model.Case, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := scope.Key()
	r.counter[key]++

	created := copyCase(c)
	created.ID = model.NewCaseID()
	created.CaseNumber = r.counter[key]
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	r.cases[created.ID] = created
	return copyCase(created), nil
}

func (r *caseRepository) Get(ctx context.Context, scope model.CaseScope, id model.CaseID, opts ...interfaces.CaseOption) (*model.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.cases[id]
	if !ok || !scope.Contains(c) {
		return nil, nil
	}
	return r.export(c, interfaces.BuildCaseConfig(opts...).WithNotes()), nil
}

func (r *caseRepository) GetByCaseNumber(ctx context.Context, scope model.CaseScope, number int64, opts ...interfaces.CaseOption) (*model.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	found := r.filter(scope, func(c *model.Case) bool { return c.CaseNumber == number })
	if len(found) == 0 {
		return nil, nil
	}
	return r.export(found[0], interfaces.BuildCaseConfig(opts...).WithNotes()), nil
}

func (r *caseRepository) GetLatestByModID(ctx context.Context, scope model.CaseScope, modID string, opts ...interfaces.CaseOption) (*model.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	found := r.filter(scope, func(c *model.Case) bool { return c.ModID == modID })
	if len(found) == 0 {
		return nil, nil
	}
	return r.export(found[len(found)-1], interfaces.BuildCaseConfig(opts...).WithNotes()), nil
}

func (r *caseRepository) ListByUserID(ctx context.Context, scope model.CaseScope, userID string, opts ...interfaces.CaseOption) ([]*model.Case, error) {
	return r.list(scope, opts, func(c *model.Case) bool { return c.UserID == userID }), nil
}

func (r *caseRepository) ListByUserIDAndModID(ctx context.Context, scope model.CaseScope, userID, modID string, opts ...interfaces.CaseOption) ([]*model.Case, error) {
	return r.list(scope, opts, func(c *model.Case) bool { return c.UserID == userID && c.ModID == modID }), nil
}

func (r *caseRepository) list(scope model.CaseScope, opts []interfaces.CaseOption, match func(*model.Case) bool) []*model.Case {
	r.mu.RLock()
	defer r.mu.RUnlock()

	withNotes := interfaces.BuildCaseConfig(opts...).WithNotes()
	found := r.filter(scope, match)
	result := make([]*model.Case, len(found))
	for i, c := range found {
		result[i] = r.export(c, withNotes)
	}
	return result
}

// filter returns stored cases visible from scope that satisfy match, ascending by case number.
// Caller holds the lock.
func (r *caseRepository) filter(scope model.CaseScope, match func(*model.Case) bool) []*model.Case {
	var found []*model.Case
	for _, c := range r.cases {
		if scope.Contains(c) && match(c) {
			found = append(found, c)
		}
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].CaseNumber != found[j].CaseNumber {
			return found[i].CaseNumber < found[j].CaseNumber
		}
		return found[i].CreatedAt.Before(found[j].CreatedAt)
	})
	return found
}

func (r *caseRepository) AddNote(ctx context.Context, caseID model.CaseID, note *model.Note) (*model.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.cases[caseID]; !ok {
		return nil, goerr.Wrap(model.ErrCaseNotFound, "cannot add note", goerr.V(model.CaseIDKey, caseID))
	}

	created := copyNote(note)
	created.ID = model.NewNoteID()
	created.CaseID = caseID
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	r.notes[caseID] = append(r.notes[caseID], created)
	return copyNote(created), nil
}

func (r *caseRepository) SetHidden(ctx context.Context, caseID model.CaseID, hidden bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cases[caseID]
	if !ok {
		return goerr.Wrap(model.ErrCaseNotFound, "cannot set hidden", goerr.V(model.CaseIDKey, caseID))
	}
	c.IsHidden = hidden
	return nil
}

func (r *caseRepository) SetLogMessageID(ctx context.Context, caseID model.CaseID, logMessageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cases[caseID]
	if !ok {
		return goerr.Wrap(model.ErrCaseNotFound, "cannot set log message", goerr.V(model.CaseIDKey, caseID))
	}
	c.LogMessageID = logMessageID
	return nil
}
