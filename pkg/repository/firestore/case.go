package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/modcase/pkg/domain/interfaces"
	"github.com/secmon-lab/modcase/pkg/domain/model"
	"github.com/secmon-lab/modcase/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type caseRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.CaseRepository = &caseRepository{}

func newCaseRepository(client *firestore.Client) *caseRepository {
	return &caseRepository{
		client:           client,
		collectionPrefix: "",
	}
}

type caseDoc struct {
	ID           string    `firestore:"id"`
	GuildID      string    `firestore:"guild_id"`
	CaseNumber   int64     `firestore:"case_number"`
	Type         string    `firestore:"type"`
	UserID       string    `firestore:"user_id"`
	UserName     string    `firestore:"user_name"`
	ModID        string    `firestore:"mod_id"`
	ModName      string    `firestore:"mod_name"`
	PPID         string    `firestore:"pp_id"`
	PPName       string    `firestore:"pp_name"`
	Hidden       bool      `firestore:"hidden"`
	LogMessageID string    `firestore:"log_message_id"`
	CreatedAt    time.Time `firestore:"created_at"`
}

type noteDoc struct {
	ID        string    `firestore:"id"`
	CaseID    string    `firestore:"case_id"`
	ModID     string    `firestore:"mod_id"`
	ModName   string    `firestore:"mod_name"`
	Body      string    `firestore:"body"`
	CreatedAt time.Time `firestore:"created_at"`
}

func toCaseDoc(c *model.Case) *caseDoc {
	return &caseDoc{
		ID:           c.ID.String(),
		GuildID:      c.GuildID,
		CaseNumber:   c.CaseNumber,
		Type:         c.Type.String(),
		UserID:       c.UserID,
		UserName:     c.UserName,
		ModID:        c.ModID,
		ModName:      c.ModName,
		PPID:         c.PPID,
		PPName:       c.PPName,
		Hidden:       c.IsHidden,
		LogMessageID: c.LogMessageID,
		CreatedAt:    c.CreatedAt,
	}
}

func (d *caseDoc) toModel() *model.Case {
	return &model.Case{
		ID:           model.CaseID(d.ID),
		GuildID:      d.GuildID,
		CaseNumber:   d.CaseNumber,
		Type:         types.CaseType(d.Type),
		UserID:       d.UserID,
		UserName:     d.UserName,
		ModID:        d.ModID,
		ModName:      d.ModName,
		PPID:         d.PPID,
		PPName:       d.PPName,
		IsHidden:     d.Hidden,
		LogMessageID: d.LogMessageID,
		CreatedAt:    d.CreatedAt,
	}
}

func (d *noteDoc) toModel() *model.Note {
	return &model.Note{
		ID:        model.NoteID(d.ID),
		CaseID:    model.CaseID(d.CaseID),
		ModID:     d.ModID,
		ModName:   d.ModName,
		Body:      d.Body,
		CreatedAt: d.CreatedAt,
	}
}

func (r *caseRepository) casesCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_cases"
	}
	return "cases"
}

func (r *caseRepository) counterCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_case_counters"
	}
	return "case_counters"
}

const notesCollection = "notes"

func (r *caseRepository) caseRef(id model.CaseID) *firestore.DocumentRef {
	return r.client.Collection(r.casesCollection()).Doc(id.String())
}

// scopedQuery returns the cases query restricted to what scope can see
func (r *caseRepository) scopedQuery(scope model.CaseScope) firestore.Query {
	q := r.client.Collection(r.casesCollection()).Query
	if !scope.Global {
		q = q.Where("guild_id", "==", scope.GuildID)
	}
	return q
}

func (r *caseRepository) Create(ctx context.Context, scope model.CaseScope, c *model.Case) (*model.Case, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	created := *c
	created.Notes = nil
	created.ID = model.NewCaseID()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	counterRef := r.client.Collection(r.counterCollection()).Doc(scope.Key())
	caseRef := r.caseRef(created.ID)

	// Counter increment and case write commit together, so a number is never skipped or reused
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var next int64 = 1
		doc, err := tx.Get(counterRef)
		switch {
		case status.Code(err) == codes.NotFound:
		case err != nil:
			return goerr.Wrap(err, "failed to get case counter")
		default:
			current, err := doc.DataAt("value")
			if err != nil {
				return goerr.Wrap(err, "failed to get counter value")
			}
			val, ok := current.(int64)
			if !ok {
				return goerr.New("counter value is not of type int64", goerr.V("value", current))
			}
			next = val + 1
		}

		created.CaseNumber = next
		if err := tx.Set(counterRef, map[string]interface{}{"value": next}); err != nil {
			return goerr.Wrap(err, "failed to update case counter")
		}
		return tx.Create(caseRef, toCaseDoc(&created))
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create case",
			goerr.V("scope", scope.Key()),
			goerr.V(model.UserIDKey, c.UserID))
	}

	return &created, nil
}

func (r *caseRepository) Get(ctx context.Context, scope model.CaseScope, id model.CaseID, opts ...interfaces.CaseOption) (*model.Case, error) {
	snap, err := r.caseRef(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get case", goerr.V(model.CaseIDKey, id))
	}

	var doc caseDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode case", goerr.V(model.CaseIDKey, id))
	}

	c := doc.toModel()
	if !scope.Contains(c) {
		return nil, nil
	}
	if interfaces.BuildCaseConfig(opts...).WithNotes() {
		if c.Notes, err = r.listNotes(ctx, c.ID); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (r *caseRepository) GetByCaseNumber(ctx context.Context, scope model.CaseScope, number int64, opts ...interfaces.CaseOption) (*model.Case, error) {
	q := r.scopedQuery(scope).
		Where("case_number", "==", number).
		OrderBy("created_at", firestore.Asc).
		Limit(1)
	return r.first(ctx, q, opts)
}

func (r *caseRepository) GetLatestByModID(ctx context.Context, scope model.CaseScope, modID string, opts ...interfaces.CaseOption) (*model.Case, error) {
	q := r.scopedQuery(scope).
		Where("mod_id", "==", modID).
		OrderBy("case_number", firestore.Desc).
		Limit(1)
	return r.first(ctx, q, opts)
}

func (r *caseRepository) ListByUserID(ctx context.Context, scope model.CaseScope, userID string, opts ...interfaces.CaseOption) ([]*model.Case, error) {
	q := r.scopedQuery(scope).
		Where("user_id", "==", userID).
		OrderBy("case_number", firestore.Asc)
	return r.query(ctx, q, opts)
}

func (r *caseRepository) ListByUserIDAndModID(ctx context.Context, scope model.CaseScope, userID, modID string, opts ...interfaces.CaseOption) ([]*model.Case, error) {
	q := r.scopedQuery(scope).
		Where("user_id", "==", userID).
		Where("mod_id", "==", modID).
		OrderBy("case_number", firestore.Asc)
	return r.query(ctx, q, opts)
}

func (r *caseRepository) first(ctx context.Context, q firestore.Query, opts []interfaces.CaseOption) (*model.Case, error) {
	cases, err := r.query(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	if len(cases) == 0 {
		return nil, nil
	}
	return cases[0], nil
}

func (r *caseRepository) query(ctx context.Context, q firestore.Query, opts []interfaces.CaseOption) ([]*model.Case, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	cases := []*model.Case{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate cases")
		}

		var doc caseDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode case", goerr.V("doc_id", snap.Ref.ID))
		}
		cases = append(cases, doc.toModel())
	}

	if interfaces.BuildCaseConfig(opts...).WithNotes() {
		for _, c := range cases {
			notes, err := r.listNotes(ctx, c.ID)
			if err != nil {
				return nil, err
			}
			c.Notes = notes
		}
	}

	return cases, nil
}

func (r *caseRepository) listNotes(ctx context.Context, caseID model.CaseID) ([]*model.Note, error) {
	iter := r.caseRef(caseID).Collection(notesCollection).
		OrderBy("created_at", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	notes := []*model.Note{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate notes", goerr.V(model.CaseIDKey, caseID))
		}

		var doc noteDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode note", goerr.V("doc_id", snap.Ref.ID))
		}
		notes = append(notes, doc.toModel())
	}
	return notes, nil
}

func (r *caseRepository) AddNote(ctx context.Context, caseID model.CaseID, note *model.Note) (*model.Note, error) {
	created := *note
	created.ID = model.NewNoteID()
	created.CaseID = caseID
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	caseRef := r.caseRef(caseID)
	noteRef := caseRef.Collection(notesCollection).Doc(created.ID.String())

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(caseRef); err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(model.ErrCaseNotFound, "cannot add note", goerr.V(model.CaseIDKey, caseID))
			}
			return goerr.Wrap(err, "failed to get case", goerr.V(model.CaseIDKey, caseID))
		}

		return tx.Create(noteRef, &noteDoc{
			ID:        created.ID.String(),
			CaseID:    caseID.String(),
			ModID:     created.ModID,
			ModName:   created.ModName,
			Body:      created.Body,
			CreatedAt: created.CreatedAt,
		})
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to add note", goerr.V(model.CaseIDKey, caseID))
	}

	return &created, nil
}

func (r *caseRepository) SetHidden(ctx context.Context, caseID model.CaseID, hidden bool) error {
	return r.update(ctx, caseID, firestore.Update{Path: "hidden", Value: hidden})
}

func (r *caseRepository) SetLogMessageID(ctx context.Context, caseID model.CaseID, logMessageID string) error {
	return r.update(ctx, caseID, firestore.Update{Path: "log_message_id", Value: logMessageID})
}

// update modifies fields of an existing case document. Update fails with NotFound on a missing document.
func (r *caseRepository) update(ctx context.Context, caseID model.CaseID, updates ...firestore.Update) error {
	if _, err := r.caseRef(caseID).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(model.ErrCaseNotFound, "case not found", goerr.V(model.CaseIDKey, caseID))
		}
		return goerr.Wrap(err, "failed to update case", goerr.V(model.CaseIDKey, caseID))
	}
	return nil
}
