package usecase

import (
	"context"
	"strings"
	"unicode"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/modcase/pkg/domain/interfaces"
	"github.com/secmon-lab/modcase/pkg/domain/model"
	"github.com/secmon-lab/modcase/pkg/domain/types"
)

// CaseQueryResult partitions filtered cases. All slices keep case number order.
type CaseQueryResult struct {
	// All is the input before filtering
	All []*model.Case
	// Matched passed the type and search filters, regardless of visibility
	Matched []*model.Case
	Normal  []*model.Case
	Hidden  []*model.Case
	// Display is the subset selected by the filter's visibility
	Display []*model.Case
}

// FilterCases applies a filter to cases. It is pure and idempotent: filtering
// Display again with the same filter yields the same Display.
func FilterCases(cases []*model.Case, filter model.CaseFilter) *CaseQueryResult {
	query := normalizeSearch(filter.Search)

	result := &CaseQueryResult{
		All:     cases,
		Matched: []*model.Case{},
		Normal:  []*model.Case{},
		Hidden:  []*model.Case{},
	}
	for _, c := range cases {
		if !filter.TypeFilter.Match(c.Type) {
			continue
		}
		if query != "" && !notesContain(c, query) {
			continue
		}

		result.Matched = append(result.Matched, c)
		if c.IsHidden {
			result.Hidden = append(result.Hidden, c)
		} else {
			result.Normal = append(result.Normal, c)
		}
	}

	switch filter.Visibility {
	case types.VisibilityHidden:
		result.Display = result.Hidden
	case types.VisibilityAll:
		result.Display = result.Matched
	default:
		result.Display = result.Normal
	}

	return result
}

// normalizeSearch keeps letters and digits only, lower-cased
func normalizeSearch(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

func notesContain(c *model.Case, query string) bool {
	for _, n := range c.Notes {
		if strings.Contains(normalizeSearch(n.Body), query) {
			return true
		}
	}
	return false
}

// CaseQuery selects the case history of one user
type CaseQuery struct {
	Scope  model.CaseScope
	UserID string
	// ModID restricts to cases by one moderator when set
	ModID  string
	Filter model.CaseFilter
}

// QueryCases fetches the history of a user with notes and filters it
func QueryCases(ctx context.Context, repo interfaces.CaseRepository, q CaseQuery) (*CaseQueryResult, error) {
	var (
		cases []*model.Case
		err   error
	)
	if q.ModID != "" {
		cases, err = repo.ListByUserIDAndModID(ctx, q.Scope, q.UserID, q.ModID, interfaces.WithNotes())
	} else {
		cases, err = repo.ListByUserID(ctx, q.Scope, q.UserID, interfaces.WithNotes())
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list cases",
			goerr.V(model.UserIDKey, q.UserID),
			goerr.V(model.ModIDKey, q.ModID))
	}

	return FilterCases(cases, q.Filter), nil
}
