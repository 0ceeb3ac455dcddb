package model

import "github.com/secmon-lab/modcase/pkg/domain/types"

// TypeFilter restricts cases by type. An empty Types applies no restriction.
type TypeFilter struct {
	Types []types.CaseType
	Mode  types.FilterMode
}

// Match reports whether a case of type t passes the filter
func (f TypeFilter) Match(t types.CaseType) bool {
	if len(f.Types) == 0 {
		return true
	}
	listed := false
	for _, v := range f.Types {
		if v == t {
			listed = true
			break
		}
	}
	if f.Mode == types.FilterModeExclude {
		return !listed
	}
	return listed
}

// CaseFilter is the filter specification of a case history query
type CaseFilter struct {
	TypeFilter TypeFilter
	Search     string
	Visibility types.Visibility
}
