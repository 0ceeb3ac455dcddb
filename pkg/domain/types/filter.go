package types

// FilterMode selects whether a type filter keeps or drops the listed case types
type FilterMode int

const (
	// FilterModeInclude keeps only cases whose type is listed
	FilterModeInclude FilterMode = iota
	// FilterModeExclude drops cases whose type is listed
	FilterModeExclude
)

func (m FilterMode) String() string {
	switch m {
	case FilterModeInclude:
		return "include"
	case FilterModeExclude:
		return "exclude"
	default:
		return "unknown"
	}
}

// Visibility selects which partition of hidden and non-hidden cases is displayed
type Visibility int

const (
	// VisibilityNormal shows only cases that are not hidden
	VisibilityNormal Visibility = iota
	// VisibilityHidden shows only hidden cases
	VisibilityHidden
	// VisibilityAll shows every case
	VisibilityAll
)

func (v Visibility) String() string {
	switch v {
	case VisibilityNormal:
		return "normal"
	case VisibilityHidden:
		return "hidden"
	case VisibilityAll:
		return "all"
	default:
		return "unknown"
	}
}
