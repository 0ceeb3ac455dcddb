package types

import (
	"fmt"
	"strings"
)

// CaseType is the kind of moderation action a case records
type CaseType string

const (
	CaseTypeBan     CaseType = "BAN"
	CaseTypeUnban   CaseType = "UNBAN"
	CaseTypeNote    CaseType = "NOTE"
	CaseTypeWarn    CaseType = "WARN"
	CaseTypeKick    CaseType = "KICK"
	CaseTypeMute    CaseType = "MUTE"
	CaseTypeUnmute  CaseType = "UNMUTE"
	CaseTypeDeleted CaseType = "DELETED"
	CaseTypeSoftban CaseType = "SOFTBAN"
)

// AllCaseTypes returns all valid case types
func AllCaseTypes() []CaseType {
	return []CaseType{
		CaseTypeBan,
		CaseTypeUnban,
		CaseTypeNote,
		CaseTypeWarn,
		CaseTypeKick,
		CaseTypeMute,
		CaseTypeUnmute,
		CaseTypeDeleted,
		CaseTypeSoftban,
	}
}

// IsValid checks if the case type is one of the known types
func (t CaseType) IsValid() bool {
	for _, v := range AllCaseTypes() {
		if t == v {
			return true
		}
	}
	return false
}

// String returns the string representation of the case type
func (t CaseType) String() string {
	return string(t)
}

// ParseCaseType parses a case type name, ignoring letter case
func ParseCaseType(s string) (CaseType, error) {
	t := CaseType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("invalid case type: %s", s)
	}
	return t, nil
}
