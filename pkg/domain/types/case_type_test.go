package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/modcase/pkg/domain/types"
)

func TestCaseType_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		caseType types.CaseType
		want     bool
	}{
		{name: "warn", caseType: types.CaseTypeWarn, want: true},
		{name: "softban", caseType: types.CaseTypeSoftban, want: true},
		{name: "lower case is not a stored value", caseType: types.CaseType("warn"), want: false},
		{name: "empty", caseType: types.CaseType(""), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, tt.caseType.IsValid()).Equal(tt.want)
		})
	}
}

func TestParseCaseType(t *testing.T) {
	t.Run("parses ignoring letter case", func(t *testing.T) {
		got, err := types.ParseCaseType(" Mute ")
		gt.NoError(t, err).Required()
		gt.Value(t, got).Equal(types.CaseTypeMute)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := types.ParseCaseType("timeout")
		gt.Value(t, err).NotNil()
	})
}

func TestAllCaseTypes(t *testing.T) {
	seen := map[types.CaseType]bool{}
	for _, ct := range types.AllCaseTypes() {
		gt.Bool(t, seen[ct]).False()
		seen[ct] = true
	}
	gt.Value(t, len(seen)).Equal(9)
}
