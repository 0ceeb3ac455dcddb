package http_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	httpctrl "github.com/secmon-lab/modcase/pkg/controller/http"
	"github.com/secmon-lab/modcase/pkg/domain/types"
	"github.com/secmon-lab/modcase/pkg/usecase"
)

var testInv = usecase.Invocation{GuildID: "T001", ChannelID: "C001", ActorID: "U900"}

func TestTokenize(t *testing.T) {
	gt.Array(t, httpctrl.Tokenize(`cases  <@U100|spam>   -s "free nitro"`)).
		Equal([]string{"cases", "<@U100|spam>", "-s", "free nitro"})
	gt.Array(t, httpctrl.Tokenize("  ")).Length(0)
	gt.Array(t, httpctrl.Tokenize(`note U1 ""`)).Equal([]string{"note", "U1", ""})
}

func TestParseUserRef(t *testing.T) {
	testCases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "<@U100>", want: "U100"},
		{in: "<@U100|spammer>", want: "U100"},
		{in: "<@!123456789>", want: "123456789"},
		{in: "U100", want: "U100"},
		{in: "@spammer", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := httpctrl.ParseUserRef(tc.in)
			if tc.wantErr {
				gt.Bool(t, errors.Is(err, httpctrl.ErrInvalidCommand)).True()
				return
			}
			gt.NoError(t, err).Required()
			gt.Value(t, got).Equal(tc.want)
		})
	}
}

func TestRunCommand_Cases(t *testing.T) {
	ctx := context.Background()

	t.Run("plain history request", func(t *testing.T) {
		uc := newMockCaseUseCase()
		gt.NoError(t, httpctrl.RunCommand(ctx, uc, testInv, "cases <@U100|spammer>")).Required()

		c := uc.lastCall()
		gt.Value(t, c.method).Equal("ShowUserCases")
		gt.Value(t, c.inv).Equal(testInv)
		input := c.input.(usecase.UserCasesInput)
		gt.Value(t, input.UserID).Equal("U100")
		gt.Bool(t, input.Expanded).False()
		gt.Array(t, input.Filter.TypeFilter.Types).Length(0)
		gt.Value(t, input.Filter.Visibility).Equal(types.VisibilityNormal)
	})

	t.Run("switches and options", func(t *testing.T) {
		uc := newMockCaseUseCase()
		err := httpctrl.RunCommand(ctx, uc, testInv,
			`cases U100 -e -h -r -w -um -bans -mod <@U901> -search "free nitro"`)
		gt.NoError(t, err).Required()

		input := uc.lastCall().input.(usecase.UserCasesInput)
		gt.Bool(t, input.Expanded).True()
		gt.Value(t, input.ModID).Equal("U901")
		gt.Value(t, input.Filter.Search).Equal("free nitro")
		gt.Value(t, input.Filter.Visibility).Equal(types.VisibilityAll)
		gt.Value(t, input.Filter.TypeFilter.Mode).Equal(types.FilterModeExclude)
		gt.Array(t, input.Filter.TypeFilter.Types).Equal([]types.CaseType{
			types.CaseTypeWarn, types.CaseTypeUnmute, types.CaseTypeBan,
		})
	})

	t.Run("rejects malformed requests", func(t *testing.T) {
		for _, text := range []string{
			"",
			"cases",
			"cases U100 U101",
			"cases U100 -unknown",
			"cases U100 -mod",
			"case",
			"case abc",
			"case 0",
			"hide",
			"add BAN",
			"add PARDON U100",
			"note",
			"dance",
		} {
			uc := newMockCaseUseCase()
			err := httpctrl.RunCommand(ctx, uc, testInv, text)
			gt.Bool(t, errors.Is(err, httpctrl.ErrInvalidCommand)).True()
			gt.Array(t, uc.calls).Length(0)
		}
	})
}

func TestRunCommand_CaseOperations(t *testing.T) {
	ctx := context.Background()

	t.Run("show case", func(t *testing.T) {
		uc := newMockCaseUseCase()
		gt.NoError(t, httpctrl.RunCommand(ctx, uc, testInv, "case #12")).Required()
		c := uc.lastCall()
		gt.Value(t, c.method).Equal("ShowCase")
		gt.Value(t, c.input).Equal(any(int64(12)))
	})

	t.Run("add with reason", func(t *testing.T) {
		uc := newMockCaseUseCase()
		gt.NoError(t, httpctrl.RunCommand(ctx, uc, testInv, "add ban <@U100> posting -scam- links")).Required()
		input := uc.lastCall().input.(usecase.CreateCaseInput)
		gt.Value(t, input.Type).Equal(types.CaseTypeBan)
		gt.Value(t, input.UserID).Equal("U100")
		gt.Value(t, input.Reason).Equal("posting -scam- links")
	})

	t.Run("note is a NOTE case", func(t *testing.T) {
		uc := newMockCaseUseCase()
		gt.NoError(t, httpctrl.RunCommand(ctx, uc, testInv, "note U100 keeps asking for invites")).Required()
		input := uc.lastCall().input.(usecase.CreateCaseInput)
		gt.Value(t, input.Type).Equal(types.CaseTypeNote)
		gt.Value(t, input.Reason).Equal("keeps asking for invites")
	})

	t.Run("update with and without number", func(t *testing.T) {
		uc := newMockCaseUseCase()
		gt.NoError(t, httpctrl.RunCommand(ctx, uc, testInv, "update 3 appealed, denied")).Required()
		gt.Value(t, uc.lastCall().input).Equal(any(usecase.UpdateCaseInput{CaseNumber: 3, Note: "appealed, denied"}))

		gt.NoError(t, httpctrl.RunCommand(ctx, uc, testInv, "update 2024 was the year")).Required()
		gt.Value(t, uc.lastCall().input).Equal(any(usecase.UpdateCaseInput{CaseNumber: 2024, Note: "was the year"}))

		gt.NoError(t, httpctrl.RunCommand(ctx, uc, testInv, "update see thread")).Required()
		gt.Value(t, uc.lastCall().input).Equal(any(usecase.UpdateCaseInput{Note: "see thread"}))
	})

	t.Run("free text is kept verbatim", func(t *testing.T) {
		uc := newMockCaseUseCase()

		gt.NoError(t, httpctrl.RunCommand(ctx, uc, testInv, "add warn <@U100> line one\nline two")).Required()
		gt.Value(t, uc.lastCall().input.(usecase.CreateCaseInput).Reason).Equal("line one\nline two")

		gt.NoError(t, httpctrl.RunCommand(ctx, uc, testInv, `note <@U100> said "free nitro" in #general`)).Required()
		gt.Value(t, uc.lastCall().input.(usecase.CreateCaseInput).Reason).Equal(`said "free nitro" in #general`)

		gt.NoError(t, httpctrl.RunCommand(ctx, uc, testInv, "add\tban\n<@U100>\n\tquoted: \"x\"\n  indented")).Required()
		input := uc.lastCall().input.(usecase.CreateCaseInput)
		gt.Value(t, input.Type).Equal(types.CaseTypeBan)
		gt.Value(t, input.Reason).Equal("quoted: \"x\"\n  indented")

		gt.NoError(t, httpctrl.RunCommand(ctx, uc, testInv, "update 3 first   second\n\"third\"")).Required()
		gt.Value(t, uc.lastCall().input).Equal(any(usecase.UpdateCaseInput{CaseNumber: 3, Note: "first   second\n\"third\""}))

		gt.NoError(t, httpctrl.RunCommand(ctx, uc, testInv, "update see  \"thread\"\nbelow")).Required()
		gt.Value(t, uc.lastCall().input).Equal(any(usecase.UpdateCaseInput{Note: "see  \"thread\"\nbelow"}))
	})

	t.Run("hide and unhide", func(t *testing.T) {
		uc := newMockCaseUseCase()
		gt.NoError(t, httpctrl.RunCommand(ctx, uc, testInv, "hide 4")).Required()
		gt.Value(t, uc.lastCall().input).Equal(any([]any{int64(4), true}))
		gt.NoError(t, httpctrl.RunCommand(ctx, uc, testInv, "UNHIDE 4")).Required()
		gt.Value(t, uc.lastCall().input).Equal(any([]any{int64(4), false}))
	})
}
