package http

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/modcase/pkg/domain/model"
	"github.com/secmon-lab/modcase/pkg/domain/types"
	"github.com/secmon-lab/modcase/pkg/usecase"
)

// CaseUseCase is the set of case operations reachable from chat commands
type CaseUseCase interface {
	CreateCase(ctx context.Context, inv usecase.Invocation, input usecase.CreateCaseInput) (*model.Case, error)
	UpdateCase(ctx context.Context, inv usecase.Invocation, input usecase.UpdateCaseInput) (*model.Case, error)
	ShowCase(ctx context.Context, inv usecase.Invocation, number int64) error
	SetCaseHidden(ctx context.Context, inv usecase.Invocation, number int64, hidden bool) error
	ShowUserCases(ctx context.Context, inv usecase.Invocation, input usecase.UserCasesInput) error
	ReportError(ctx context.Context, inv usecase.Invocation, err error)
}

// ErrInvalidCommand is returned for command text that cannot be parsed or lacks required arguments
var ErrInvalidCommand = goerr.New("invalid command")

const commandUsage = "Usage:\n" +
	"`cases <user> [-expand] [-hidden] [-reverse-filters] [-notes] [-warns] [-mutes] [-unmutes] [-bans] [-unbans] [-mod <user>] [-search <text>]`\n" +
	"`case <number>`\n" +
	"`add <type> <user> [reason]`\n" +
	"`note <user> <text>`\n" +
	"`update [number] <text>`\n" +
	"`hide <number>` / `unhide <number>`"

// caseSwitches maps every accepted switch spelling of the cases command to its canonical name
var caseSwitches = map[string]string{
	"expand": "expand", "e": "expand",
	"hidden": "hidden", "h": "hidden",
	"reverse-filters": "reverse-filters", "r": "reverse-filters",
	"notes": "notes", "n": "notes",
	"warns": "warns", "w": "warns",
	"mutes": "mutes", "m": "mutes",
	"unmutes": "unmutes", "um": "unmutes",
	"bans": "bans", "b": "bans",
	"unbans": "unbans", "ub": "unbans",
}

// caseOptions maps option spellings that take a value
var caseOptions = map[string]string{
	"mod":    "mod",
	"search": "search", "s": "search",
}

var typeSwitches = []struct {
	name string
	t    types.CaseType
}{
	{"notes", types.CaseTypeNote},
	{"warns", types.CaseTypeWarn},
	{"mutes", types.CaseTypeMute},
	{"unmutes", types.CaseTypeUnmute},
	{"bans", types.CaseTypeBan},
	{"unbans", types.CaseTypeUnban},
}

// command is a parsed chat command
type command struct {
	name string
	// raw is the text after the command name, kept verbatim for free-text arguments
	raw      string
	args     []string
	switches map[string]bool
	options  map[string]string
}

const blanks = " \t\r\n"

// leadingFields cuts up to n blank-separated words off the front of s and returns them
// with the untouched remainder. Only the blanks before the remainder are dropped.
func leadingFields(s string, n int) ([]string, string) {
	var fields []string
	for len(fields) < n {
		s = strings.TrimLeft(s, blanks)
		if s == "" {
			break
		}
		end := strings.IndexAny(s, blanks)
		if end < 0 {
			end = len(s)
		}
		fields = append(fields, s[:end])
		s = s[end:]
	}
	return fields, strings.TrimLeft(s, blanks)
}

// tokenize splits command arguments on whitespace. Double quotes group words into one token.
func tokenize(text string) []string {
	var (
		tokens  []string
		cur     strings.Builder
		quoted  bool
		started bool
	)
	for _, r := range text {
		switch {
		case r == '"':
			quoted = !quoted
			started = true
		case !quoted && (r == ' ' || r == '\t' || r == '\n'):
			if started {
				tokens = append(tokens, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if started {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

// parseCommand reads the command name, positional arguments, switches and options.
// Switches and options are recognized only for the cases command; elsewhere a leading dash is text.
func parseCommand(text string) (*command, error) {
	name, raw := leadingFields(text, 1)
	if len(name) == 0 {
		return nil, goerr.Wrap(ErrInvalidCommand, "empty command")
	}

	cmd := &command{
		name:     strings.ToLower(name[0]),
		raw:      raw,
		switches: make(map[string]bool),
		options:  make(map[string]string),
	}
	rest := tokenize(raw)

	if cmd.name != "cases" {
		cmd.args = rest
		return cmd, nil
	}

	for i := 0; i < len(rest); i++ {
		tok := rest[i]
		if !strings.HasPrefix(tok, "-") || len(tok) == 1 {
			cmd.args = append(cmd.args, tok)
			continue
		}
		key := strings.ToLower(strings.TrimLeft(tok, "-"))
		if name, ok := caseSwitches[key]; ok {
			cmd.switches[name] = true
			continue
		}
		if name, ok := caseOptions[key]; ok {
			if i+1 >= len(rest) {
				return nil, goerr.Wrap(ErrInvalidCommand, "option requires a value", goerr.V("option", tok))
			}
			i++
			cmd.options[name] = rest[i]
			continue
		}
		return nil, goerr.Wrap(ErrInvalidCommand, "unknown option", goerr.V("option", tok))
	}

	return cmd, nil
}

var mentionPattern = regexp.MustCompile(`^<@!?([A-Za-z0-9]+)(\|[^>]*)?>$`)

// parseUserRef accepts an escaped mention (<@U123> or <@U123|name>) or a bare user ID
func parseUserRef(s string) (string, error) {
	if m := mentionPattern.FindStringSubmatch(s); m != nil {
		return m[1], nil
	}
	if s == "" || strings.ContainsAny(s, "<>@| ") {
		return "", goerr.Wrap(ErrInvalidCommand, "invalid user reference", goerr.V("user", s))
	}
	return s, nil
}

func parseCaseNumber(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || n <= 0 {
		return 0, goerr.Wrap(ErrInvalidCommand, "invalid case number", goerr.V("number", s))
	}
	return n, nil
}

// runner executes a validated command against the use case layer
type runner func(ctx context.Context, uc CaseUseCase, inv usecase.Invocation) error

// bindCommand validates the arguments of a parsed command and binds them to a use case call
func bindCommand(cmd *command) (runner, error) {
	switch cmd.name {
	case "cases":
		input, err := userCasesInput(cmd)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context, uc CaseUseCase, inv usecase.Invocation) error {
			return uc.ShowUserCases(ctx, inv, *input)
		}, nil

	case "case":
		number, err := singleCaseNumber(cmd)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context, uc CaseUseCase, inv usecase.Invocation) error {
			return uc.ShowCase(ctx, inv, number)
		}, nil

	case "add", "note":
		input, err := createCaseInput(cmd)
		if err != nil {
			return nil, err
		}
		return func(ctx context.Context, uc CaseUseCase, inv usecase.Invocation) error {
			_, err := uc.CreateCase(ctx, inv, *input)
			return err
		}, nil

	case "update":
		input := usecase.UpdateCaseInput{Note: cmd.raw}
		if first, rest := leadingFields(cmd.raw, 1); len(first) == 1 {
			if n, err := parseCaseNumber(first[0]); err == nil {
				input.CaseNumber = n
				input.Note = rest
			}
		}
		return func(ctx context.Context, uc CaseUseCase, inv usecase.Invocation) error {
			_, err := uc.UpdateCase(ctx, inv, input)
			return err
		}, nil

	case "hide", "unhide":
		number, err := singleCaseNumber(cmd)
		if err != nil {
			return nil, err
		}
		hidden := cmd.name == "hide"
		return func(ctx context.Context, uc CaseUseCase, inv usecase.Invocation) error {
			return uc.SetCaseHidden(ctx, inv, number, hidden)
		}, nil

	default:
		return nil, goerr.Wrap(ErrInvalidCommand, "unknown command", goerr.V("command", cmd.name))
	}
}

func singleCaseNumber(cmd *command) (int64, error) {
	if len(cmd.args) != 1 {
		return 0, goerr.Wrap(ErrInvalidCommand, "case number is required", goerr.V("command", cmd.name))
	}
	return parseCaseNumber(cmd.args[0])
}

func userCasesInput(cmd *command) (*usecase.UserCasesInput, error) {
	if len(cmd.args) != 1 {
		return nil, goerr.Wrap(ErrInvalidCommand, "exactly one user is required")
	}
	userID, err := parseUserRef(cmd.args[0])
	if err != nil {
		return nil, err
	}

	input := &usecase.UserCasesInput{
		UserID:   userID,
		Expanded: cmd.switches["expand"],
	}
	if mod, ok := cmd.options["mod"]; ok {
		if input.ModID, err = parseUserRef(mod); err != nil {
			return nil, err
		}
	}

	for _, s := range typeSwitches {
		if cmd.switches[s.name] {
			input.Filter.TypeFilter.Types = append(input.Filter.TypeFilter.Types, s.t)
		}
	}
	if cmd.switches["reverse-filters"] {
		input.Filter.TypeFilter.Mode = types.FilterModeExclude
	}
	input.Filter.Search = cmd.options["search"]
	if cmd.switches["hidden"] {
		input.Filter.Visibility = types.VisibilityAll
	}

	return input, nil
}

// createCaseInput reads "<type> <user> [reason]" for add and "<user> [text]" for note.
// The reason is the rest of the raw text, line breaks and quotes included.
func createCaseInput(cmd *command) (*usecase.CreateCaseInput, error) {
	caseType := types.CaseTypeNote
	raw := cmd.raw
	if cmd.name == "add" {
		typeField, rest := leadingFields(raw, 1)
		if len(typeField) == 0 {
			return nil, goerr.Wrap(ErrInvalidCommand, "case type is required")
		}
		t, err := types.ParseCaseType(typeField[0])
		if err != nil {
			return nil, goerr.Wrap(ErrInvalidCommand, err.Error())
		}
		caseType = t
		raw = rest
	}

	userField, reason := leadingFields(raw, 1)
	if len(userField) == 0 {
		return nil, goerr.Wrap(ErrInvalidCommand, "user is required")
	}
	userID, err := parseUserRef(userField[0])
	if err != nil {
		return nil, err
	}

	return &usecase.CreateCaseInput{
		Type:   caseType,
		UserID: userID,
		Reason: reason,
	}, nil
}
