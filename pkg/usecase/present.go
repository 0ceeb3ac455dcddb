package usecase

import (
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/modcase/pkg/domain/model"
	"github.com/secmon-lab/modcase/pkg/domain/types"
	"github.com/secmon-lab/modcase/pkg/utils/chunk"
)

const (
	// ExpandedCaseLimit is the largest display set shown one embed per case
	ExpandedCaseLimit = 8

	// CasesPerPage is the number of compact lines per page
	CasesPerPage = 10

	compactLineSeparator = "\n\n"
)

// PresentOptions describes how a case history is shown
type PresentOptions struct {
	// UserName is the display name of the target user
	UserName string
	// ByModerator marks histories restricted to one moderator
	ByModerator bool
	Expanded    bool
	Visibility  types.Visibility
}

// CasePresenter turns a query result into independently deliverable messages
type CasePresenter struct {
	guild    *model.GuildConfig
	renderer *CaseRenderer
}

// NewCasePresenter creates a presenter for one guild
func NewCasePresenter(guild *model.GuildConfig, renderer *CaseRenderer) *CasePresenter {
	return &CasePresenter{
		guild:    guild,
		renderer: renderer,
	}
}

// Present builds the messages for a case history. An expanded request over
// ExpandedCaseLimit fails with ErrTooManyCases instead of falling back to compact view.
func (p *CasePresenter) Present(result *CaseQueryResult, opts PresentOptions) ([]*model.Message, error) {
	if len(result.Matched) == 0 {
		suffix := ""
		if opts.ByModerator {
			suffix = " by this moderator"
		}
		return []*model.Message{
			model.TextMessage(fmt.Sprintf("No cases found for **%s**%s.", opts.UserName, suffix)),
		}, nil
	}

	if len(result.Display) == 0 {
		// cases matched but none is in the requested partition
		if n := len(result.Hidden); n > 0 {
			return []*model.Message{
				model.TextMessage(fmt.Sprintf("No normal cases found for **%s**. Use \"-hidden\" to show %d hidden %s.",
					opts.UserName, n, plural(n, "case", "cases"))),
			}, nil
		}
		return []*model.Message{
			model.TextMessage(fmt.Sprintf("No hidden cases found for **%s**.", opts.UserName)),
		}, nil
	}

	if opts.Expanded {
		return p.expanded(result.Display)
	}

	showsHidden := opts.Visibility == types.VisibilityAll || opts.Visibility == types.VisibilityHidden
	hiddenCount := 0
	if !showsHidden {
		hiddenCount = len(result.Hidden)
	}
	return p.compact(result.Display, hiddenCount, opts.UserName), nil
}

func (p *CasePresenter) expanded(cases []*model.Case) ([]*model.Message, error) {
	if len(cases) > ExpandedCaseLimit {
		return nil, goerr.Wrap(ErrTooManyCases, "expanded view rejected",
			goerr.V(CaseCountKey, len(cases)),
			goerr.V("limit", ExpandedCaseLimit))
	}

	messages := make([]*model.Message, 0, len(cases))
	for _, c := range cases {
		for _, embed := range SplitEmbed(p.renderer.Detailed(c)) {
			messages = append(messages, model.EmbedMessage(embed))
		}
	}
	return messages, nil
}

func (p *CasePresenter) compact(cases []*model.Case, hiddenCount int, userName string) []*model.Message {
	lines := make([]string, len(cases))
	for i, c := range cases {
		lines[i] = p.renderer.CompactLine(c)
	}

	pages := chunk.Items(lines, CasesPerPage)
	messages := make([]*model.Message, 0, len(pages))
	for i, page := range pages {
		isLast := i == len(pages)-1
		if isLast && hiddenCount > 0 {
			page = append(page, hiddenHint(hiddenCount))
		}

		var header string
		if len(pages) == 1 {
			header = fmt.Sprintf("Cases for %s (%d total)", userName, len(lines))
		} else {
			start := i*CasesPerPage + 1
			end := min((i+1)*CasesPerPage, len(lines))
			header = fmt.Sprintf("Cases %d–%d of %d for %s", start, end, len(lines), userName)
		}

		embed := &model.Embed{
			Author: header,
			Color:  p.guild.CaseColor(""),
		}
		for _, value := range chunk.JoinedLines(page, model.MaxFieldValueBytes, compactLineSeparator) {
			embed.Fields = append(embed.Fields, &model.EmbedField{Name: model.EmptyValue, Value: value})
		}
		if isLast {
			embed.Fields = append(embed.Fields, &model.EmbedField{
				Name:  model.EmptyValue,
				Value: fmt.Sprintf("Use `%scase <num>` to see more information about an individual case", p.guild.Prefix()),
			})
		}

		for _, part := range SplitEmbed(embed) {
			messages = append(messages, model.EmbedMessage(part))
		}
	}
	return messages
}

func hiddenHint(n int) string {
	if n == 1 {
		return `+1 hidden case, use "-hidden" to show it`
	}
	return fmt.Sprintf(`+%d hidden cases, use "-hidden" to show them`, n)
}

// SplitEmbed splits an embed whose fields exceed MaxEmbedBytes or MaxEmbedFields into
// consecutive embeds. The first keeps the title and header; continuations repeat the
// header only, and the footer moves to the last part. Field order is preserved.
func SplitEmbed(e *model.Embed) []*model.Embed {
	if e.Size() <= model.MaxEmbedBytes && len(e.Fields) <= model.MaxEmbedFields {
		return []*model.Embed{e}
	}

	newPart := func(first bool) *model.Embed {
		part := &model.Embed{Author: e.Author, Color: e.Color}
		if first {
			part.Title = e.Title
		} else if e.Title != "" {
			part.Title = strings.TrimSpace(e.Title + " (continued)")
		}
		return part
	}

	var parts []*model.Embed
	current := newPart(true)
	for _, f := range e.Fields {
		fieldSize := len(f.Name) + len(f.Value)
		full := len(current.Fields) >= model.MaxEmbedFields ||
			current.Size()+fieldSize+len(e.Footer) > model.MaxEmbedBytes
		if full && len(current.Fields) > 0 {
			parts = append(parts, current)
			current = newPart(false)
		}
		current.Fields = append(current.Fields, f)
	}
	current.Footer = e.Footer
	return append(parts, current)
}
