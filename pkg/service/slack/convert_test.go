package slack_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/modcase/pkg/domain/model"
	"github.com/secmon-lab/modcase/pkg/service/slack"
)

func TestToMrkdwn(t *testing.T) {
	gt.Value(t, slack.ToMrkdwn("No cases found for **spammer**.")).Equal("No cases found for *spammer*.")
	gt.Value(t, slack.ToMrkdwn("`#3` __BAN__ raid")).Equal("`#3` _BAN_ raid")
	gt.Value(t, slack.ToMrkdwn("plain")).Equal("plain")
}

func TestToAttachment(t *testing.T) {
	a := slack.ToAttachment(&model.Embed{
		Title:  "WARN - Case #2",
		Author: "Cases for spammer (1 total)",
		Color:  0x2b2d31,
		Fields: []*model.EmbedField{
			{Name: "User", Value: "**spammer**", Inline: true},
			{Name: model.EmptyValue, Value: "line"},
		},
		Footer: "footer",
	})

	gt.Value(t, a.Color).Equal("#2b2d31")
	gt.Value(t, a.AuthorName).Equal("Cases for spammer (1 total)")
	gt.Array(t, a.Fields).Length(2)
	gt.Value(t, a.Fields[0].Value).Equal("*spammer*")
	gt.Bool(t, a.Fields[0].Short).True()
	gt.Bool(t, a.Fields[1].Short).False()
	gt.Value(t, a.Footer).Equal("footer")
}
