package model_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/modcase/pkg/domain/model"
	"github.com/secmon-lab/modcase/pkg/domain/types"
)

func TestGuildConfig_CaseColor(t *testing.T) {
	guildColor := 0x112233

	t.Run("nil config uses default", func(t *testing.T) {
		var cfg *model.GuildConfig
		gt.Value(t, cfg.CaseColor(types.CaseTypeBan)).Equal(model.DefaultEmbedColor)
	})

	t.Run("case type color wins", func(t *testing.T) {
		cfg := &model.GuildConfig{
			EmbedColor: &guildColor,
			CaseColors: map[types.CaseType]int{types.CaseTypeBan: 0xff0000},
		}
		gt.Value(t, cfg.CaseColor(types.CaseTypeBan)).Equal(0xff0000)
		gt.Value(t, cfg.CaseColor(types.CaseTypeWarn)).Equal(guildColor)
	})

	t.Run("views without a type use the guild color", func(t *testing.T) {
		cfg := &model.GuildConfig{EmbedColor: &guildColor}
		gt.Value(t, cfg.CaseColor("")).Equal(guildColor)
	})

	t.Run("zero guild color is honored", func(t *testing.T) {
		black := 0
		cfg := &model.GuildConfig{EmbedColor: &black}
		gt.Value(t, cfg.CaseColor("")).Equal(0)
	})
}

func TestGuildConfig_Prefix(t *testing.T) {
	gt.Value(t, (&model.GuildConfig{}).Prefix()).Equal(model.DefaultCommandPrefix)
	gt.Value(t, (&model.GuildConfig{CommandPrefix: "?"}).Prefix()).Equal("?")
}

func TestGuildConfig_Scope(t *testing.T) {
	cfg := &model.GuildConfig{ID: "G001", CasesAreGlobal: true}
	gt.Value(t, cfg.Scope()).Equal(model.CaseScope{GuildID: "G001", Global: true})
}

func TestGuildRegistry(t *testing.T) {
	reg := model.NewGuildRegistry()
	gt.Array(t, reg.List()).Length(0)

	reg.Register(&model.GuildConfig{ID: "G001", Name: "First"})
	reg.Register(&model.GuildConfig{ID: "G002", Name: "Second"})
	reg.Register(&model.GuildConfig{ID: "G001", Name: "First (updated)"})

	list := reg.List()
	gt.Array(t, list).Length(2)
	gt.Value(t, list[0].Name).Equal("First (updated)")
	gt.Value(t, list[1].ID).Equal("G002")

	cfg, err := reg.Get("G002")
	gt.NoError(t, err).Required()
	gt.Value(t, cfg.Name).Equal("Second")

	_, err = reg.Get("G404")
	gt.Bool(t, errors.Is(err, model.ErrGuildNotFound)).True()
}
