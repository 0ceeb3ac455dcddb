package timefmt

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/modcase/pkg/domain/interfaces"
	"github.com/secmon-lab/modcase/pkg/domain/model"
	"github.com/secmon-lab/modcase/pkg/utils/logging"
)

// Default layouts per date style, in Go reference time notation
var defaultLayouts = map[string]string{
	model.DateStylePrettyDatetime: "Jan 2, 2006 at 15:04:05 MST",
	model.DateStyleDate:           "2006-01-02",
}

// Formatter renders timestamps in one time zone with per-style layouts
type Formatter struct {
	loc     *time.Location
	layouts map[string]string
}

var _ interfaces.TimeFormatter = &Formatter{}

// New creates a Formatter. An empty timezone means UTC. overrides replace default layouts by style.
func New(timezone string, overrides map[string]string) (*Formatter, error) {
	loc := time.UTC
	if timezone != "" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid timezone", goerr.V("timezone", timezone))
		}
		loc = l
	}

	layouts := make(map[string]string, len(defaultLayouts)+len(overrides))
	for style, layout := range defaultLayouts {
		layouts[style] = layout
	}
	for style, layout := range overrides {
		if layout != "" {
			layouts[style] = layout
		}
	}

	return &Formatter{loc: loc, layouts: layouts}, nil
}

// ForGuild creates the Formatter of a guild, falling back to UTC when its timezone is invalid
func ForGuild(ctx context.Context, cfg *model.GuildConfig) *Formatter {
	if cfg == nil {
		f, _ := New("", nil)
		return f
	}

	f, err := New(cfg.Timezone, cfg.DateFormats)
	if err != nil {
		logging.From(ctx).Warn("falling back to UTC for guild",
			"guild_id", cfg.ID,
			"timezone", cfg.Timezone,
			"error", err.Error())
		f, _ = New("", cfg.DateFormats)
	}
	return f
}

// Format renders t in the formatter's zone. Unknown styles use the pretty datetime layout.
func (f *Formatter) Format(t time.Time, style string) string {
	layout, ok := f.layouts[style]
	if !ok {
		layout = f.layouts[model.DateStylePrettyDatetime]
	}
	return t.In(f.loc).Format(layout)
}
