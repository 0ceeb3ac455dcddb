package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/modcase/pkg/domain/model"
	"github.com/secmon-lab/modcase/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// GuildFile is the layout of the guild configuration file
type GuildFile struct {
	Guilds []Guild `toml:"guild"`
}

// Guild is the configuration of one guild (a Slack team or a Discord server)
type Guild struct {
	ID               string            `toml:"id"`
	Name             string            `toml:"name"`
	EmbedColor       string            `toml:"embed_color"`
	CaseColors       map[string]string `toml:"case_colors"`
	CaseIcons        map[string]string `toml:"case_icons"`
	CasesAreGlobal   bool              `toml:"cases_are_global"`
	CommandPrefix    string            `toml:"command_prefix"`
	Timezone         string            `toml:"timezone"`
	DateFormats      map[string]string `toml:"date_formats"`
	CaseLogChannelID string            `toml:"case_log_channel"`
}

// parseColor accepts "#rrggbb", "0xrrggbb" or "rrggbb"
func parseColor(s string) (int, error) {
	hex := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "#"), "0x")
	if len(hex) != 6 {
		return 0, goerr.Wrap(ErrInvalidColor, "color must have 6 hex digits", goerr.V(ColorKey, s))
	}
	v, err := strconv.ParseInt(hex, 16, 32)
	if err != nil {
		return 0, goerr.Wrap(ErrInvalidColor, "color is not hexadecimal", goerr.V(ColorKey, s))
	}
	return int(v), nil
}

func parseCaseTypeKey(guildID, key string) (types.CaseType, error) {
	t, err := types.ParseCaseType(key)
	if err != nil {
		return "", goerr.Wrap(ErrInvalidCaseType, "unknown case type in guild config",
			goerr.V(GuildIDKey, guildID), goerr.V(CaseTypeKey, key))
	}
	return t, nil
}

// Validate checks if the Guild is valid
func (g *Guild) Validate() error {
	if g.ID == "" {
		return goerr.Wrap(ErrMissingGuildID, "guild entry without id", goerr.V("name", g.Name))
	}
	if g.EmbedColor != "" {
		if _, err := parseColor(g.EmbedColor); err != nil {
			return goerr.Wrap(err, "invalid embed_color", goerr.V(GuildIDKey, g.ID))
		}
	}
	for key, color := range g.CaseColors {
		if _, err := parseCaseTypeKey(g.ID, key); err != nil {
			return err
		}
		if _, err := parseColor(color); err != nil {
			return goerr.Wrap(err, "invalid case color", goerr.V(GuildIDKey, g.ID), goerr.V(CaseTypeKey, key))
		}
	}
	for key := range g.CaseIcons {
		if _, err := parseCaseTypeKey(g.ID, key); err != nil {
			return err
		}
	}
	if g.Timezone != "" {
		if _, err := time.LoadLocation(g.Timezone); err != nil {
			return goerr.Wrap(ErrInvalidTimezone, err.Error(), goerr.V(GuildIDKey, g.ID), goerr.V(TimezoneKey, g.Timezone))
		}
	}
	for style := range g.DateFormats {
		if style != model.DateStylePrettyDatetime && style != model.DateStyleDate {
			return goerr.Wrap(ErrInvalidDateStyle, "date_formats accepts pretty_datetime and date",
				goerr.V(GuildIDKey, g.ID), goerr.V(DateStyleKey, style))
		}
	}
	return nil
}

// ToDomain converts a validated Guild to the domain configuration
func (g *Guild) ToDomain() *model.GuildConfig {
	cfg := &model.GuildConfig{
		ID:               g.ID,
		Name:             g.Name,
		CaseColors:       make(map[types.CaseType]int, len(g.CaseColors)),
		CaseIcons:        make(map[types.CaseType]string, len(g.CaseIcons)),
		CasesAreGlobal:   g.CasesAreGlobal,
		CommandPrefix:    g.CommandPrefix,
		Timezone:         g.Timezone,
		DateFormats:      g.DateFormats,
		CaseLogChannelID: g.CaseLogChannelID,
	}
	if c, err := parseColor(g.EmbedColor); err == nil {
		cfg.EmbedColor = &c
	}
	for key, color := range g.CaseColors {
		t, _ := types.ParseCaseType(key)
		cfg.CaseColors[t], _ = parseColor(color)
	}
	for key, icon := range g.CaseIcons {
		t, _ := types.ParseCaseType(key)
		cfg.CaseIcons[t] = icon
	}
	return cfg
}

// Validate checks every guild and rejects duplicate IDs
func (f *GuildFile) Validate() error {
	ids := make(map[string]bool)
	for i := range f.Guilds {
		g := &f.Guilds[i]
		if err := g.Validate(); err != nil {
			return goerr.Wrap(err, "invalid guild", goerr.V("index", i))
		}
		if ids[g.ID] {
			return goerr.Wrap(ErrDuplicateGuildID, "guild is configured twice", goerr.V(GuildIDKey, g.ID))
		}
		ids[g.ID] = true
	}
	return nil
}

// LoadGuildConfiguration loads and validates the guild configuration from a TOML file
func LoadGuildConfiguration(path string) (*GuildFile, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, err.Error(), goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var file GuildFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, err.Error(), goerr.V(ConfigPathKey, path))
	}

	if err := file.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, path))
	}

	return &file, nil
}

// Guilds holds the CLI flag pointing at the guild configuration file
type Guilds struct {
	path string
}

func (x *Guilds) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to the guild configuration file (TOML)",
			Value:       "./modcase.toml",
			Sources:     cli.EnvVars("MODCASE_CONFIG"),
			Destination: &x.path,
		},
	}
}

// Configure loads the guild file and builds the registry
func (x *Guilds) Configure() (*model.GuildRegistry, error) {
	file, err := LoadGuildConfiguration(x.path)
	if err != nil {
		return nil, err
	}

	registry := model.NewGuildRegistry()
	for i := range file.Guilds {
		registry.Register(file.Guilds[i].ToDomain())
	}
	return registry, nil
}
