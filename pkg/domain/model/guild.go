package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/modcase/pkg/domain/types"
)

// DefaultEmbedColor is used when neither the case type nor the guild configures a color
const DefaultEmbedColor = 0x2b2d31

// DefaultCommandPrefix is used when a guild configures no command prefix
const DefaultCommandPrefix = "!"

// Date format styles a guild can override in DateFormats
const (
	DateStylePrettyDatetime = "pretty_datetime"
	DateStyleDate           = "date"
)

// GuildConfig holds the per-guild settings the case subsystem needs for one request
type GuildConfig struct {
	ID               string
	Name             string
	EmbedColor       *int
	CaseColors       map[types.CaseType]int
	CaseIcons        map[types.CaseType]string
	CasesAreGlobal   bool
	CommandPrefix    string
	Timezone         string
	DateFormats      map[string]string
	CaseLogChannelID string
}

// Scope returns the case numbering scope of this guild
func (g *GuildConfig) Scope() CaseScope {
	return CaseScope{GuildID: g.ID, Global: g.CasesAreGlobal}
}

// CaseColor resolves the embed color for a case type: the type's own color, then the guild
// embed color, then DefaultEmbedColor. Pass an empty type for views not bound to one case.
func (g *GuildConfig) CaseColor(caseType types.CaseType) int {
	if g == nil {
		return DefaultEmbedColor
	}
	if c, ok := g.CaseColors[caseType]; ok && caseType != "" {
		return c
	}
	if g.EmbedColor != nil {
		return *g.EmbedColor
	}
	return DefaultEmbedColor
}

// CaseIcon returns the configured icon of a case type, or an empty string
func (g *GuildConfig) CaseIcon(caseType types.CaseType) string {
	if g == nil {
		return ""
	}
	return g.CaseIcons[caseType]
}

// Prefix returns the command prefix shown in usage hints
func (g *GuildConfig) Prefix() string {
	if g == nil || g.CommandPrefix == "" {
		return DefaultCommandPrefix
	}
	return g.CommandPrefix
}

// GuildRegistry holds guild configurations in registration order
type GuildRegistry struct {
	entries map[string]*GuildConfig
	order   []string
}

// NewGuildRegistry creates a new empty GuildRegistry
func NewGuildRegistry() *GuildRegistry {
	return &GuildRegistry{
		entries: make(map[string]*GuildConfig),
	}
}

// Register adds or replaces a guild configuration
func (r *GuildRegistry) Register(cfg *GuildConfig) {
	if _, exists := r.entries[cfg.ID]; !exists {
		r.order = append(r.order, cfg.ID)
	}
	r.entries[cfg.ID] = cfg
}

// Get retrieves a guild configuration by guild ID
func (r *GuildRegistry) Get(guildID string) (*GuildConfig, error) {
	cfg, ok := r.entries[guildID]
	if !ok {
		return nil, goerr.Wrap(ErrGuildNotFound, "guild is not configured",
			goerr.V(GuildIDKey, guildID))
	}
	return cfg, nil
}

// List returns all guild configurations in registration order
func (r *GuildRegistry) List() []*GuildConfig {
	result := make([]*GuildConfig, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.entries[id])
	}
	return result
}
