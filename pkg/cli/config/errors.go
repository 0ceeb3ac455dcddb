package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound   = goerr.New("configuration file not found")
	ErrInvalidConfig    = goerr.New("invalid configuration")
	ErrDuplicateGuildID = goerr.New("duplicate guild ID")
	ErrMissingGuildID   = goerr.New("guild ID is required")
	ErrInvalidColor     = goerr.New("invalid color")
	ErrInvalidCaseType  = goerr.New("invalid case type")
	ErrInvalidTimezone  = goerr.New("invalid timezone")
	ErrInvalidDateStyle = goerr.New("unknown date format style")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
	GuildIDKey    = "guild_id"
	ColorKey      = "color"
	CaseTypeKey   = "case_type"
	TimezoneKey   = "timezone"
	DateStyleKey  = "date_style"
)
