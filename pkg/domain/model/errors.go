package model

import "github.com/m-mizutani/goerr/v2"

// Domain errors shared by repositories and use cases
var (
	ErrCaseNotFound  = goerr.New("case not found")
	ErrInvalidCase   = goerr.New("invalid case")
	ErrGuildNotFound = goerr.New("guild not found")
)

// Context keys for error values
const (
	CaseIDKey     = "case_id"
	CaseNumberKey = "case_number"
	CaseTypeKey   = "case_type"
	GuildIDKey    = "guild_id"
	UserIDKey     = "user_id"
	ModIDKey      = "mod_id"
)
