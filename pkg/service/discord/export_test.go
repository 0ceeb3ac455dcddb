package discord

// Export internal functions for testing
var (
	ToEmbed         = toEmbed
	ToMessageCreate = toMessageCreate
)
