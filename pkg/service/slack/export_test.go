package slack

// Export internal functions for testing
var (
	ToMrkdwn     = toMrkdwn
	ToAttachment = toAttachment
)
