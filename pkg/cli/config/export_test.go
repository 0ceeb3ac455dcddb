package config

var (
	ParseColor    = parseColor
	NewLogHandler = newLogHandler
)

// NewChatForTest creates a Chat config for testing purposes
func NewChatForTest(platform, slackToken, discordToken string) *Chat {
	return &Chat{
		platform: platform,
		noColor:  true,
		Slack:    Slack{botToken: slackToken},
		Discord:  Discord{botToken: discordToken},
	}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, projectID string) *Repository {
	return &Repository{backend: backend, projectID: projectID}
}

// NewGuildsForTest creates a Guilds config for testing purposes
func NewGuildsForTest(path string) *Guilds {
	return &Guilds{path: path}
}
