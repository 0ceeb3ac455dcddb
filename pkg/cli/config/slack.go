package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/modcase/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

type Slack struct {
	botToken      string
	signingSecret string
	teamURL       string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token (chat:write, users:read)",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("MODCASE_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-signing-secret",
			Usage:       "Slack Signing Secret (for slash command and event verification)",
			Category:    "Slack",
			Destination: &x.signingSecret,
			Sources:     cli.EnvVars("MODCASE_SLACK_SIGNING_SECRET"),
		},
		&cli.StringFlag{
			Name:        "slack-team-url",
			Usage:       "Workspace URL used in message links (e.g. https://example.slack.com/), looked up when omitted",
			Category:    "Slack",
			Destination: &x.teamURL,
			Sources:     cli.EnvVars("MODCASE_SLACK_TEAM_URL"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.Int("signing-secret.len", len(x.signingSecret)),
		slog.String("team-url", x.teamURL),
	)
}

// IsConfigured reports whether a bot token is set
func (x *Slack) IsConfigured() bool {
	return x.botToken != ""
}

// IsWebhookConfigured checks if Slack webhook is configured
func (x *Slack) IsWebhookConfigured() bool {
	return x.signingSecret != ""
}

// SigningSecret returns the Slack signing secret
func (x *Slack) SigningSecret() string {
	return x.signingSecret
}

// Configure creates the Slack chat client
func (x *Slack) Configure() (*slack.Client, error) {
	if x.botToken == "" {
		return nil, goerr.New("--slack-bot-token is required for Slack")
	}
	var opts []slack.Option
	if x.teamURL != "" {
		opts = append(opts, slack.WithTeamURL(x.teamURL))
	}
	return slack.New(x.botToken, opts...)
}
