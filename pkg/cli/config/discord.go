package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/modcase/pkg/service/discord"
	"github.com/urfave/cli/v3"
)

type Discord struct {
	botToken string
}

func (x *Discord) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "discord-bot-token",
			Usage:       "Discord bot token",
			Category:    "Discord",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("MODCASE_DISCORD_BOT_TOKEN"),
		},
	}
}

func (x Discord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
	)
}

// Configure creates the Discord chat client
func (x *Discord) Configure() (*discord.Client, error) {
	if x.botToken == "" {
		return nil, goerr.New("--discord-bot-token is required for Discord")
	}
	return discord.New(x.botToken)
}
