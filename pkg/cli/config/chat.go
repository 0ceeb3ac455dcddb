package config

import (
	"io"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/modcase/pkg/domain/interfaces"
	"github.com/secmon-lab/modcase/pkg/service/terminal"
	"github.com/urfave/cli/v3"
)

// Platform names accepted by --platform
const (
	PlatformTerminal = "terminal"
	PlatformSlack    = "slack"
	PlatformDiscord  = "discord"
)

// Chat selects the chat platform that receives case messages
type Chat struct {
	platform string
	noColor  bool
	Slack    Slack
	Discord  Discord
}

func (x *Chat) Flags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "platform",
			Usage:       "Chat platform [terminal|slack|discord]",
			Value:       PlatformTerminal,
			Sources:     cli.EnvVars("MODCASE_PLATFORM"),
			Destination: &x.platform,
		},
		&cli.BoolFlag{
			Name:        "no-color",
			Usage:       "Disable colored terminal output",
			Sources:     cli.EnvVars("NO_COLOR"),
			Destination: &x.noColor,
		},
	}
	flags = append(flags, x.Slack.Flags()...)
	flags = append(flags, x.Discord.Flags()...)
	return flags
}

func (x Chat) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("platform", x.platform),
		slog.Any("slack", x.Slack),
		slog.Any("discord", x.Discord),
	)
}

// Configure creates the ChatService of the selected platform. Terminal output goes to w.
func (x *Chat) Configure(w io.Writer) (interfaces.ChatService, error) {
	switch x.platform {
	case PlatformTerminal, "":
		var opts []terminal.Option
		if x.noColor {
			opts = append(opts, terminal.WithNoColor())
		}
		return terminal.New(w, opts...), nil

	case PlatformSlack:
		return x.Slack.Configure()

	case PlatformDiscord:
		return x.Discord.Configure()

	default:
		return nil, goerr.New("invalid chat platform", goerr.V("platform", x.platform))
	}
}
