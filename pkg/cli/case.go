package cli

import (
	"context"
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/modcase/pkg/cli/config"
	"github.com/secmon-lab/modcase/pkg/domain/model"
	"github.com/secmon-lab/modcase/pkg/domain/types"
	"github.com/secmon-lab/modcase/pkg/usecase"
	"github.com/secmon-lab/modcase/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

// caseEnv holds the flags shared by every case subcommand
type caseEnv struct {
	guildCfg  config.Guilds
	repoCfg   config.Repository
	chatCfg   config.Chat
	guildID   string
	channelID string
	actorID   string
	out       io.Writer
}

func (x *caseEnv) Flags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "guild",
			Aliases:     []string{"g"},
			Usage:       "Guild (Slack team or Discord server) ID",
			Required:    true,
			Sources:     cli.EnvVars("MODCASE_GUILD_ID"),
			Destination: &x.guildID,
		},
		&cli.StringFlag{
			Name:        "channel",
			Usage:       "Channel the output is sent to (ignored by the terminal platform)",
			Value:       "terminal",
			Sources:     cli.EnvVars("MODCASE_CHANNEL_ID"),
			Destination: &x.channelID,
		},
		&cli.StringFlag{
			Name:        "actor",
			Usage:       "User ID of the moderator running the command",
			Value:       "0",
			Sources:     cli.EnvVars("MODCASE_ACTOR_ID"),
			Destination: &x.actorID,
		},
	}
	flags = append(flags, x.guildCfg.Flags()...)
	flags = append(flags, x.repoCfg.Flags()...)
	flags = append(flags, x.chatCfg.Flags()...)
	return flags
}

func (x *caseEnv) invocation() usecase.Invocation {
	return usecase.Invocation{
		GuildID:   x.guildID,
		ChannelID: x.channelID,
		ActorID:   x.actorID,
	}
}

// run wires the use cases, runs fn and reports its failure to the output channel
func (x *caseEnv) run(ctx context.Context, fn func(ctx context.Context, uc *usecase.CaseUseCase, inv usecase.Invocation) error) error {
	registry, err := x.guildCfg.Configure()
	if err != nil {
		return goerr.Wrap(err, "failed to load guild configurations")
	}

	out := x.out
	if out == nil {
		out = os.Stdout
	}
	chat, err := x.chatCfg.Configure(out)
	if err != nil {
		return goerr.Wrap(err, "failed to initialize chat service")
	}

	repo, err := x.repoCfg.Configure(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to initialize repository")
	}
	defer safe.Close(ctx, repo)

	uc := usecase.New(repo, usecase.WithGuilds(registry), usecase.WithChat(chat))
	inv := x.invocation()

	if err := fn(ctx, uc.Case, inv); err != nil {
		uc.Case.ReportError(ctx, inv, err)
		return err
	}
	return nil
}

func cmdCase() *cli.Command {
	env := &caseEnv{}
	return newCaseCommand(env)
}

func newCaseCommand(env *caseEnv) *cli.Command {
	return &cli.Command{
		Name:  "case",
		Usage: "Inspect and record moderation cases",
		Flags: env.Flags(),
		Commands: []*cli.Command{
			cmdCaseList(env),
			cmdCaseShow(env),
			cmdCaseAdd(env),
			cmdCaseUpdate(env),
			cmdCaseHide(env, "hide", true),
			cmdCaseHide(env, "unhide", false),
		},
	}
}

func cmdCaseList(env *caseEnv) *cli.Command {
	var (
		userID   string
		modID    string
		expand   bool
		hidden   bool
		exclude  bool
		search   string
		typeArgs []string
	)

	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "Show the case history of a user",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "user", Aliases: []string{"u"}, Usage: "Target user ID", Required: true, Destination: &userID},
			&cli.StringFlag{Name: "mod", Usage: "Only cases by this moderator ID", Destination: &modID},
			&cli.BoolFlag{Name: "expand", Aliases: []string{"e"}, Usage: "Show every case in detail", Destination: &expand},
			&cli.BoolFlag{Name: "hidden", Usage: "Include hidden cases", Destination: &hidden},
			&cli.StringSliceFlag{Name: "type", Aliases: []string{"t"}, Usage: "Case type to show, repeatable", Destination: &typeArgs},
			&cli.BoolFlag{Name: "reverse-filters", Aliases: []string{"r"}, Usage: "Hide the types given by --type instead", Destination: &exclude},
			&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "Only cases with a note containing this text", Destination: &search},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			filter := model.CaseFilter{Search: search}
			for _, arg := range typeArgs {
				t, err := types.ParseCaseType(arg)
				if err != nil {
					return goerr.Wrap(err, "invalid --type")
				}
				filter.TypeFilter.Types = append(filter.TypeFilter.Types, t)
			}
			if exclude {
				filter.TypeFilter.Mode = types.FilterModeExclude
			}
			if hidden {
				filter.Visibility = types.VisibilityAll
			}

			return env.run(ctx, func(ctx context.Context, uc *usecase.CaseUseCase, inv usecase.Invocation) error {
				return uc.ShowUserCases(ctx, inv, usecase.UserCasesInput{
					UserID:   userID,
					ModID:    modID,
					Filter:   filter,
					Expanded: expand,
				})
			})
		},
	}
}

func cmdCaseShow(env *caseEnv) *cli.Command {
	var number int64
	return &cli.Command{
		Name:  "show",
		Usage: "Show one case in detail",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "number", Aliases: []string{"n"}, Usage: "Case number", Required: true, Destination: &number},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return env.run(ctx, func(ctx context.Context, uc *usecase.CaseUseCase, inv usecase.Invocation) error {
				return uc.ShowCase(ctx, inv, number)
			})
		},
	}
}

func cmdCaseAdd(env *caseEnv) *cli.Command {
	var (
		typeArg string
		userID  string
		ppID    string
		reason  string
		notes   []string
		hidden  bool
	)
	return &cli.Command{
		Name:  "add",
		Usage: "Record a new case",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "type", Aliases: []string{"t"}, Usage: "Case type (ban, warn, note, ...)", Required: true, Destination: &typeArg},
			&cli.StringFlag{Name: "user", Aliases: []string{"u"}, Usage: "Target user ID", Required: true, Destination: &userID},
			&cli.StringFlag{Name: "pp", Usage: "Moderator ID the actor acts on behalf of", Destination: &ppID},
			&cli.StringFlag{Name: "reason", Usage: "Reason, stored as the first note", Destination: &reason},
			&cli.StringSliceFlag{Name: "note", Usage: "Additional note, repeatable", Destination: &notes},
			&cli.BoolFlag{Name: "hidden", Usage: "Create the case hidden", Destination: &hidden},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			caseType, err := types.ParseCaseType(typeArg)
			if err != nil {
				return goerr.Wrap(err, "invalid --type")
			}
			return env.run(ctx, func(ctx context.Context, uc *usecase.CaseUseCase, inv usecase.Invocation) error {
				_, err := uc.CreateCase(ctx, inv, usecase.CreateCaseInput{
					Type:       caseType,
					UserID:     userID,
					PPID:       ppID,
					Reason:     reason,
					ExtraNotes: notes,
					Hidden:     hidden,
				})
				return err
			})
		},
	}
}

func cmdCaseUpdate(env *caseEnv) *cli.Command {
	var (
		number int64
		note   string
	)
	return &cli.Command{
		Name:  "update",
		Usage: "Add a note to a case, by default the latest case of the actor",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "number", Aliases: []string{"n"}, Usage: "Case number", Destination: &number},
			&cli.StringFlag{Name: "note", Usage: "Note text", Destination: &note},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return env.run(ctx, func(ctx context.Context, uc *usecase.CaseUseCase, inv usecase.Invocation) error {
				_, err := uc.UpdateCase(ctx, inv, usecase.UpdateCaseInput{CaseNumber: number, Note: note})
				return err
			})
		},
	}
}

func cmdCaseHide(env *caseEnv, name string, hidden bool) *cli.Command {
	var number int64
	usage := "Hide a case from default listings"
	if !hidden {
		usage = "Show a hidden case in default listings again"
	}
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "number", Aliases: []string{"n"}, Usage: "Case number", Required: true, Destination: &number},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return env.run(ctx, func(ctx context.Context, uc *usecase.CaseUseCase, inv usecase.Invocation) error {
				return uc.SetCaseHidden(ctx, inv, number, hidden)
			})
		},
	}
}
