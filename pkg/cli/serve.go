package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/modcase/pkg/cli/config"
	httpctrl "github.com/secmon-lab/modcase/pkg/controller/http"
	"github.com/secmon-lab/modcase/pkg/usecase"
	"github.com/secmon-lab/modcase/pkg/utils/logging"
	"github.com/secmon-lab/modcase/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var guildCfg config.Guilds
	var repoCfg config.Repository
	var slackCfg config.Slack

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("MODCASE_ADDR"),
			Destination: &addr,
		},
	}
	flags = append(flags, guildCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server for Slack slash commands",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			registry, err := guildCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load guild configurations")
			}

			if !slackCfg.IsWebhookConfigured() {
				return goerr.New("--slack-signing-secret is required to serve slash commands")
			}
			chat, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to initialize slack service")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			uc := usecase.New(repo,
				usecase.WithGuilds(registry),
				usecase.WithChat(chat),
			)

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(httpctrl.WithSlack(uc.Case, slackCfg.SigningSecret())),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server",
					"addr", addr,
					"guilds", len(registry.List()),
					"slack", slackCfg,
				)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
