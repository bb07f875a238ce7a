package cli

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/briareus/pkg/cli/config"
	httpctrl "github.com/secmon-lab/briareus/pkg/controller/http"
	"github.com/secmon-lab/briareus/pkg/domain/types"
	"github.com/secmon-lab/briareus/pkg/service/event"
	"github.com/secmon-lab/briareus/pkg/service/notify"
	"github.com/secmon-lab/briareus/pkg/usecase"
	"github.com/secmon-lab/briareus/pkg/utils/logging"
	"github.com/secmon-lab/briareus/pkg/utils/safe"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

func cmdServe() *cli.Command {
	var addr string
	var noAuthUID string
	var noAuthRole string
	var repoCfg config.Repository
	var slackCfg config.Slack
	var playbookCfg config.Playbooks

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("BRIAREUS_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "no-auth",
			Usage:       "Skip authentication and run as the specified user ID (development only). Example: --no-auth=u-alice",
			Category:    "Authentication",
			Sources:     cli.EnvVars("BRIAREUS_NO_AUTH"),
			Destination: &noAuthUID,
		},
		&cli.StringFlag{
			Name:        "no-auth-role",
			Usage:       "Role for the no-auth user (admin, analyst or viewer)",
			Value:       "admin",
			Category:    "Authentication",
			Sources:     cli.EnvVars("BRIAREUS_NO_AUTH_ROLE"),
			Destination: &noAuthRole,
		},
	}

	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, playbookCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			playbooks, err := playbookCfg.Load()
			if err != nil {
				return goerr.Wrap(err, "failed to load playbook templates")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if closer, ok := repo.(io.Closer); ok {
					safe.Close(ctx, closer)
				}
			}()

			var authUC usecase.AuthUseCase
			if noAuthUID != "" {
				role := types.Role(noAuthRole).Normalize()
				authUC = usecase.NewNoAuthnUseCase(noAuthUID, role)
				logging.Default().Warn("Running in no-auth mode (development only)",
					"user_id", noAuthUID, "role", role)
			} else {
				authUC = usecase.NewTokenAuthUseCase(repo)
			}

			bus := event.New()
			notifyOpts := []notify.Option{}
			if slackSvc := slackCfg.Configure(); slackSvc != nil {
				notifyOpts = append(notifyOpts, notify.WithSlack(slackSvc, slackCfg.ChannelID()))
				logging.Default().Info("Slack notification mirror enabled",
					"channel_id", slackCfg.ChannelID())
			}
			notifySvc := notify.New(repo, notifyOpts...)
			bus.Subscribe(notifySvc.HandleTransition)

			uc := usecase.New(repo, bus, usecase.WithAuth(authUC))

			if len(playbooks) > 0 {
				if err := uc.Playbook.Seed(ctx, playbooks); err != nil {
					return goerr.Wrap(err, "failed to seed playbook templates")
				}
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			eg, egCtx := errgroup.WithContext(sigCtx)
			eg.Go(func() error {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					return goerr.Wrap(err, "failed to start server")
				}
				return nil
			})
			eg.Go(func() error {
				<-egCtx.Done()

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}
				return nil
			})

			if err := eg.Wait(); err != nil {
				return err
			}

			logging.Default().Info("Server shutdown completed")
			return nil
		},
	}
}
