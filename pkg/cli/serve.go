package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	httpctrl "github.com/secmon-lab/segmentor/pkg/controller/http"
	"github.com/secmon-lab/segmentor/pkg/service/worker"
	"github.com/secmon-lab/segmentor/pkg/utils/logging"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

func cmdServe() *cli.Command {
	var addr string
	var sessionTTL time.Duration
	var sweepInterval time.Duration
	var appCfg appConfig

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("SEGMENTOR_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "session-ttl",
			Usage:       "Idle time after which an editor session is discarded",
			Value:       30 * time.Minute,
			Sources:     cli.EnvVars("SEGMENTOR_SESSION_TTL"),
			Destination: &sessionTTL,
		},
		&cli.DurationFlag{
			Name:        "sweep-interval",
			Usage:       "Interval of the idle session sweep",
			Value:       time.Minute,
			Sources:     cli.EnvVars("SEGMENTOR_SWEEP_INTERVAL"),
			Destination: &sweepInterval,
		},
	}
	flags = append(flags, appCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Serve the segment editor as an HTTP JSON API",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if sessionTTL <= 0 || sweepInterval <= 0 {
				return goerr.New("session TTL and sweep interval must be positive",
					goerr.V("session_ttl", sessionTTL),
					goerr.V("sweep_interval", sweepInterval))
			}

			uc, err := appCfg.newUseCases(c)
			if err != nil {
				return err
			}
			defer closeUseCases(ctx, uc)

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			sweeper := worker.NewSessionSweeperWorker(uc.Editor, sessionTTL, sweepInterval)
			if err := sweeper.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start session sweeper")
			}
			defer sweeper.Stop()

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc.Editor),
				ReadHeaderTimeout: 30 * time.Second,
			}

			eg, ctx := errgroup.WithContext(ctx)
			eg.Go(func() error {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return goerr.Wrap(err, "failed to start server", goerr.V("addr", addr))
				}
				return nil
			})
			eg.Go(func() error {
				<-ctx.Done()
				logging.Default().Info("Shutting down HTTP server")

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
