package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/careops-lab/panacea/pkg/cli/config"
	httpctrl "github.com/careops-lab/panacea/pkg/controller/http"
	"github.com/careops-lab/panacea/pkg/service/protocol"
	"github.com/careops-lab/panacea/pkg/service/worker"
	"github.com/careops-lab/panacea/pkg/usecase"
	"github.com/careops-lab/panacea/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var baseURL string
	var protocolMode string
	var confirmationTTL time.Duration
	var tokenSweepInterval time.Duration

	var repoCfg config.Repository
	var storageCfg config.Storage
	var notifyCfg config.Notify
	var authCfg config.Auth
	var workflowCfg config.Workflow

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("PANACEA_ADDR"),
			Destination: &addr,
		},
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "Base URL of the deployment (e.g. https://occurrences.example.com)",
			Sources:     cli.EnvVars("PANACEA_BASE_URL"),
			Destination: &baseURL,
		},
		&cli.StringFlag{
			Name:        "protocol-mode",
			Usage:       "Protocol number assignment (sequence or random)",
			Value:       "sequence",
			Sources:     cli.EnvVars("PANACEA_PROTOCOL_MODE"),
			Destination: &protocolMode,
		},
		&cli.DurationFlag{
			Name:        "confirmation-ttl",
			Usage:       "Lifetime of public confirmation links",
			Value:       7 * 24 * time.Hour,
			Sources:     cli.EnvVars("PANACEA_CONFIRMATION_TTL"),
			Destination: &confirmationTTL,
		},
		&cli.DurationFlag{
			Name:        "token-sweep-interval",
			Usage:       "Interval of the expired session token sweep",
			Value:       10 * time.Minute,
			Sources:     cli.EnvVars("PANACEA_TOKEN_SWEEP_INTERVAL"),
			Destination: &tokenSweepInterval,
		},
	}

	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)
	flags = append(flags, notifyCfg.Flags()...)
	flags = append(flags, authCfg.Flags()...)
	flags = append(flags, workflowCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			// Apply workflow configuration before any record is touched
			ttl, err := workflowCfg.Configure(confirmationTTL)
			if err != nil {
				return goerr.Wrap(err, "failed to load workflow configuration")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			blobStorage, err := storageCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize blob storage")
			}

			dispatcher, err := notifyCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure notifications")
			}

			authUC, err := authCfg.Configure(repo, baseURL)
			if err != nil {
				return goerr.Wrap(err, "failed to configure authentication")
			}
			if authCfg.IsNoAuthMode() {
				logging.Default().Warn("Running in no-auth mode (development only)")
			}

			var gen protocol.Generator
			switch protocolMode {
			case "sequence":
				gen = protocol.NewSequence(repo)
			case "random":
				gen = protocol.NewRandom()
			default:
				return goerr.New("invalid protocol mode", goerr.V("mode", protocolMode))
			}

			ucOpts := []usecase.Option{
				usecase.WithStorage(blobStorage),
				usecase.WithProtocolGenerator(gen),
				usecase.WithAuth(authUC),
				usecase.WithConfirmationTTL(ttl),
			}
			if dispatcher != nil {
				ucOpts = append(ucOpts, usecase.WithDispatcher(dispatcher))
			}
			uc := usecase.New(repo, ucOpts...)

			// Sweep expired session tokens in the background
			sweeper := worker.NewTokenSweepWorker(repo, tokenSweepInterval)
			if err := sweeper.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start token sweep worker")
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, httpctrl.WithAuth(authUC)),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				sweeper.Stop()
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				sweeper.Stop()

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
