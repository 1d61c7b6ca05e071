package config

import (
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/careops-lab/panacea/pkg/utils/logging"
)

// Sentry holds CLI flags for error reporting configuration
type Sentry struct {
	dsn string
	env string
}

// Flags returns CLI flags for Sentry configuration
func (s *Sentry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN for error reporting (empty disables reporting)",
			Category:    "Monitoring",
			Sources:     cli.EnvVars("PANACEA_SENTRY_DSN"),
			Destination: &s.dsn,
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment label",
			Category:    "Monitoring",
			Sources:     cli.EnvVars("PANACEA_SENTRY_ENV"),
			Destination: &s.env,
		},
	}
}

func (s Sentry) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("enabled", s.dsn != ""),
		slog.String("env", s.env),
	)
}

// Configure initializes the Sentry client when a DSN is set. The returned
// closer flushes buffered events on shutdown.
func (s *Sentry) Configure(version string) (func(), error) {
	if s.dsn == "" {
		return func() {}, nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         s.dsn,
		Environment: s.env,
		Release:     version,
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to initialize sentry")
	}

	logging.Default().Info("Sentry error reporting enabled", "env", s.env)
	return func() {
		sentry.Flush(2 * time.Second)
	}, nil
}
