package config

import (
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/careops-lab/panacea/pkg/domain/types"
	"github.com/careops-lab/panacea/pkg/utils/logging"
)

// Workflow holds the CLI flag pointing at the optional workflow configuration
// file. The file tunes the outcome requirement table and the confirmation
// link lifetime without a rebuild.
type Workflow struct {
	path string
}

// WorkflowConfig is the parsed workflow configuration file
type WorkflowConfig struct {
	ConfirmationTTL string            `toml:"confirmation_ttl"`
	Outcomes        []OutcomeOverride `toml:"outcome"`
}

// OutcomeOverride replaces the requirement flags of one outcome tag
type OutcomeOverride struct {
	Tag                          string `toml:"tag"`
	RequiresExternalNotification bool   `toml:"requires_external_notification"`
	RequiresCAPA                 bool   `toml:"requires_capa"`
}

// Flags returns CLI flags for workflow configuration
func (w *Workflow) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "workflow-config",
			Usage:       "Path to the workflow configuration TOML file",
			Category:    "Workflow",
			Sources:     cli.EnvVars("PANACEA_WORKFLOW_CONFIG"),
			Destination: &w.path,
		},
	}
}

// Configure loads the workflow file when configured and applies the outcome
// requirement overrides. It returns the confirmation TTL to use, falling back
// to the given default when the file does not set one.
func (w *Workflow) Configure(defaultTTL time.Duration) (time.Duration, error) {
	if w.path == "" {
		return defaultTTL, nil
	}

	data, err := os.ReadFile(w.path)
	if err != nil {
		return 0, goerr.Wrap(ErrConfigNotFound, "failed to read workflow config", goerr.V(ConfigPathKey, w.path))
	}

	var cfg WorkflowConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return 0, goerr.Wrap(err, "failed to parse workflow config", goerr.V(ConfigPathKey, w.path))
	}

	for _, o := range cfg.Outcomes {
		tag, err := types.ParseOutcomeTag(o.Tag)
		if err != nil {
			return 0, goerr.Wrap(ErrInvalidConfig, "unknown outcome tag in workflow config",
				goerr.V(ConfigPathKey, w.path), goerr.V("tag", o.Tag))
		}
		types.SetOutcomeRequirement(tag, types.OutcomeRequirement{
			RequiresExternalNotification: o.RequiresExternalNotification,
			RequiresCAPA:                 o.RequiresCAPA,
		})
	}

	ttl := defaultTTL
	if cfg.ConfirmationTTL != "" {
		d, err := time.ParseDuration(cfg.ConfirmationTTL)
		if err != nil {
			return 0, goerr.Wrap(ErrInvalidConfig, "invalid confirmation_ttl in workflow config",
				goerr.V(ConfigPathKey, w.path), goerr.V("value", cfg.ConfirmationTTL))
		}
		if d <= 0 {
			return 0, goerr.Wrap(ErrInvalidConfig, "confirmation_ttl must be positive",
				goerr.V(ConfigPathKey, w.path), goerr.V("value", cfg.ConfirmationTTL))
		}
		ttl = d
	}

	logging.Default().Info("Workflow configuration loaded",
		"path", w.path,
		"outcome_overrides", len(cfg.Outcomes),
		"confirmation_ttl", ttl,
	)
	return ttl, nil
}
