package config

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/careops-lab/panacea/pkg/domain/types"
	"github.com/careops-lab/panacea/pkg/service/notify"
	"github.com/careops-lab/panacea/pkg/service/slack"
	"github.com/careops-lab/panacea/pkg/utils/logging"
)

// Notify holds CLI flags for the notification dispatcher
type Notify struct {
	webhookURL      string
	webhookTypeURLs []string
	slackToken      string
	slackChannel    string
}

// Flags returns CLI flags for notification configuration
func (n *Notify) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "webhook-url",
			Usage:       "Default webhook URL for occurrence notifications",
			Category:    "Notification",
			Sources:     cli.EnvVars("PANACEA_WEBHOOK_URL"),
			Destination: &n.webhookURL,
		},
		&cli.StringSliceFlag{
			Name:        "webhook-type-url",
			Usage:       "Per-type webhook URL as TYPE=URL (e.g. NURSING=https://...), repeatable",
			Category:    "Notification",
			Sources:     cli.EnvVars("PANACEA_WEBHOOK_TYPE_URL"),
			Destination: &n.webhookTypeURLs,
		},
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token for notification delivery",
			Category:    "Notification",
			Sources:     cli.EnvVars("PANACEA_SLACK_BOT_TOKEN"),
			Destination: &n.slackToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel for broadcast notifications",
			Category:    "Notification",
			Sources:     cli.EnvVars("PANACEA_SLACK_CHANNEL"),
			Destination: &n.slackChannel,
		},
	}
}

// Configure builds the notification dispatcher from the flags. It returns nil
// when no sender is configured; notifications are then skipped entirely.
func (n *Notify) Configure() (*notify.Dispatcher, error) {
	var senders []notify.Sender

	if n.webhookURL != "" || len(n.webhookTypeURLs) > 0 {
		var opts []notify.WebhookOption
		for _, pair := range n.webhookTypeURLs {
			name, url, ok := strings.Cut(pair, "=")
			if !ok {
				return nil, goerr.New("webhook-type-url must be TYPE=URL", goerr.V("value", pair))
			}
			typ, err := types.ParseOccurrenceType(strings.ToUpper(name))
			if err != nil {
				return nil, goerr.Wrap(err, "invalid occurrence type in webhook-type-url", goerr.V("value", pair))
			}
			opts = append(opts, notify.WithTypeURL(typ, url))
		}
		senders = append(senders, notify.NewWebhookSender(n.webhookURL, opts...))
		logging.Default().Info("Webhook notifications enabled",
			"default_url", n.webhookURL != "",
			"type_urls", len(n.webhookTypeURLs),
		)
	}

	if n.slackToken != "" {
		if n.slackChannel == "" {
			return nil, goerr.New("slack-channel is required when slack-bot-token is set")
		}
		svc, err := slack.New(n.slackToken)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize slack service")
		}
		senders = append(senders, notify.NewSlackSender(svc, n.slackChannel))
		logging.Default().Info("Slack notifications enabled", "channel", n.slackChannel)
	}

	if len(senders) == 0 {
		logging.Default().Info("No notification sender configured, notifications disabled")
		return nil, nil
	}

	return notify.NewDispatcher(senders), nil
}
