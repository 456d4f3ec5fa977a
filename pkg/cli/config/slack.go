package config

import (
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/secmon-lab/panoptes/pkg/domain/interfaces"
	"github.com/secmon-lab/panoptes/pkg/service/notify"
	slackSvc "github.com/secmon-lab/panoptes/pkg/service/slack"
)

type Slack struct {
	botToken   string
	webhookURL string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token (for collecting workspace data)",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("PANOPTES_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL (for alert notifications)",
			Category:    "Slack",
			Destination: &x.webhookURL,
			Sources:     cli.EnvVars("PANOPTES_SLACK_WEBHOOK_URL"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.Int("webhook-url.len", len(x.webhookURL)),
	)
}

// Source creates the workspace collector from the bot token
func (x *Slack) Source() (interfaces.WorkspaceSource, error) {
	return slackSvc.New(x.botToken)
}

// Notifier creates the webhook notifier from the webhook URL
func (x *Slack) Notifier() (interfaces.Notifier, error) {
	return notify.NewWebhook(x.webhookURL)
}

// HasWebhook reports whether a webhook URL was configured
func (x *Slack) HasWebhook() bool {
	return x.webhookURL != ""
}
