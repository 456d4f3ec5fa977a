package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/secmon-lab/panoptes/pkg/domain/model"
	"github.com/secmon-lab/panoptes/pkg/domain/types"
)

const (
	// maxCriticalMessages caps the individually delivered critical alerts;
	// warnings and info are summarized in one message.
	maxCriticalMessages = 5
	// maxSummaryTitles caps the warning titles embedded in the summary
	maxSummaryTitles = 3
)

// WebhookNotifier delivers alert notifications to a Slack incoming webhook.
// Delivery is best-effort: the caller logs failures and moves on.
type WebhookNotifier struct {
	url string
}

// NewWebhook creates a notifier for the given webhook URL
func NewWebhook(url string) (*WebhookNotifier, error) {
	if url == "" {
		return nil, goerr.New("webhook URL is required")
	}
	return &WebhookNotifier{url: url}, nil
}

// Notify posts critical alerts individually (capped) and a single summary
// for warnings and info
func (n *WebhookNotifier) Notify(ctx context.Context, alerts []model.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	var critical, warning, info []model.Alert
	for _, a := range alerts {
		switch a.Severity {
		case types.SeverityCritical:
			critical = append(critical, a)
		case types.SeverityWarning:
			warning = append(warning, a)
		case types.SeverityInfo:
			info = append(info, a)
		}
	}

	for i, a := range critical {
		if i == maxCriticalMessages {
			break
		}
		msg := &slack.WebhookMessage{
			Attachments: []slack.Attachment{{
				Color:  "danger",
				Title:  a.Title,
				Text:   a.Message,
				Fields: detailFields(a.Details),
			}},
		}
		if err := slack.PostWebhookContext(ctx, n.url, msg); err != nil {
			return goerr.Wrap(err, "failed to post critical alert", goerr.V("title", a.Title))
		}
	}

	if len(warning) > 0 || len(info) > 0 {
		var sb strings.Builder
		fmt.Fprintf(&sb, "*Warnings:* %d\n*Info:* %d", len(warning), len(info))
		if len(warning) > 0 {
			sb.WriteString("\n\n*Top Warnings:*\n")
			for i, a := range warning {
				if i == maxSummaryTitles {
					break
				}
				fmt.Fprintf(&sb, "- %s\n", a.Title)
			}
		}

		msg := &slack.WebhookMessage{
			Attachments: []slack.Attachment{{
				Color: "warning",
				Title: "Workspace Alerts Summary",
				Text:  sb.String(),
			}},
		}
		if err := slack.PostWebhookContext(ctx, n.url, msg); err != nil {
			return goerr.Wrap(err, "failed to post alert summary")
		}
	}

	return nil
}

// detailFields extracts the scalar statistics of a detail payload for the
// attachment; entity lists are skipped to keep messages small.
func detailFields(details model.AlertDetails) []slack.AttachmentField {
	switch d := details.(type) {
	case model.InactiveUsersDetails:
		return []slack.AttachmentField{
			{Title: "Inactive Count", Value: fmt.Sprintf("%d", d.InactiveCount), Short: true},
			{Title: "Percentage", Value: fmt.Sprintf("%.1f%%", d.Percentage), Short: true},
		}
	case model.DeactivationSpikeDetails:
		return []slack.AttachmentField{
			{Title: "Deactivations", Value: fmt.Sprintf("%d", d.DeactivationCount), Short: true},
			{Title: "Window (days)", Value: fmt.Sprintf("%d", d.Days), Short: true},
		}
	case model.StorageDetails:
		return []slack.AttachmentField{
			{Title: "Total", Value: fmt.Sprintf("%.2f GB", d.TotalGB), Short: true},
			{Title: "Threshold", Value: fmt.Sprintf("%g GB", d.Threshold), Short: true},
		}
	case model.OwnerCountDetails:
		return []slack.AttachmentField{
			{Title: "Owner Count", Value: fmt.Sprintf("%d", d.OwnerCount), Short: true},
		}
	default:
		return nil
	}
}
