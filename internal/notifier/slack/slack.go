package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/padel-ratings/internal/metrics"
	"github.com/mauv0809/padel-ratings/internal/notifier"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier posts recalculation failures to a Slack channel. Successful jobs are not announced.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics

	// DryRun logs the message instead of posting it.
	DryRun bool
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(ctx context.Context, message slack.Message) (string, string, error) {
	if s.DryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// NotifyJobFinished alerts the channel when a job failed.
func (s *Notifier) NotifyJobFinished(ctx context.Context, event notifier.JobEvent) error {
	if !event.Failed() {
		log.Debug("Skipping Slack notification for successful job", "jobID", event.JobID)
		return nil
	}
	_, _, err := s.sendMessage(ctx, s.formatJobFailure(event))
	return err
}

func (s *Notifier) formatJobFailure(event notifier.JobEvent) slack.Message {
	header := slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", "⚠️ Recalculation failed", true, false))

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Scope*\n%s", event.Scope()), false, false),
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Job*\n`%s`", event.JobID), false, false),
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Duration*\n%s", event.Duration.Round(time.Millisecond)), false, false),
		slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("*Finished*\n%s", event.FinishedAt.UTC().Format("Mon 02 Jan, 15:04 MST")), false, false),
	}
	summary := slack.NewSectionBlock(nil, fields, nil)

	errText := event.Error
	if errText == "" {
		errText = "no error message recorded"
	}
	details := slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", fmt.Sprintf("```%s```", errText), false, false), nil, nil)

	hint := slack.NewContextBlock("", slack.NewTextBlockObject("mrkdwn", "Failed jobs are not retried. Enqueue the scope again once the cause is fixed.", false, false))

	return slack.NewBlockMessage(header, summary, details, hint)
}
