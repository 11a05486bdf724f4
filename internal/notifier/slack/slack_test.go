package slack

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mauv0809/padel-ratings/internal/metrics"
	"github.com/mauv0809/padel-ratings/internal/notifier"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func failedEvent() notifier.JobEvent {
	id := int64(3)
	return notifier.JobEvent{
		JobID:      "job-1",
		CalcType:   "league",
		ScopeID:    &id,
		Status:     "FAILED",
		Error:      "league not found: 3",
		Duration:   1500 * time.Millisecond,
		FinishedAt: time.Date(2026, 7, 9, 20, 0, 0, 0, time.UTC),
	}
}

func TestSendMessage_DryRun(t *testing.T) {
	metrics := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "C123", metrics)
	notifier.DryRun = true

	_, _, err := notifier.sendMessage(context.Background(), slackapi.NewBlockMessage())
	require.NoError(t, err)
	assert.Equal(t, 0, metrics.SlackNotifSent())
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage(slackapi.NewSectionBlock(slackapi.NewTextBlockObject("plain_text", "hello", false, false), nil, nil))
	_, _, err := notifier.sendMessage(context.Background(), message)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metrics.SlackNotifSent())
	assert.Equal(t, 0, metrics.SlackNotifFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", expectedErr
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	_, _, err := notifier.sendMessage(context.Background(), slackapi.NewBlockMessage())

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, metrics.SlackNotifSent())
	assert.Equal(t, 1, metrics.SlackNotifFailed())
}

func TestNotifyJobFinished(t *testing.T) {
	t.Run("posts failures", func(t *testing.T) {
		calls := 0
		api := &mockSlackAPI{
			postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
				calls++
				return "C123", "ts123", nil
			},
		}
		n := NewNotifierWithAPI(api, "C123", metrics.NewMock())
		require.NoError(t, n.NotifyJobFinished(context.Background(), failedEvent()))
		assert.Equal(t, 1, calls)
	})

	t.Run("skips successful jobs", func(t *testing.T) {
		api := &mockSlackAPI{
			postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
				t.Fatal("PostMessageContext should not be called for a completed job")
				return "", "", nil
			},
		}
		n := NewNotifierWithAPI(api, "C123", metrics.NewMock())
		event := failedEvent()
		event.Status = "COMPLETED"
		event.Error = ""
		require.NoError(t, n.NotifyJobFinished(context.Background(), event))
	})
}

func TestFormatJobFailure(t *testing.T) {
	client := &Notifier{channelID: "C123"}
	msg := client.formatJobFailure(failedEvent())
	require.Len(t, msg.Blocks.BlockSet, 4, "Expected 4 blocks")

	header, ok := msg.Blocks.BlockSet[0].(*slackapi.HeaderBlock)
	require.True(t, ok, "First block should be a HeaderBlock")
	assert.Equal(t, "⚠️ Recalculation failed", header.Text.Text)

	summary, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok, "Second block should be a SectionBlock")
	require.Len(t, summary.Fields, 4)
	assert.Equal(t, "*Scope*\nleague:3", summary.Fields[0].Text)
	assert.Equal(t, "*Job*\n`job-1`", summary.Fields[1].Text)
	assert.Equal(t, "*Duration*\n1.5s", summary.Fields[2].Text)
	assert.Equal(t, "*Finished*\nThu 09 Jul, 20:00 UTC", summary.Fields[3].Text)

	details, ok := msg.Blocks.BlockSet[2].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Equal(t, "```league not found: 3```", details.Text.Text)

	_, ok = msg.Blocks.BlockSet[3].(*slackapi.ContextBlock)
	require.True(t, ok, "Fourth block should be a ContextBlock")
}
