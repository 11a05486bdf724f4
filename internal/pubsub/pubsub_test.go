package pubsub

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mauv0809/padel-ratings/internal/notifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestDecoderReadsSessionLockedPayload(t *testing.T) {
	data, err := msgpack.Marshal(map[string]any{"session_id": 42})
	require.NoError(t, err)

	var event SessionLockedEvent
	require.NoError(t, NewDecoder().ProcessMessage(data, &event))
	assert.Equal(t, int64(42), event.SessionID)

	assert.Error(t, NewDecoder().ProcessMessage([]byte{0xc1}, &event))
}

func TestJobPublisher(t *testing.T) {
	mock := NewMock()
	publisher := NewJobPublisher(mock)
	event := notifier.JobEvent{JobID: "j1", CalcType: "global", Status: "COMPLETED", Duration: time.Second}

	require.NoError(t, publisher.NotifyJobFinished(context.Background(), event))
	require.Len(t, mock.SendMessageCalls, 1)
	assert.Equal(t, string(EventRecalculationFinished), mock.SendMessageCalls[0].Topic)
	assert.Equal(t, event, mock.SendMessageCalls[0].Data)

	t.Run("publish errors are returned", func(t *testing.T) {
		boom := errors.New("publish failed")
		mock.SendMessageFunc = func(topic EventType, data any) error { return boom }
		assert.ErrorIs(t, publisher.NotifyJobFinished(context.Background(), event), boom)
	})
}
