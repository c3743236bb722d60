package messaging_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/messaging"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/queue"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/testing/testnats"
)

func TestNATSProducer_Shared(t *testing.T) {
	nc := testnats.SetupSharedNATS(t)
	defer nc.Cleanup(t)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	producer, err := messaging.NewNATSProducer(nc.URL, "queue.events", logger)
	require.NoError(t, err)
	defer producer.Close()

	t.Run("PublishesQueueEvent", func(t *testing.T) {
		conn := nc.Connect(t)
		sub, err := conn.SubscribeSync("queue.events")
		require.NoError(t, err)
		defer sub.Unsubscribe()

		event := queue.QueueEvent{
			Type:           "queue.entry.enqueued",
			EntryID:        7,
			UserID:         1,
			ServiceID:      10,
			Status:         queue.StatusWaiting,
			PositionNumber: 3,
			OccurredAt:     time.Now(),
		}
		require.NoError(t, producer.SendMessage(context.Background(), event))

		msg, err := sub.NextMsg(5 * time.Second)
		require.NoError(t, err)

		var got queue.QueueEvent
		require.NoError(t, json.Unmarshal(msg.Data, &got))
		assert.Equal(t, "queue.entry.enqueued", got.Type)
		assert.Equal(t, 7, got.EntryID)
		assert.Equal(t, queue.StatusWaiting, got.Status)
		assert.Equal(t, 3, got.PositionNumber)
	})

	t.Run("CancelledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := producer.SendMessage(ctx, map[string]string{"k": "v"})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
