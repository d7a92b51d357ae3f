package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	Rdb = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { Rdb = nil })
	return mr
}

func TestPublishNotificationEvent(t *testing.T) {
	mr := setupMiniredis(t)

	event := NotificationEvent{
		NotificationID: uuid.New(),
		UserID:         uuid.New(),
		Title:          "💧 Time to Drink Water!",
		Message:        "Stay hydrated! Drink a glass of water.",
		Type:           "water",
		Timestamp:      time.Now().Unix(),
	}
	require.NoError(t, PublishNotificationEvent(context.Background(), event))

	raw, err := mr.Lpop(DefaultQueueName)
	require.NoError(t, err)

	var got NotificationEvent
	require.NoError(t, json.Unmarshal([]byte(raw), &got))
	require.Equal(t, event.NotificationID, got.NotificationID)
	require.Equal(t, event.Title, got.Title)
	require.Equal(t, "water", got.Type)
}

func TestPublishUsesQueueNameFromEnv(t *testing.T) {
	mr := setupMiniredis(t)
	t.Setenv("NOTIFY_QUEUE_NAME", "custom_queue")

	require.NoError(t, PublishNotificationEvent(context.Background(), NotificationEvent{
		NotificationID: uuid.New(),
		UserID:         uuid.New(),
		Title:          "t",
		Message:        "m",
		Type:           "general",
	}))

	require.True(t, mr.Exists("custom_queue"))
	require.False(t, mr.Exists(DefaultQueueName))
}

func TestPublishWithoutClientIsNoop(t *testing.T) {
	Rdb = nil
	require.NoError(t, PublishNotificationEvent(context.Background(), NotificationEvent{Title: "t"}))
}

func TestPublishOrderIsFIFO(t *testing.T) {
	mr := setupMiniredis(t)

	for i, title := range []string{"first", "second", "third"} {
		require.NoError(t, PublishNotificationEvent(context.Background(), NotificationEvent{
			NotificationID: uuid.New(),
			Title:          title,
			Timestamp:      int64(i),
		}))
	}

	items, err := mr.List(DefaultQueueName)
	require.NoError(t, err)
	require.Len(t, items, 3)

	var first NotificationEvent
	require.NoError(t, json.Unmarshal([]byte(items[0]), &first))
	require.Equal(t, "first", first.Title)
}
