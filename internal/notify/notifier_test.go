package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/avery-dunn/nutriguide/internal/models"
	"github.com/avery-dunn/nutriguide/internal/presence"
	"github.com/avery-dunn/nutriguide/internal/store"
)

type failingNotificationStore struct {
	store.Store
}

func (f *failingNotificationStore) CreateNotification(context.Context, *models.Notification) error {
	return errors.New("disk on fire")
}

func TestNotifyPersistsWithoutSessions(t *testing.T) {
	st := store.NewMemory()
	n := NewNotifier(st, presence.NewRegistry(nil), nil, nil)
	userID := uuid.New()

	id, err := n.Notify(context.Background(), userID, "💧 Time to Drink Water!", "Stay hydrated!", models.CategoryWater)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	notifs, err := st.ListNotifications(context.Background(), userID, false, 10)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	require.Equal(t, "💧 Time to Drink Water!", notifs[0].Title)
	require.Equal(t, models.CategoryWater, notifs[0].Type)
	require.False(t, notifs[0].IsRead)
}

func TestNotifyPushesToEverySession(t *testing.T) {
	st := store.NewMemory()
	reg := presence.NewRegistry(nil)
	n := NewNotifier(st, reg, nil, nil)
	userID := uuid.New()

	s1 := presence.NewSession(userID, func() {})
	s2 := presence.NewSession(userID, func() {})
	reg.Register(s1)
	reg.Register(s2)

	_, err := n.Notify(context.Background(), userID, "👋 New Friend Request", "You have a new friend request!", models.CategorySocial)
	require.NoError(t, err)

	for _, s := range []*presence.Session{s1, s2} {
		select {
		case p := <-s.OutChan:
			require.Equal(t, EventNotification, p.Event)
			require.Equal(t, "👋 New Friend Request", p.Data["title"])
			require.Equal(t, models.CategorySocial, p.Data["type"])
		default:
			t.Fatal("session did not receive the push")
		}
	}

	// Exactly one row regardless of session count.
	notifs, err := st.ListNotifications(context.Background(), userID, false, 10)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
}

func TestNotifyPropagatesStoreError(t *testing.T) {
	reg := presence.NewRegistry(nil)
	userID := uuid.New()
	s := presence.NewSession(userID, func() {})
	reg.Register(s)

	n := NewNotifier(&failingNotificationStore{}, reg, nil, nil)
	_, err := n.Notify(context.Background(), userID, "t", "m", models.CategoryGeneral)
	require.Error(t, err)

	// Nothing may be pushed when the durable write failed.
	select {
	case <-s.OutChan:
		t.Fatal("payload pushed despite failed persistence")
	default:
	}
}

func TestNotifyFullBufferDoesNotFail(t *testing.T) {
	st := store.NewMemory()
	reg := presence.NewRegistry(nil)
	n := NewNotifier(st, reg, nil, nil)
	userID := uuid.New()

	s := presence.NewSession(userID, func() {})
	reg.Register(s)
	for {
		select {
		case s.OutChan <- presence.Payload{Event: "fill"}:
			continue
		default:
		}
		break
	}

	_, err := n.Notify(context.Background(), userID, "t", "m", models.CategoryGeneral)
	require.NoError(t, err)

	notifs, err := st.ListNotifications(context.Background(), userID, false, 10)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
}
