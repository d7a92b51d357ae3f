package social

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	apperr "github.com/avery-dunn/nutriguide/internal/errors"
	"github.com/avery-dunn/nutriguide/internal/models"
	"github.com/avery-dunn/nutriguide/internal/presence"
	"github.com/avery-dunn/nutriguide/internal/store"
)

type recordedNotification struct {
	UserID uuid.UUID
	Title  string
}

type recordingSender struct {
	mu   sync.Mutex
	sent []recordedNotification
}

func (r *recordingSender) Notify(_ context.Context, userID uuid.UUID, title, _, _ string) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, recordedNotification{UserID: userID, Title: title})
	return uuid.New(), nil
}

func (r *recordingSender) all() []recordedNotification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedNotification(nil), r.sent...)
}

func newTestService(t *testing.T) (*Service, *store.Memory, *recordingSender, *presence.Registry) {
	t.Helper()
	st := store.NewMemory()
	sender := &recordingSender{}
	reg := presence.NewRegistry(nil)
	return NewService(st, sender, reg, nil), st, sender, reg
}

func seedUser(t *testing.T, st *store.Memory, username string) uuid.UUID {
	t.Helper()
	u := models.User{Email: username + "@example.com", Username: username, Prefs: models.DefaultReminderPrefs()}
	require.NoError(t, st.CreateUser(context.Background(), &u))
	return u.ID
}

func TestLikeToggle(t *testing.T) {
	svc, st, sender, _ := newTestService(t)
	owner := seedUser(t, st, "owner")
	liker := seedUser(t, st, "liker")

	post, err := svc.CreatePost(context.Background(), owner, "leg day", "")
	require.NoError(t, err)

	liked, count, err := svc.ToggleLike(context.Background(), post.ID, liker)
	require.NoError(t, err)
	require.True(t, liked)
	require.Equal(t, 1, count)

	sent := sender.all()
	require.Len(t, sent, 1)
	require.Equal(t, owner, sent[0].UserID)
	require.Equal(t, "❤️ New Like", sent[0].Title)

	// Second toggle removes the like without a notification.
	liked, count, err = svc.ToggleLike(context.Background(), post.ID, liker)
	require.NoError(t, err)
	require.False(t, liked)
	require.Equal(t, 0, count)
	require.Len(t, sender.all(), 1)

	got, err := st.GetPost(context.Background(), post.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.LikesCount)
}

func TestOwnLikeDoesNotNotify(t *testing.T) {
	svc, st, sender, _ := newTestService(t)
	owner := seedUser(t, st, "owner")

	post, err := svc.CreatePost(context.Background(), owner, "self five", "")
	require.NoError(t, err)

	liked, count, err := svc.ToggleLike(context.Background(), post.ID, owner)
	require.NoError(t, err)
	require.True(t, liked)
	require.Equal(t, 1, count)
	require.Empty(t, sender.all())
}

func TestLikeMissingPost(t *testing.T) {
	svc, st, _, _ := newTestService(t)
	liker := seedUser(t, st, "liker")

	_, _, err := svc.ToggleLike(context.Background(), uuid.New(), liker)
	require.True(t, apperr.IsNotFound(err))
}

func TestCommentBumpsCounterAndNotifies(t *testing.T) {
	svc, st, sender, _ := newTestService(t)
	owner := seedUser(t, st, "owner")
	commenter := seedUser(t, st, "commenter")

	post, err := svc.CreatePost(context.Background(), owner, "new pr today", "")
	require.NoError(t, err)

	c, err := svc.AddComment(context.Background(), post.ID, commenter, "congrats!")
	require.NoError(t, err)
	require.Equal(t, "congrats!", c.Content)

	got, err := st.GetPost(context.Background(), post.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.CommentsCount)

	sent := sender.all()
	require.Len(t, sent, 1)
	require.Equal(t, "💬 New Comment", sent[0].Title)

	// Own comment bumps the counter but stays silent.
	_, err = svc.AddComment(context.Background(), post.ID, owner, "thanks")
	require.NoError(t, err)
	require.Len(t, sender.all(), 1)

	comments, err := svc.ListComments(context.Background(), post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	require.Equal(t, "congrats!", comments[0].Content)
}

func TestFeedIncludesOnlySelfAndAcceptedFriends(t *testing.T) {
	svc, st, _, _ := newTestService(t)
	alice := seedUser(t, st, "alice")
	bob := seedUser(t, st, "bob")
	carol := seedUser(t, st, "carol")

	require.NoError(t, st.CreateFriendship(context.Background(), &models.Friendship{
		RequesterID: alice, RecipientID: bob, Status: models.FriendshipAccepted,
	}))

	_, err := svc.CreatePost(context.Background(), alice, "mine", "")
	require.NoError(t, err)
	_, err = svc.CreatePost(context.Background(), bob, "friend's", "")
	require.NoError(t, err)
	_, err = svc.CreatePost(context.Background(), carol, "stranger's", "")
	require.NoError(t, err)

	feed, err := svc.ListFeed(context.Background(), alice, 20, 0)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	for _, p := range feed {
		require.NotEqual(t, carol, p.UserID)
	}
}

func TestSendMessagePersistsPushesAndNotifies(t *testing.T) {
	svc, st, sender, reg := newTestService(t)
	alice := seedUser(t, st, "alice")
	bob := seedUser(t, st, "bob")

	session := presence.NewSession(bob, func() {})
	reg.Register(session)

	msg, err := svc.SendMessage(context.Background(), alice, bob, "see you at the gym")
	require.NoError(t, err)
	require.Equal(t, alice, msg.SenderID)

	select {
	case p := <-session.OutChan:
		require.Equal(t, EventMessage, p.Event)
		require.Equal(t, "alice", p.Data["sender_username"])
		require.Equal(t, "see you at the gym", p.Data["content"])
	default:
		t.Fatal("recipient session did not receive the message frame")
	}

	sent := sender.all()
	require.Len(t, sent, 1)
	require.Equal(t, bob, sent[0].UserID)
	require.Equal(t, "💬 New Message", sent[0].Title)

	msgs, err := svc.ListMessages(context.Background(), alice, bob, 50)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
}

func TestSendMessageToSelfFails(t *testing.T) {
	svc, st, _, _ := newTestService(t)
	alice := seedUser(t, st, "alice")

	_, err := svc.SendMessage(context.Background(), alice, alice, "hi me")
	require.ErrorIs(t, err, apperr.ErrSelfReference)
}

func TestSendMessageOfflineRecipientStillPersists(t *testing.T) {
	svc, st, sender, _ := newTestService(t)
	alice := seedUser(t, st, "alice")
	bob := seedUser(t, st, "bob")

	_, err := svc.SendMessage(context.Background(), alice, bob, "read this later")
	require.NoError(t, err)

	msgs, err := svc.ListMessages(context.Background(), alice, bob, 50)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Len(t, sender.all(), 1)
}
