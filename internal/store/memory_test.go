package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperr "github.com/avery-dunn/nutriguide/internal/errors"
	"github.com/avery-dunn/nutriguide/internal/models"
)

func newUser(username string) *models.User {
	return &models.User{
		Email:    username + "@example.com",
		Username: username,
		Prefs:    models.DefaultReminderPrefs(),
	}
}

func TestCreateUserDuplicateEmailConflicts(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	require.NoError(t, st.CreateUser(ctx, newUser("alice")))

	dup := newUser("alice2")
	dup.Email = "alice@example.com"
	err := st.CreateUser(ctx, dup)
	require.True(t, apperr.IsConflict(err))

	dupName := newUser("alice")
	dupName.Email = "other@example.com"
	err = st.CreateUser(ctx, dupName)
	require.True(t, apperr.IsConflict(err))
}

func TestListUsersWithNotificationsEnabledFiltersMasterSwitch(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	on := newUser("on")
	require.NoError(t, st.CreateUser(ctx, on))

	// Master switch off; every per-category toggle stays on.
	off := newUser("off")
	off.Prefs.NotificationsEnabled = false
	require.NoError(t, st.CreateUser(ctx, off))

	users, err := st.ListUsersWithNotificationsEnabled(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, "on", users[0].Username)
}

func TestCreateFriendshipPairIsUnordered(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()
	a := newUser("a")
	b := newUser("b")
	require.NoError(t, st.CreateUser(ctx, a))
	require.NoError(t, st.CreateUser(ctx, b))

	require.NoError(t, st.CreateFriendship(ctx, &models.Friendship{
		RequesterID: a.ID, RecipientID: b.ID, Status: models.FriendshipPending,
	}))

	// The reverse direction is the same pair.
	err := st.CreateFriendship(ctx, &models.Friendship{
		RequesterID: b.ID, RecipientID: a.ID, Status: models.FriendshipPending,
	})
	require.True(t, apperr.IsConflict(err))
}

func TestLikeCounterReturnsWrittenValue(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()
	author := newUser("author")
	l1 := newUser("l1")
	l2 := newUser("l2")
	require.NoError(t, st.CreateUser(ctx, author))
	require.NoError(t, st.CreateUser(ctx, l1))
	require.NoError(t, st.CreateUser(ctx, l2))

	p := &models.Post{UserID: author.ID, Content: "c"}
	require.NoError(t, st.CreatePost(ctx, p))

	count, err := st.AddLike(ctx, &models.PostLike{PostID: p.ID, UserID: l1.ID})
	require.NoError(t, err)
	require.Equal(t, 1, count)

	count, err = st.AddLike(ctx, &models.PostLike{PostID: p.ID, UserID: l2.ID})
	require.NoError(t, err)
	require.Equal(t, 2, count)

	count, err = st.RemoveLike(ctx, p.ID, l1.ID)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	got, err := st.GetPost(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.LikesCount)
}

func TestNotificationsNewestFirstWithLimit(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()
	u := newUser("alice")
	require.NoError(t, st.CreateUser(ctx, u))

	base := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		n := &models.Notification{
			UserID:    u.ID,
			Title:     "t",
			Message:   "m",
			Type:      models.CategoryGeneral,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, st.CreateNotification(ctx, n))
	}

	notifs, err := st.ListNotifications(ctx, u.ID, false, 3)
	require.NoError(t, err)
	require.Len(t, notifs, 3)
	require.True(t, notifs[0].CreatedAt.After(notifs[1].CreatedAt))
	require.True(t, notifs[1].CreatedAt.After(notifs[2].CreatedAt))
}

func TestMarkReadScopedToOwner(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()
	owner := newUser("owner")
	intruder := newUser("intruder")
	require.NoError(t, st.CreateUser(ctx, owner))
	require.NoError(t, st.CreateUser(ctx, intruder))

	n := &models.Notification{UserID: owner.ID, Title: "t", Message: "m", Type: models.CategoryGeneral}
	require.NoError(t, st.CreateNotification(ctx, n))

	err := st.MarkNotificationRead(ctx, n.ID, intruder.ID)
	require.True(t, apperr.IsNotFound(err))

	require.NoError(t, st.MarkNotificationRead(ctx, n.ID, owner.ID))
	count, err := st.CountUnreadNotifications(ctx, owner.ID)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestUnreadOnlyFilter(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()
	u := newUser("alice")
	require.NoError(t, st.CreateUser(ctx, u))

	read := &models.Notification{UserID: u.ID, Title: "read", Message: "m", Type: models.CategoryGeneral, IsRead: true}
	unread := &models.Notification{UserID: u.ID, Title: "unread", Message: "m", Type: models.CategoryGeneral}
	require.NoError(t, st.CreateNotification(ctx, read))
	require.NoError(t, st.CreateNotification(ctx, unread))

	notifs, err := st.ListNotifications(ctx, u.ID, true, 10)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	require.Equal(t, "unread", notifs[0].Title)
}

func TestWaterTotalForDayIgnoresOtherDays(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()
	u := newUser("alice")
	require.NoError(t, st.CreateUser(ctx, u))

	today := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	require.NoError(t, st.CreateWaterLog(ctx, &models.WaterLog{UserID: u.ID, AmountML: 500, Date: today}))
	require.NoError(t, st.CreateWaterLog(ctx, &models.WaterLog{UserID: u.ID, AmountML: 700, Date: today.Add(4 * time.Hour)}))
	require.NoError(t, st.CreateWaterLog(ctx, &models.WaterLog{UserID: u.ID, AmountML: 900, Date: today.AddDate(0, 0, -1)}))

	total, err := st.WaterTotalForDay(ctx, u.ID, today)
	require.NoError(t, err)
	require.Equal(t, 1200.0, total)
}

func TestListMessagesKeepsLatestWindowInOrder(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()
	a := newUser("a")
	b := newUser("b")
	require.NoError(t, st.CreateUser(ctx, a))
	require.NoError(t, st.CreateUser(ctx, b))

	base := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		m := &models.Message{SenderID: a.ID, ReceiverID: b.ID, Content: string(rune('a' + i)), CreatedAt: base.Add(time.Duration(i) * time.Second)}
		require.NoError(t, st.CreateMessage(ctx, m))
	}

	msgs, err := st.ListMessages(ctx, b.ID, a.ID, 3)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	require.Equal(t, "c", msgs[0].Content)
	require.Equal(t, "e", msgs[2].Content)
}

func TestSearchUsersExcludesRequester(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()
	alice := newUser("alice")
	alicia := newUser("alicia")
	bob := newUser("bob")
	require.NoError(t, st.CreateUser(ctx, alice))
	require.NoError(t, st.CreateUser(ctx, alicia))
	require.NoError(t, st.CreateUser(ctx, bob))

	found, err := st.SearchUsers(ctx, "ali", alice.ID, 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "alicia", found[0].Username)
}
