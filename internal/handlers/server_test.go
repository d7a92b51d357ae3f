// internal/handlers/server_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avery-dunn/nutriguide/internal/auth"
	"github.com/avery-dunn/nutriguide/internal/friends"
	"github.com/avery-dunn/nutriguide/internal/models"
	"github.com/avery-dunn/nutriguide/internal/notify"
	"github.com/avery-dunn/nutriguide/internal/presence"
	"github.com/avery-dunn/nutriguide/internal/social"
	"github.com/avery-dunn/nutriguide/internal/store"
)

func newTestServer(t *testing.T) (*Server, *http.ServeMux, *store.Memory) {
	t.Helper()
	require.NoError(t, auth.Init())

	st := store.NewMemory()
	reg := presence.NewRegistry(nil)
	notifier := notify.NewNotifier(st, reg, nil, nil)
	srv := NewServer(st, notifier,
		friends.NewService(st, notifier, nil),
		social.NewService(st, notifier, reg, nil),
		reg, nil)

	mux := http.NewServeMux()
	srv.Routes(mux)
	return srv, mux, st
}

func do(t *testing.T, mux *http.ServeMux, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Cookie", "auth_token="+token)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func registerTestUser(t *testing.T, mux *http.ServeMux, username string) (models.User, string) {
	t.Helper()
	w := do(t, mux, "POST", "/user/create", "", map[string]string{
		"email":    username + "@example.com",
		"password": "password",
		"username": username,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var u models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	token, err := auth.CreateJWT(u.ID.String())
	require.NoError(t, err)
	return u, token
}

func TestRegisterLeavesWelcomeNotification(t *testing.T) {
	_, mux, _ := newTestServer(t)
	_, token := registerTestUser(t, mux, "alice")

	w := do(t, mux, "GET", "/notifications", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp notificationListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.UnreadCount)
	require.Equal(t, "👋 Welcome to Nutri Guide!", resp.Notifications[0].Title)
}

func TestLoginFlow(t *testing.T) {
	_, mux, _ := newTestServer(t)
	registerTestUser(t, mux, "alice")

	w := do(t, mux, "POST", "/user/login", "", map[string]string{
		"email": "alice@example.com", "password": "password",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp loginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	bad := do(t, mux, "POST", "/user/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong",
	})
	require.Equal(t, http.StatusForbidden, bad.Code)
}

func TestFriendFlow(t *testing.T) {
	_, mux, _ := newTestServer(t)
	_, aliceToken := registerTestUser(t, mux, "alice")
	bob, bobToken := registerTestUser(t, mux, "bob")

	// alice sends a request to bob by username
	w := do(t, mux, "POST", "/friends/request", aliceToken, map[string]string{"username": "bob"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var f models.Friendship
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &f))
	require.Equal(t, bob.ID, f.RecipientID)

	// a duplicate in the reverse direction conflicts
	dup := do(t, mux, "POST", "/friends/request", bobToken, map[string]string{"username": "alice"})
	require.Equal(t, http.StatusConflict, dup.Code)

	// alice cannot accept her own request
	self := do(t, mux, "POST", "/friends/"+f.ID.String()+"/accept", aliceToken, nil)
	require.Equal(t, http.StatusNotFound, self.Code)

	// bob accepts
	acc := do(t, mux, "POST", "/friends/"+f.ID.String()+"/accept", bobToken, nil)
	require.Equal(t, http.StatusOK, acc.Code, acc.Body.String())

	// both sides list each other as accepted
	list := do(t, mux, "GET", "/friends?status=accepted", bobToken, nil)
	require.Equal(t, http.StatusOK, list.Code)
	var entries []models.FriendEntry
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	require.Equal(t, "alice", entries[0].Username)

	// alice removes the friendship
	rem := do(t, mux, "DELETE", "/friends/"+f.ID.String(), aliceToken, nil)
	require.Equal(t, http.StatusOK, rem.Code)
}

func TestSocialFlow(t *testing.T) {
	_, mux, _ := newTestServer(t)
	owner, ownerToken := registerTestUser(t, mux, "owner")
	_, fanToken := registerTestUser(t, mux, "fan")

	w := do(t, mux, "POST", "/posts", ownerToken, map[string]string{"content": "first run in weeks"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var post models.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))

	like := do(t, mux, "POST", "/posts/"+post.ID.String()+"/like", fanToken, nil)
	require.Equal(t, http.StatusOK, like.Code)
	var lr toggleLikeResponse
	require.NoError(t, json.Unmarshal(like.Body.Bytes(), &lr))
	require.True(t, lr.Liked)
	require.Equal(t, 1, lr.LikesCount)

	unlike := do(t, mux, "POST", "/posts/"+post.ID.String()+"/like", fanToken, nil)
	require.Equal(t, http.StatusOK, unlike.Code)
	require.NoError(t, json.Unmarshal(unlike.Body.Bytes(), &lr))
	require.False(t, lr.Liked)
	require.Equal(t, 0, lr.LikesCount)

	com := do(t, mux, "POST", "/posts/"+post.ID.String()+"/comments", fanToken, map[string]string{"content": "nice pace"})
	require.Equal(t, http.StatusCreated, com.Code)

	comments := do(t, mux, "GET", "/posts/"+post.ID.String()+"/comments", ownerToken, nil)
	require.Equal(t, http.StatusOK, comments.Code)
	var cl []models.Comment
	require.NoError(t, json.Unmarshal(comments.Body.Bytes(), &cl))
	require.Len(t, cl, 1)

	msg := do(t, mux, "POST", "/messages", fanToken, map[string]any{
		"receiver_id": owner.ID, "content": "great post",
	})
	require.Equal(t, http.StatusCreated, msg.Code, msg.Body.String())

	conv := do(t, mux, "GET", "/messages/"+owner.ID.String(), fanToken, nil)
	require.Equal(t, http.StatusOK, conv.Code)
	var msgs []models.Message
	require.NoError(t, json.Unmarshal(conv.Body.Bytes(), &msgs))
	require.Len(t, msgs, 1)
}

func TestWaterGoalNotification(t *testing.T) {
	_, mux, _ := newTestServer(t)
	_, token := registerTestUser(t, mux, "alice")

	w := do(t, mux, "POST", "/water", token, map[string]float64{"amount_ml": 2000})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp logWaterResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 2000.0, resp.TodayTotal)

	// welcome only so far
	notifs := do(t, mux, "GET", "/notifications", token, nil)
	var nl notificationListResponse
	require.NoError(t, json.Unmarshal(notifs.Body.Bytes(), &nl))
	require.Equal(t, 1, nl.UnreadCount)

	w = do(t, mux, "POST", "/water", token, map[string]float64{"amount_ml": 600})
	require.Equal(t, http.StatusCreated, w.Code)

	notifs = do(t, mux, "GET", "/notifications", token, nil)
	require.NoError(t, json.Unmarshal(notifs.Body.Bytes(), &nl))
	require.Equal(t, 2, nl.UnreadCount)
	require.Equal(t, "🎉 Water Goal Achieved!", nl.Notifications[0].Title)
}

func TestSleepAdviceNotifications(t *testing.T) {
	_, mux, _ := newTestServer(t)
	_, token := registerTestUser(t, mux, "alice")

	w := do(t, mux, "POST", "/sleep", token, map[string]any{"duration_hours": 4.5, "quality": 8})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	notifs := do(t, mux, "GET", "/notifications", token, nil)
	var nl notificationListResponse
	require.NoError(t, json.Unmarshal(notifs.Body.Bytes(), &nl))
	require.Equal(t, "😴 Sleep Alert", nl.Notifications[0].Title)

	w = do(t, mux, "POST", "/sleep", token, map[string]any{"duration_hours": 8, "quality": 2})
	require.Equal(t, http.StatusCreated, w.Code)

	notifs = do(t, mux, "GET", "/notifications", token, nil)
	require.NoError(t, json.Unmarshal(notifs.Body.Bytes(), &nl))
	require.Equal(t, "🛌 Improve Sleep Quality", nl.Notifications[0].Title)

	// good sleep stays silent
	before := nl.UnreadCount
	w = do(t, mux, "POST", "/sleep", token, map[string]any{"duration_hours": 8, "quality": 9})
	require.Equal(t, http.StatusCreated, w.Code)
	notifs = do(t, mux, "GET", "/notifications", token, nil)
	require.NoError(t, json.Unmarshal(notifs.Body.Bytes(), &nl))
	require.Equal(t, before, nl.UnreadCount)
}

func TestMarkNotificationsRead(t *testing.T) {
	_, mux, _ := newTestServer(t)
	_, token := registerTestUser(t, mux, "alice")

	notifs := do(t, mux, "GET", "/notifications", token, nil)
	var nl notificationListResponse
	require.NoError(t, json.Unmarshal(notifs.Body.Bytes(), &nl))
	require.Equal(t, 1, nl.UnreadCount)
	id := nl.Notifications[0].ID

	w := do(t, mux, "POST", "/notifications/"+id.String()+"/read", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	notifs = do(t, mux, "GET", "/notifications", token, nil)
	require.NoError(t, json.Unmarshal(notifs.Body.Bytes(), &nl))
	require.Zero(t, nl.UnreadCount)

	// cannot touch someone else's notification
	_, otherToken := registerTestUser(t, mux, "bob")
	w = do(t, mux, "POST", "/notifications/"+id.String()+"/read", otherToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfileUpdateRecomputesTargets(t *testing.T) {
	_, mux, _ := newTestServer(t)
	_, token := registerTestUser(t, mux, "alice")

	w := do(t, mux, "PUT", "/user/me", token, map[string]any{
		"age": 30, "weight_kg": 80, "height_cm": 180, "gender": "male",
		"activity_level": "moderate", "goal": "maintain",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var u models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	require.Equal(t, 2759.0, u.DailyCalories)
	require.Empty(t, u.Password)
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	_, mux, _ := newTestServer(t)
	for _, path := range []string{"/notifications", "/friends", "/feed", "/meals"} {
		w := do(t, mux, "GET", path, "", nil)
		require.Equal(t, http.StatusForbidden, w.Code, path)
	}
}
