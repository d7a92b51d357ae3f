package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperr "github.com/avery-dunn/nutriguide/internal/errors"
	"github.com/avery-dunn/nutriguide/internal/models"
)

// Memory is an in-memory Store. It backs unit tests and DEV_MODE runs; it is
// not durable and holds everything behind one mutex.
type Memory struct {
	mu sync.Mutex

	users         map[uuid.UUID]models.User
	notifications map[uuid.UUID]models.Notification
	friendships   map[uuid.UUID]models.Friendship
	posts         map[uuid.UUID]models.Post
	likes         map[uuid.UUID]models.PostLike
	comments      map[uuid.UUID]models.Comment
	messages      map[uuid.UUID]models.Message
	meals         map[uuid.UUID]models.Meal
	workouts      map[uuid.UUID]models.Workout
	waterLogs     map[uuid.UUID]models.WaterLog
	sleepLogs     map[uuid.UUID]models.SleepLog
	weightLogs    map[uuid.UUID]models.WeightLog
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		users:         make(map[uuid.UUID]models.User),
		notifications: make(map[uuid.UUID]models.Notification),
		friendships:   make(map[uuid.UUID]models.Friendship),
		posts:         make(map[uuid.UUID]models.Post),
		likes:         make(map[uuid.UUID]models.PostLike),
		comments:      make(map[uuid.UUID]models.Comment),
		messages:      make(map[uuid.UUID]models.Message),
		meals:         make(map[uuid.UUID]models.Meal),
		workouts:      make(map[uuid.UUID]models.Workout),
		waterLogs:     make(map[uuid.UUID]models.WaterLog),
		sleepLogs:     make(map[uuid.UUID]models.SleepLog),
		weightLogs:    make(map[uuid.UUID]models.WeightLog),
	}
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func ensureTime(t *time.Time) {
	if t.IsZero() {
		*t = time.Now().UTC()
	}
}

// ---- users ----

func (s *Memory) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return apperr.Conflict("email or username already taken")
		}
	}
	ensureID(&u.ID)
	ensureTime(&u.CreatedAt)
	s.users[u.ID] = *u
	return nil
}

func (s *Memory) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("user")
	}
	return &u, nil
}

func (s *Memory) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, apperr.NotFound("user")
}

func (s *Memory) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, apperr.NotFound("user")
}

func (s *Memory) UpdateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return apperr.NotFound("user")
	}
	s.users[u.ID] = *u
	return nil
}

func (s *Memory) SearchUsers(_ context.Context, query string, excluding uuid.UUID, limit int) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := strings.ToLower(query)
	var out []models.User
	for _, u := range s.users {
		if u.ID == excluding {
			continue
		}
		if strings.Contains(strings.ToLower(u.Username), q) || strings.Contains(strings.ToLower(u.Email), q) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Memory) ListUsersWithNotificationsEnabled(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.User
	for _, u := range s.users {
		if u.Prefs.NotificationsEnabled {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

// ---- notifications ----

func (s *Memory) CreateNotification(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&n.ID)
	ensureTime(&n.CreatedAt)
	s.notifications[n.ID] = *n
	return nil
}

func (s *Memory) ListNotifications(_ context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Notification
	for _, n := range s.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Memory) CountUnreadNotifications(_ context.Context, userID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, n := range s.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (s *Memory) MarkNotificationRead(_ context.Context, id, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok || n.UserID != userID {
		return apperr.NotFound("notification")
	}
	n.IsRead = true
	s.notifications[id] = n
	return nil
}

func (s *Memory) MarkAllNotificationsRead(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, n := range s.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			s.notifications[id] = n
		}
	}
	return nil
}

// ---- friendships ----

func (s *Memory) CreateFriendship(_ context.Context, f *models.Friendship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.friendships {
		samePair := (existing.RequesterID == f.RequesterID && existing.RecipientID == f.RecipientID) ||
			(existing.RequesterID == f.RecipientID && existing.RecipientID == f.RequesterID)
		if samePair {
			return apperr.Conflict("friendship already exists")
		}
	}
	ensureID(&f.ID)
	ensureTime(&f.CreatedAt)
	s.friendships[f.ID] = *f
	return nil
}

func (s *Memory) GetFriendship(_ context.Context, id uuid.UUID) (*models.Friendship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.friendships[id]
	if !ok {
		return nil, apperr.NotFound("friendship")
	}
	return &f, nil
}

func (s *Memory) AcceptFriendship(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.friendships[id]
	if !ok || f.Status != models.FriendshipPending {
		return apperr.NotFound("pending friendship")
	}
	f.Status = models.FriendshipAccepted
	s.friendships[id] = f
	return nil
}

func (s *Memory) DeleteFriendship(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.friendships[id]; !ok {
		return apperr.NotFound("friendship")
	}
	delete(s.friendships, id)
	return nil
}

func (s *Memory) FindFriendshipBetween(_ context.Context, a, b uuid.UUID) (*models.Friendship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.friendships {
		if (f.RequesterID == a && f.RecipientID == b) || (f.RequesterID == b && f.RecipientID == a) {
			f := f
			return &f, nil
		}
	}
	return nil, apperr.NotFound("friendship")
}

func (s *Memory) ListFriendships(_ context.Context, userID uuid.UUID, status string) ([]models.FriendEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.FriendEntry
	for _, f := range s.friendships {
		if !f.Involves(userID) || (status != "" && f.Status != status) {
			continue
		}
		other := s.users[f.Other(userID)]
		out = append(out, models.FriendEntry{
			FriendshipID:   f.ID,
			Status:         f.Status,
			IsRequester:    f.RequesterID == userID,
			CreatedAt:      f.CreatedAt,
			FriendID:       other.ID,
			Username:       other.Username,
			Bio:            other.Bio,
			ProfilePicture: other.ProfilePicture,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ---- social ----

func (s *Memory) CreatePost(_ context.Context, p *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&p.ID)
	ensureTime(&p.CreatedAt)
	s.posts[p.ID] = *p
	return nil
}

func (s *Memory) GetPost(_ context.Context, id uuid.UUID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, apperr.NotFound("post")
	}
	return &p, nil
}

func (s *Memory) ListFeed(_ context.Context, userID uuid.UUID, limit, offset int) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	authors := map[uuid.UUID]bool{userID: true}
	for _, f := range s.friendships {
		if f.Status == models.FriendshipAccepted && f.Involves(userID) {
			authors[f.Other(userID)] = true
		}
	}
	var out []models.Post
	for _, p := range s.posts {
		if authors[p.UserID] {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset > 0 {
		if offset >= len(out) {
			return nil, nil
		}
		out = out[offset:]
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Memory) GetLike(_ context.Context, postID, userID uuid.UUID) (*models.PostLike, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.likes {
		if l.PostID == postID && l.UserID == userID {
			l := l
			return &l, nil
		}
	}
	return nil, apperr.NotFound("like")
}

func (s *Memory) AddLike(_ context.Context, l *models.PostLike) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[l.PostID]
	if !ok {
		return 0, apperr.NotFound("post")
	}
	ensureID(&l.ID)
	ensureTime(&l.CreatedAt)
	s.likes[l.ID] = *l
	p.LikesCount++
	s.posts[p.ID] = p
	return p.LikesCount, nil
}

func (s *Memory) RemoveLike(_ context.Context, postID, userID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, l := range s.likes {
		if l.PostID == postID && l.UserID == userID {
			delete(s.likes, id)
			count := 0
			if p, ok := s.posts[postID]; ok {
				p.LikesCount--
				s.posts[postID] = p
				count = p.LikesCount
			}
			return count, nil
		}
	}
	return 0, apperr.NotFound("like")
}

func (s *Memory) CreateComment(_ context.Context, c *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[c.PostID]
	if !ok {
		return apperr.NotFound("post")
	}
	ensureID(&c.ID)
	ensureTime(&c.CreatedAt)
	s.comments[c.ID] = *c
	p.CommentsCount++
	s.posts[p.ID] = p
	return nil
}

func (s *Memory) ListComments(_ context.Context, postID uuid.UUID) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Comment
	for _, c := range s.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Memory) CreateMessage(_ context.Context, m *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&m.ID)
	ensureTime(&m.CreatedAt)
	s.messages[m.ID] = *m
	return nil
}

func (s *Memory) ListMessages(_ context.Context, a, b uuid.UUID, limit int) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Message
	for _, m := range s.messages {
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

// ---- tracking ----

func (s *Memory) CreateMeal(_ context.Context, m *models.Meal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&m.ID)
	ensureTime(&m.Date)
	s.meals[m.ID] = *m
	return nil
}

func (s *Memory) ListMeals(_ context.Context, userID uuid.UUID, limit int) ([]models.Meal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Meal
	for _, m := range s.meals {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Memory) CreateWorkout(_ context.Context, w *models.Workout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&w.ID)
	ensureTime(&w.Date)
	s.workouts[w.ID] = *w
	return nil
}

func (s *Memory) ListWorkouts(_ context.Context, userID uuid.UUID, limit int) ([]models.Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Workout
	for _, w := range s.workouts {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Memory) CreateWaterLog(_ context.Context, w *models.WaterLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&w.ID)
	ensureTime(&w.Date)
	s.waterLogs[w.ID] = *w
	return nil
}

func (s *Memory) WaterTotalForDay(_ context.Context, userID uuid.UUID, day time.Time) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	y, m, d := day.UTC().Date()
	total := 0.0
	for _, w := range s.waterLogs {
		wy, wm, wd := w.Date.UTC().Date()
		if w.UserID == userID && wy == y && wm == m && wd == d {
			total += w.AmountML
		}
	}
	return total, nil
}

func (s *Memory) CreateSleepLog(_ context.Context, l *models.SleepLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&l.ID)
	ensureTime(&l.Date)
	s.sleepLogs[l.ID] = *l
	return nil
}

func (s *Memory) ListSleepLogs(_ context.Context, userID uuid.UUID, limit int) ([]models.SleepLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.SleepLog
	for _, l := range s.sleepLogs {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Memory) CreateWeightLog(_ context.Context, l *models.WeightLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&l.ID)
	ensureTime(&l.Date)
	s.weightLogs[l.ID] = *l
	return nil
}

func (s *Memory) ListWeightLogs(_ context.Context, userID uuid.UUID, limit int) ([]models.WeightLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.WeightLog
	for _, l := range s.weightLogs {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
