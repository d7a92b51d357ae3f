// Package store is the durable persistence boundary. The core services
// depend on the narrow per-entity interfaces below; Postgres is the real
// implementation and Memory backs unit tests and dev mode.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/avery-dunn/nutriguide/internal/models"
)

type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	SearchUsers(ctx context.Context, query string, excluding uuid.UUID, limit int) ([]models.User, error)

	// ListUsersWithNotificationsEnabled returns every user whose master
	// notification switch is on. Per-category toggles are not filtered here;
	// the reminder evaluator applies those.
	ListUsersWithNotificationsEnabled(ctx context.Context) ([]models.User, error)
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]models.Notification, error)
	CountUnreadNotifications(ctx context.Context, userID uuid.UUID) (int, error)

	// MarkNotificationRead flips the read flag on a single notification owned
	// by userID. Idempotent; ErrNotFound if the row is absent or not owned.
	MarkNotificationRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID) error
}

type FriendshipStore interface {
	// CreateFriendship inserts a pending row. The symmetric existence check
	// (either direction of the pair) and the insert run in one transaction;
	// a duplicate in either direction yields ErrConflict.
	CreateFriendship(ctx context.Context, f *models.Friendship) error
	GetFriendship(ctx context.Context, id uuid.UUID) (*models.Friendship, error)
	AcceptFriendship(ctx context.Context, id uuid.UUID) error
	DeleteFriendship(ctx context.Context, id uuid.UUID) error
	FindFriendshipBetween(ctx context.Context, a, b uuid.UUID) (*models.Friendship, error)
	ListFriendships(ctx context.Context, userID uuid.UUID, status string) ([]models.FriendEntry, error)
}

type SocialStore interface {
	CreatePost(ctx context.Context, p *models.Post) error
	GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error)

	// ListFeed returns the newest posts authored by userID or any of
	// their accepted friends.
	ListFeed(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Post, error)

	GetLike(ctx context.Context, postID, userID uuid.UUID) (*models.PostLike, error)
	// AddLike inserts the like row and increments the post counter in one
	// transaction; RemoveLike is the inverse. Both return the post's like
	// count as written, so callers never report a stale value.
	AddLike(ctx context.Context, l *models.PostLike) (int, error)
	RemoveLike(ctx context.Context, postID, userID uuid.UUID) (int, error)

	// CreateComment inserts the comment and increments the post counter in
	// one transaction.
	CreateComment(ctx context.Context, c *models.Comment) error
	ListComments(ctx context.Context, postID uuid.UUID) ([]models.Comment, error)

	CreateMessage(ctx context.Context, m *models.Message) error
	ListMessages(ctx context.Context, a, b uuid.UUID, limit int) ([]models.Message, error)
}

type TrackingStore interface {
	CreateMeal(ctx context.Context, m *models.Meal) error
	ListMeals(ctx context.Context, userID uuid.UUID, limit int) ([]models.Meal, error)

	CreateWorkout(ctx context.Context, w *models.Workout) error
	ListWorkouts(ctx context.Context, userID uuid.UUID, limit int) ([]models.Workout, error)

	CreateWaterLog(ctx context.Context, w *models.WaterLog) error
	// WaterTotalForDay sums the logged amounts for the UTC day containing day.
	WaterTotalForDay(ctx context.Context, userID uuid.UUID, day time.Time) (float64, error)

	CreateSleepLog(ctx context.Context, s *models.SleepLog) error
	ListSleepLogs(ctx context.Context, userID uuid.UUID, limit int) ([]models.SleepLog, error)

	CreateWeightLog(ctx context.Context, w *models.WeightLog) error
	ListWeightLogs(ctx context.Context, userID uuid.UUID, limit int) ([]models.WeightLog, error)
}

// Store is the full persistence contract the server wires up.
type Store interface {
	UserStore
	NotificationStore
	FriendshipStore
	SocialStore
	TrackingStore
}
