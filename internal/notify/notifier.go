// Package notify persists notifications and fans them out to live
// sessions. Persistence is the source of truth; realtime delivery is
// best-effort on top of it.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/avery-dunn/nutriguide/internal/cache"
	"github.com/avery-dunn/nutriguide/internal/metrics"
	"github.com/avery-dunn/nutriguide/internal/models"
	"github.com/avery-dunn/nutriguide/internal/presence"
	"github.com/avery-dunn/nutriguide/internal/store"
)

// EventNotification is the realtime frame name for a new notification.
const EventNotification = "new_notification"

// Notifier writes a notification row, then pushes the payload to every
// open session the recipient has. A failed write aborts the whole
// operation; a failed push never does.
type Notifier struct {
	store    store.NotificationStore
	registry *presence.Registry
	metrics  *metrics.Metrics
	logger   *logrus.Logger
}

func NewNotifier(st store.NotificationStore, reg *presence.Registry, m *metrics.Metrics, logger *logrus.Logger) *Notifier {
	if logger == nil {
		logger = logrus.New()
	}
	return &Notifier{store: st, registry: reg, metrics: m, logger: logger}
}

// Notify persists the notification and attempts realtime delivery.
// Returns the new notification's id.
func (n *Notifier) Notify(ctx context.Context, userID uuid.UUID, title, message, category string) (uuid.UUID, error) {
	notif := &models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    category,
	}
	if err := n.store.CreateNotification(ctx, notif); err != nil {
		return uuid.Nil, err
	}
	if n.metrics != nil {
		n.metrics.NotificationsPersisted.Inc()
	}

	if err := cache.PublishNotificationEvent(ctx, cache.NotificationEvent{
		NotificationID: notif.ID,
		UserID:         userID,
		Title:          title,
		Message:        message,
		Type:           category,
		Timestamp:      time.Now().Unix(),
	}); err != nil {
		if n.metrics != nil {
			n.metrics.QueuePublishFailures.Inc()
		}
		n.logger.WithError(err).WithField("user_id", userID).Warn("notification queue publish failed")
	}

	if n.registry != nil {
		delivered := n.registry.Push(userID, presence.Payload{
			Event: EventNotification,
			Data: map[string]any{
				"id":      notif.ID.String(),
				"title":   title,
				"message": message,
				"type":    category,
			},
		})
		if n.metrics != nil {
			n.metrics.PushesDelivered.Add(float64(delivered))
		}
	}
	return notif.ID, nil
}
