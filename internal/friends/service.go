// Package friends implements the friendship state machine: request,
// accept, reject, remove. A pair of users holds at most one friendship
// row regardless of direction.
package friends

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	apperr "github.com/avery-dunn/nutriguide/internal/errors"
	"github.com/avery-dunn/nutriguide/internal/models"
	"github.com/avery-dunn/nutriguide/internal/store"
)

// Sender emits one notification. Satisfied by *notify.Notifier.
type Sender interface {
	Notify(ctx context.Context, userID uuid.UUID, title, message, category string) (uuid.UUID, error)
}

type Service struct {
	store  store.FriendshipStore
	sender Sender
	logger *logrus.Logger
}

func NewService(st store.FriendshipStore, sender Sender, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{store: st, sender: sender, logger: logger}
}

// SendRequest creates a pending friendship from requester to recipient
// and notifies the recipient. Fails with ErrSelfReference when the two
// ids match and ErrConflict when any friendship already links the pair.
func (s *Service) SendRequest(ctx context.Context, requesterID, recipientID uuid.UUID) (*models.Friendship, error) {
	if requesterID == recipientID {
		return nil, apperr.ErrSelfReference
	}

	f := &models.Friendship{
		RequesterID: requesterID,
		RecipientID: recipientID,
		Status:      models.FriendshipPending,
	}
	if err := s.store.CreateFriendship(ctx, f); err != nil {
		return nil, err
	}

	if s.sender != nil {
		if _, err := s.sender.Notify(ctx, recipientID, "👋 New Friend Request",
			"You have a new friend request!", models.CategorySocial); err != nil {
			s.logger.WithError(err).WithField("user_id", recipientID).Warn("friend request notification failed")
		}
	}
	return f, nil
}

// Respond accepts or rejects a pending request. Only the recipient may
// respond; anyone else gets ErrNotFound. Accepting flips the status and
// notifies the requester. Rejecting deletes the row silently.
func (s *Service) Respond(ctx context.Context, friendshipID, byUser uuid.UUID, accept bool) error {
	f, err := s.store.GetFriendship(ctx, friendshipID)
	if err != nil {
		return err
	}
	if f.RecipientID != byUser || f.Status != models.FriendshipPending {
		return apperr.NotFound("friendship")
	}

	if !accept {
		return s.store.DeleteFriendship(ctx, friendshipID)
	}

	if err := s.store.AcceptFriendship(ctx, friendshipID); err != nil {
		return err
	}
	if s.sender != nil {
		if _, err := s.sender.Notify(ctx, f.RequesterID, "✅ Friend Request Accepted",
			"Your friend request was accepted!", models.CategorySocial); err != nil {
			s.logger.WithError(err).WithField("user_id", f.RequesterID).Warn("friend accept notification failed")
		}
	}
	return nil
}

// Remove deletes an accepted friendship. Either party may remove it; a
// third party gets ErrNotFound.
func (s *Service) Remove(ctx context.Context, friendshipID, byUser uuid.UUID) error {
	f, err := s.store.GetFriendship(ctx, friendshipID)
	if err != nil {
		return err
	}
	if !f.Involves(byUser) {
		return apperr.NotFound("friendship")
	}
	return s.store.DeleteFriendship(ctx, friendshipID)
}

// ListFor returns the user's friendships filtered by status. An empty
// status returns everything.
func (s *Service) ListFor(ctx context.Context, userID uuid.UUID, status string) ([]models.FriendEntry, error) {
	return s.store.ListFriendships(ctx, userID, status)
}

// AreFriends reports whether an accepted friendship links the two users.
func (s *Service) AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error) {
	f, err := s.store.FindFriendshipBetween(ctx, a, b)
	if err != nil {
		if apperr.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return f.Status == models.FriendshipAccepted, nil
}
