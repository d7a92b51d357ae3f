// Package social implements posts, the friend feed, like toggling,
// comments and direct messages.
package social

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	apperr "github.com/avery-dunn/nutriguide/internal/errors"
	"github.com/avery-dunn/nutriguide/internal/models"
	"github.com/avery-dunn/nutriguide/internal/presence"
	"github.com/avery-dunn/nutriguide/internal/store"
)

// EventMessage is the realtime frame name for a direct message.
const EventMessage = "new_message"

// Sender emits one notification. Satisfied by *notify.Notifier.
type Sender interface {
	Notify(ctx context.Context, userID uuid.UUID, title, message, category string) (uuid.UUID, error)
}

type Service struct {
	store    store.Store
	sender   Sender
	registry *presence.Registry
	logger   *logrus.Logger
}

func NewService(st store.Store, sender Sender, reg *presence.Registry, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{store: st, sender: sender, registry: reg, logger: logger}
}

func (s *Service) CreatePost(ctx context.Context, userID uuid.UUID, content, imageURL string) (*models.Post, error) {
	p := &models.Post{UserID: userID, Content: content, ImageURL: imageURL}
	if err := s.store.CreatePost(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ListFeed returns the user's own posts and their accepted friends'
// posts, newest first.
func (s *Service) ListFeed(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Post, error) {
	return s.store.ListFeed(ctx, userID, limit, offset)
}

// ToggleLike likes the post if the actor has not liked it, otherwise
// removes the like. The post owner is notified only when a like is
// added, and never about their own like. Returns whether the post is
// liked after the call, plus the like count the store wrote.
func (s *Service) ToggleLike(ctx context.Context, postID, actorID uuid.UUID) (bool, int, error) {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return false, 0, err
	}

	_, err = s.store.GetLike(ctx, postID, actorID)
	switch {
	case err == nil:
		count, err := s.store.RemoveLike(ctx, postID, actorID)
		if err != nil {
			return false, 0, err
		}
		return false, count, nil
	case apperr.IsNotFound(err):
		// fall through to add
	default:
		return false, 0, err
	}

	like := &models.PostLike{PostID: postID, UserID: actorID}
	count, err := s.store.AddLike(ctx, like)
	if err != nil {
		return false, 0, err
	}

	if s.sender != nil && post.UserID != actorID {
		actor, err := s.store.GetUser(ctx, actorID)
		if err == nil {
			if _, err := s.sender.Notify(ctx, post.UserID, "❤️ New Like",
				fmt.Sprintf("%s liked your post!", actor.Username), models.CategorySocial); err != nil {
				s.logger.WithError(err).WithField("user_id", post.UserID).Warn("like notification failed")
			}
		}
	}
	return true, count, nil
}

// AddComment stores the comment, bumps the post's counter and notifies
// the post owner unless they commented on their own post.
func (s *Service) AddComment(ctx context.Context, postID, actorID uuid.UUID, content string) (*models.Comment, error) {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	c := &models.Comment{PostID: postID, UserID: actorID, Content: content}
	if err := s.store.CreateComment(ctx, c); err != nil {
		return nil, err
	}

	if s.sender != nil && post.UserID != actorID {
		actor, err := s.store.GetUser(ctx, actorID)
		if err == nil {
			if _, err := s.sender.Notify(ctx, post.UserID, "💬 New Comment",
				fmt.Sprintf("%s commented on your post!", actor.Username), models.CategorySocial); err != nil {
				s.logger.WithError(err).WithField("user_id", post.UserID).Warn("comment notification failed")
			}
		}
	}
	return c, nil
}

func (s *Service) ListComments(ctx context.Context, postID uuid.UUID) ([]models.Comment, error) {
	return s.store.ListComments(ctx, postID)
}

// SendMessage persists a direct message, pushes it to the recipient's
// live sessions and leaves a notification. Persistence failures abort;
// delivery failures never do.
func (s *Service) SendMessage(ctx context.Context, senderID, receiverID uuid.UUID, content string) (*models.Message, error) {
	if senderID == receiverID {
		return nil, apperr.ErrSelfReference
	}
	sender, err := s.store.GetUser(ctx, senderID)
	if err != nil {
		return nil, err
	}

	m := &models.Message{SenderID: senderID, ReceiverID: receiverID, Content: content}
	if err := s.store.CreateMessage(ctx, m); err != nil {
		return nil, err
	}

	if s.registry != nil {
		s.registry.Push(receiverID, presence.Payload{
			Event: EventMessage,
			Data: map[string]any{
				"sender_id":       senderID.String(),
				"sender_username": sender.Username,
				"content":         content,
				"timestamp":       m.CreatedAt.Format(time.RFC3339),
			},
		})
	}
	if s.sender != nil {
		if _, err := s.sender.Notify(ctx, receiverID, "💬 New Message",
			fmt.Sprintf("%s sent you a message", sender.Username), models.CategorySocial); err != nil {
			s.logger.WithError(err).WithField("user_id", receiverID).Warn("message notification failed")
		}
	}
	return m, nil
}

func (s *Service) ListMessages(ctx context.Context, a, b uuid.UUID, limit int) ([]models.Message, error) {
	return s.store.ListMessages(ctx, a, b, limit)
}
