package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/avery-dunn/nutriguide/internal/models"
)

func (s *Postgres) CreateNotification(ctx context.Context, n *models.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}

	q := `
		INSERT INTO notifications (id, user_id, title, message, type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, q, n.ID, n.UserID, n.Title, n.Message, n.Type).Scan(&n.CreatedAt)
	})
	return mapErr("insert notification", err)
}

func (s *Postgres) ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]models.Notification, error) {
	q := `
		SELECT id, user_id, title, message, type, is_read, created_at
		FROM notifications
		WHERE user_id=$1 AND ($2 = false OR is_read = false)
		ORDER BY created_at DESC
		LIMIT $3
	`
	rows, err := s.db.Query(ctx, q, userID, unreadOnly, limit)
	if err != nil {
		return nil, mapErr("list notifications", err)
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, mapErr("list notifications", err)
		}
		out = append(out, n)
	}
	return out, mapErr("list notifications", rows.Err())
}

func (s *Postgres) CountUnreadNotifications(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id=$1 AND is_read=false`, userID,
	).Scan(&count)
	return count, mapErr("count unread", err)
}

func (s *Postgres) MarkNotificationRead(ctx context.Context, id, userID uuid.UUID) error {
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx,
			`UPDATE notifications SET is_read=true WHERE id=$1 AND user_id=$2`, id, userID)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
	return mapErr("mark notification read", err)
}

func (s *Postgres) MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID) error {
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`UPDATE notifications SET is_read=true WHERE user_id=$1 AND is_read=false`, userID)
		return err
	})
	return mapErr("mark all notifications read", err)
}
