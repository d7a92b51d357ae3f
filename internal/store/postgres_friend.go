package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	apperr "github.com/avery-dunn/nutriguide/internal/errors"
	"github.com/avery-dunn/nutriguide/internal/models"
)

func (s *Postgres) CreateFriendship(ctx context.Context, f *models.Friendship) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}

	// The existence check covers both directions of the pair. Two
	// concurrent inserts can both pass it under READ COMMITTED, including
	// one in each direction; the unique index on the sorted pair
	// (LEAST, GREATEST) catches that race and mapErr turns the 23505
	// into ErrConflict.
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		var exists bool
		checkQ := `
			SELECT EXISTS (
				SELECT 1 FROM friendships
				WHERE (requester_id=$1 AND recipient_id=$2)
				   OR (requester_id=$2 AND recipient_id=$1)
			)
		`
		if err := tx.QueryRow(ctx, checkQ, f.RequesterID, f.RecipientID).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return apperr.Conflict("friendship already exists")
		}

		insertQ := `
			INSERT INTO friendships (id, requester_id, recipient_id, status)
			VALUES ($1, $2, $3, $4)
			RETURNING created_at
		`
		return tx.QueryRow(ctx, insertQ, f.ID, f.RequesterID, f.RecipientID, f.Status).Scan(&f.CreatedAt)
	})
	if apperr.IsConflict(err) {
		return err
	}
	return mapErr("insert friendship", err)
}

func (s *Postgres) GetFriendship(ctx context.Context, id uuid.UUID) (*models.Friendship, error) {
	var f models.Friendship
	q := `SELECT id, requester_id, recipient_id, status, created_at FROM friendships WHERE id=$1`
	err := s.db.QueryRow(ctx, q, id).Scan(&f.ID, &f.RequesterID, &f.RecipientID, &f.Status, &f.CreatedAt)
	if err != nil {
		return nil, mapErr("get friendship", err)
	}
	return &f, nil
}

func (s *Postgres) AcceptFriendship(ctx context.Context, id uuid.UUID) error {
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx,
			`UPDATE friendships SET status='accepted' WHERE id=$1 AND status='pending'`, id)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
	return mapErr("accept friendship", err)
}

func (s *Postgres) DeleteFriendship(ctx context.Context, id uuid.UUID) error {
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, `DELETE FROM friendships WHERE id=$1`, id)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
	return mapErr("delete friendship", err)
}

func (s *Postgres) FindFriendshipBetween(ctx context.Context, a, b uuid.UUID) (*models.Friendship, error) {
	var f models.Friendship
	q := `
		SELECT id, requester_id, recipient_id, status, created_at
		FROM friendships
		WHERE (requester_id=$1 AND recipient_id=$2)
		   OR (requester_id=$2 AND recipient_id=$1)
	`
	err := s.db.QueryRow(ctx, q, a, b).Scan(&f.ID, &f.RequesterID, &f.RecipientID, &f.Status, &f.CreatedAt)
	if err != nil {
		return nil, mapErr("find friendship", err)
	}
	return &f, nil
}

func (s *Postgres) ListFriendships(ctx context.Context, userID uuid.UUID, status string) ([]models.FriendEntry, error) {
	q := `
		SELECT f.id, f.status, f.requester_id = $1, f.created_at,
		       u.id, u.username, u.bio, u.profile_picture
		FROM friendships f
		JOIN users u ON u.id = CASE WHEN f.requester_id = $1 THEN f.recipient_id ELSE f.requester_id END
		WHERE (f.requester_id=$1 OR f.recipient_id=$1) AND ($2 = '' OR f.status=$2)
		ORDER BY f.created_at DESC
	`
	rows, err := s.db.Query(ctx, q, userID, status)
	if err != nil {
		return nil, mapErr("list friendships", err)
	}
	defer rows.Close()

	var out []models.FriendEntry
	for rows.Next() {
		var e models.FriendEntry
		if err := rows.Scan(&e.FriendshipID, &e.Status, &e.IsRequester, &e.CreatedAt,
			&e.FriendID, &e.Username, &e.Bio, &e.ProfilePicture); err != nil {
			return nil, mapErr("list friendships", err)
		}
		out = append(out, e)
	}
	return out, mapErr("list friendships", rows.Err())
}
