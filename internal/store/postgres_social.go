package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/avery-dunn/nutriguide/internal/models"
)

func (s *Postgres) CreatePost(ctx context.Context, p *models.Post) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	q := `
		INSERT INTO posts (id, user_id, content, image_url)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, q, p.ID, p.UserID, p.Content, p.ImageURL).Scan(&p.CreatedAt)
	})
	return mapErr("insert post", err)
}

func (s *Postgres) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var p models.Post
	q := `
		SELECT id, user_id, content, image_url, likes_count, comments_count, created_at
		FROM posts WHERE id=$1
	`
	err := s.db.QueryRow(ctx, q, id).Scan(
		&p.ID, &p.UserID, &p.Content, &p.ImageURL, &p.LikesCount, &p.CommentsCount, &p.CreatedAt)
	if err != nil {
		return nil, mapErr("get post", err)
	}
	return &p, nil
}

func (s *Postgres) ListFeed(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Post, error) {
	q := `
		SELECT p.id, p.user_id, p.content, p.image_url, p.likes_count, p.comments_count, p.created_at
		FROM posts p
		WHERE p.user_id = $1
		   OR p.user_id IN (
			SELECT CASE WHEN f.requester_id = $1 THEN f.recipient_id ELSE f.requester_id END
			FROM friendships f
			WHERE (f.requester_id=$1 OR f.recipient_id=$1) AND f.status='accepted'
		   )
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := s.db.Query(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, mapErr("list feed", err)
	}
	defer rows.Close()

	var out []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Content, &p.ImageURL,
			&p.LikesCount, &p.CommentsCount, &p.CreatedAt); err != nil {
			return nil, mapErr("list feed", err)
		}
		out = append(out, p)
	}
	return out, mapErr("list feed", rows.Err())
}

func (s *Postgres) GetLike(ctx context.Context, postID, userID uuid.UUID) (*models.PostLike, error) {
	var l models.PostLike
	q := `SELECT id, post_id, user_id, created_at FROM post_likes WHERE post_id=$1 AND user_id=$2`
	err := s.db.QueryRow(ctx, q, postID, userID).Scan(&l.ID, &l.PostID, &l.UserID, &l.CreatedAt)
	if err != nil {
		return nil, mapErr("get like", err)
	}
	return &l, nil
}

func (s *Postgres) AddLike(ctx context.Context, l *models.PostLike) (int, error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	// Insert and counter bump travel together so likes_count always equals
	// the number of live like rows. The bump returns the written counter;
	// a count derived from an earlier read could be stale.
	var count int
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		insertQ := `
			INSERT INTO post_likes (id, post_id, user_id)
			VALUES ($1, $2, $3)
			RETURNING created_at
		`
		if err := tx.QueryRow(ctx, insertQ, l.ID, l.PostID, l.UserID).Scan(&l.CreatedAt); err != nil {
			return err
		}
		bumpQ := `UPDATE posts SET likes_count = likes_count + 1 WHERE id=$1 RETURNING likes_count`
		return tx.QueryRow(ctx, bumpQ, l.PostID).Scan(&count)
	})
	return count, mapErr("insert like", err)
}

func (s *Postgres) RemoveLike(ctx context.Context, postID, userID uuid.UUID) (int, error) {
	var count int
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, `DELETE FROM post_likes WHERE post_id=$1 AND user_id=$2`, postID, userID)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		dropQ := `UPDATE posts SET likes_count = likes_count - 1 WHERE id=$1 RETURNING likes_count`
		return tx.QueryRow(ctx, dropQ, postID).Scan(&count)
	})
	return count, mapErr("delete like", err)
}

func (s *Postgres) CreateComment(ctx context.Context, c *models.Comment) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		insertQ := `
			INSERT INTO comments (id, post_id, user_id, content)
			VALUES ($1, $2, $3, $4)
			RETURNING created_at
		`
		if err := tx.QueryRow(ctx, insertQ, c.ID, c.PostID, c.UserID, c.Content).Scan(&c.CreatedAt); err != nil {
			return err
		}
		ct, err := tx.Exec(ctx, `UPDATE posts SET comments_count = comments_count + 1 WHERE id=$1`, c.PostID)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
	return mapErr("insert comment", err)
}

func (s *Postgres) ListComments(ctx context.Context, postID uuid.UUID) ([]models.Comment, error) {
	q := `
		SELECT id, post_id, user_id, content, created_at
		FROM comments WHERE post_id=$1 ORDER BY created_at ASC
	`
	rows, err := s.db.Query(ctx, q, postID)
	if err != nil {
		return nil, mapErr("list comments", err)
	}
	defer rows.Close()

	var out []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt); err != nil {
			return nil, mapErr("list comments", err)
		}
		out = append(out, c)
	}
	return out, mapErr("list comments", rows.Err())
}

func (s *Postgres) CreateMessage(ctx context.Context, m *models.Message) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	q := `
		INSERT INTO messages (id, sender_id, receiver_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, q, m.ID, m.SenderID, m.ReceiverID, m.Content).Scan(&m.CreatedAt)
	})
	return mapErr("insert message", err)
}

func (s *Postgres) ListMessages(ctx context.Context, a, b uuid.UUID, limit int) ([]models.Message, error) {
	q := `
		SELECT id, sender_id, receiver_id, content, is_read, created_at
		FROM (
			SELECT * FROM messages
			WHERE (sender_id=$1 AND receiver_id=$2) OR (sender_id=$2 AND receiver_id=$1)
			ORDER BY created_at DESC
			LIMIT $3
		) latest
		ORDER BY created_at ASC
	`
	rows, err := s.db.Query(ctx, q, a, b, limit)
	if err != nil {
		return nil, mapErr("list messages", err)
	}
	defer rows.Close()

	var out []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, mapErr("list messages", err)
		}
		out = append(out, m)
	}
	return out, mapErr("list messages", rows.Err())
}
