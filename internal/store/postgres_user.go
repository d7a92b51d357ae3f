package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/avery-dunn/nutriguide/internal/models"
)

const userColumns = `
	id, email, password, username, bio, profile_picture, created_at, last_login,
	age, weight_kg, height_cm, gender, activity_level, goal,
	daily_calories, daily_protein, daily_carbs, daily_fat,
	notifications_enabled, water_reminder, meal_reminder,
	workout_reminder, sleep_reminder, fasting_reminder`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Password, &u.Username, &u.Bio, &u.ProfilePicture,
		&u.CreatedAt, &u.LastLogin,
		&u.Age, &u.WeightKG, &u.HeightCM, &u.Gender, &u.ActivityLevel, &u.Goal,
		&u.DailyCalories, &u.DailyProtein, &u.DailyCarbs, &u.DailyFat,
		&u.Prefs.NotificationsEnabled, &u.Prefs.WaterReminder, &u.Prefs.MealReminder,
		&u.Prefs.WorkoutReminder, &u.Prefs.SleepReminder, &u.Prefs.FastingReminder,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Postgres) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	q := `
		INSERT INTO users (
			id, email, password, username, bio, profile_picture,
			age, weight_kg, height_cm, gender, activity_level, goal,
			daily_calories, daily_protein, daily_carbs, daily_fat,
			notifications_enabled, water_reminder, meal_reminder,
			workout_reminder, sleep_reminder, fasting_reminder
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
		RETURNING created_at
	`
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, q,
			u.ID, u.Email, u.Password, u.Username, u.Bio, u.ProfilePicture,
			u.Age, u.WeightKG, u.HeightCM, u.Gender, u.ActivityLevel, u.Goal,
			u.DailyCalories, u.DailyProtein, u.DailyCarbs, u.DailyFat,
			u.Prefs.NotificationsEnabled, u.Prefs.WaterReminder, u.Prefs.MealReminder,
			u.Prefs.WorkoutReminder, u.Prefs.SleepReminder, u.Prefs.FastingReminder,
		).Scan(&u.CreatedAt)
	})
	return mapErr("insert user", err)
}

func (s *Postgres) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id))
	if err != nil {
		return nil, mapErr("get user", err)
	}
	return u, nil
}

func (s *Postgres) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email))
	if err != nil {
		return nil, mapErr("get user by email", err)
	}
	return u, nil
}

func (s *Postgres) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username=$1`, username))
	if err != nil {
		return nil, mapErr("get user by username", err)
	}
	return u, nil
}

func (s *Postgres) UpdateUser(ctx context.Context, u *models.User) error {
	q := `
		UPDATE users SET
			bio=$2, profile_picture=$3, last_login=$4,
			age=$5, weight_kg=$6, height_cm=$7, gender=$8, activity_level=$9, goal=$10,
			daily_calories=$11, daily_protein=$12, daily_carbs=$13, daily_fat=$14,
			notifications_enabled=$15, water_reminder=$16, meal_reminder=$17,
			workout_reminder=$18, sleep_reminder=$19, fasting_reminder=$20
		WHERE id=$1
	`
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, q,
			u.ID, u.Bio, u.ProfilePicture, u.LastLogin,
			u.Age, u.WeightKG, u.HeightCM, u.Gender, u.ActivityLevel, u.Goal,
			u.DailyCalories, u.DailyProtein, u.DailyCarbs, u.DailyFat,
			u.Prefs.NotificationsEnabled, u.Prefs.WaterReminder, u.Prefs.MealReminder,
			u.Prefs.WorkoutReminder, u.Prefs.SleepReminder, u.Prefs.FastingReminder,
		)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
	return mapErr("update user", err)
}

func (s *Postgres) SearchUsers(ctx context.Context, query string, excluding uuid.UUID, limit int) ([]models.User, error) {
	q := `
		SELECT ` + userColumns + `
		FROM users
		WHERE (username ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%')
		  AND id != $2
		ORDER BY username
		LIMIT $3
	`
	rows, err := s.db.Query(ctx, q, query, excluding, limit)
	if err != nil {
		return nil, mapErr("search users", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, mapErr("search users", err)
		}
		users = append(users, *u)
	}
	return users, mapErr("search users", rows.Err())
}

func (s *Postgres) ListUsersWithNotificationsEnabled(ctx context.Context) ([]models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE notifications_enabled ORDER BY username`
	rows, err := s.db.Query(ctx, q)
	if err != nil {
		return nil, mapErr("list notifiable users", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, mapErr("list notifiable users", err)
		}
		users = append(users, *u)
	}
	return users, mapErr("list notifiable users", rows.Err())
}
