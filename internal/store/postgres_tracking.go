package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/avery-dunn/nutriguide/internal/models"
)

func (s *Postgres) CreateMeal(ctx context.Context, m *models.Meal) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Date.IsZero() {
		m.Date = time.Now().UTC()
	}
	q := `
		INSERT INTO meals (id, user_id, name, description, calories, protein, carbs, fat, meal_type, date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, q, m.ID, m.UserID, m.Name, m.Description,
			m.Calories, m.Protein, m.Carbs, m.Fat, m.MealType, m.Date)
		return err
	})
	return mapErr("insert meal", err)
}

func (s *Postgres) ListMeals(ctx context.Context, userID uuid.UUID, limit int) ([]models.Meal, error) {
	q := `
		SELECT id, user_id, name, description, calories, protein, carbs, fat, meal_type, date
		FROM meals WHERE user_id=$1 ORDER BY date DESC LIMIT $2
	`
	rows, err := s.db.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, mapErr("list meals", err)
	}
	defer rows.Close()

	var out []models.Meal
	for rows.Next() {
		var m models.Meal
		if err := rows.Scan(&m.ID, &m.UserID, &m.Name, &m.Description,
			&m.Calories, &m.Protein, &m.Carbs, &m.Fat, &m.MealType, &m.Date); err != nil {
			return nil, mapErr("list meals", err)
		}
		out = append(out, m)
	}
	return out, mapErr("list meals", rows.Err())
}

func (s *Postgres) CreateWorkout(ctx context.Context, w *models.Workout) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	if w.Date.IsZero() {
		w.Date = time.Now().UTC()
	}
	q := `
		INSERT INTO workouts (id, user_id, name, duration_min, calories_burned, workout_type, intensity, date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, q, w.ID, w.UserID, w.Name, w.DurationMin,
			w.CaloriesBurned, w.WorkoutType, w.Intensity, w.Date)
		return err
	})
	return mapErr("insert workout", err)
}

func (s *Postgres) ListWorkouts(ctx context.Context, userID uuid.UUID, limit int) ([]models.Workout, error) {
	q := `
		SELECT id, user_id, name, duration_min, calories_burned, workout_type, intensity, date
		FROM workouts WHERE user_id=$1 ORDER BY date DESC LIMIT $2
	`
	rows, err := s.db.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, mapErr("list workouts", err)
	}
	defer rows.Close()

	var out []models.Workout
	for rows.Next() {
		var w models.Workout
		if err := rows.Scan(&w.ID, &w.UserID, &w.Name, &w.DurationMin,
			&w.CaloriesBurned, &w.WorkoutType, &w.Intensity, &w.Date); err != nil {
			return nil, mapErr("list workouts", err)
		}
		out = append(out, w)
	}
	return out, mapErr("list workouts", rows.Err())
}

func (s *Postgres) CreateWaterLog(ctx context.Context, w *models.WaterLog) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	if w.Date.IsZero() {
		w.Date = time.Now().UTC()
	}
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO water_logs (id, user_id, amount_ml, date) VALUES ($1,$2,$3,$4)`,
			w.ID, w.UserID, w.AmountML, w.Date)
		return err
	})
	return mapErr("insert water log", err)
}

func (s *Postgres) WaterTotalForDay(ctx context.Context, userID uuid.UUID, day time.Time) (float64, error) {
	var total float64
	err := s.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount_ml), 0) FROM water_logs WHERE user_id=$1 AND date::date = $2::date`,
		userID, day.UTC()).Scan(&total)
	return total, mapErr("sum water logs", err)
}

func (s *Postgres) CreateSleepLog(ctx context.Context, l *models.SleepLog) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Date.IsZero() {
		l.Date = time.Now().UTC()
	}
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO sleep_logs (id, user_id, duration_hours, quality, date) VALUES ($1,$2,$3,$4,$5)`,
			l.ID, l.UserID, l.DurationHours, l.Quality, l.Date)
		return err
	})
	return mapErr("insert sleep log", err)
}

func (s *Postgres) ListSleepLogs(ctx context.Context, userID uuid.UUID, limit int) ([]models.SleepLog, error) {
	q := `
		SELECT id, user_id, duration_hours, quality, date
		FROM sleep_logs WHERE user_id=$1 ORDER BY date DESC LIMIT $2
	`
	rows, err := s.db.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, mapErr("list sleep logs", err)
	}
	defer rows.Close()

	var out []models.SleepLog
	for rows.Next() {
		var l models.SleepLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.DurationHours, &l.Quality, &l.Date); err != nil {
			return nil, mapErr("list sleep logs", err)
		}
		out = append(out, l)
	}
	return out, mapErr("list sleep logs", rows.Err())
}

func (s *Postgres) CreateWeightLog(ctx context.Context, l *models.WeightLog) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Date.IsZero() {
		l.Date = time.Now().UTC()
	}
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO weight_logs (id, user_id, weight_kg, date) VALUES ($1,$2,$3,$4)`,
			l.ID, l.UserID, l.WeightKG, l.Date)
		return err
	})
	return mapErr("insert weight log", err)
}

func (s *Postgres) ListWeightLogs(ctx context.Context, userID uuid.UUID, limit int) ([]models.WeightLog, error) {
	q := `
		SELECT id, user_id, weight_kg, date
		FROM weight_logs WHERE user_id=$1 ORDER BY date DESC LIMIT $2
	`
	rows, err := s.db.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, mapErr("list weight logs", err)
	}
	defer rows.Close()

	var out []models.WeightLog
	for rows.Next() {
		var l models.WeightLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.WeightKG, &l.Date); err != nil {
			return nil, mapErr("list weight logs", err)
		}
		out = append(out, l)
	}
	return out, mapErr("list weight logs", rows.Err())
}
