package models

import (
	"time"

	"github.com/google/uuid"
)

type Meal struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Calories    float64   `json:"calories"`
	Protein     float64   `json:"protein"`
	Carbs       float64   `json:"carbs"`
	Fat         float64   `json:"fat"`
	MealType    string    `json:"meal_type"`
	Date        time.Time `json:"date"`
}

type Workout struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	Name           string    `json:"name"`
	DurationMin    int       `json:"duration"`
	CaloriesBurned float64   `json:"calories_burned"`
	WorkoutType    string    `json:"workout_type"`
	Intensity      string    `json:"intensity"`
	Date           time.Time `json:"date"`
}

type WaterLog struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	AmountML float64   `json:"amount"`
	Date     time.Time `json:"date"`
}

type SleepLog struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	DurationHours float64   `json:"duration"`
	Quality       int       `json:"quality"` // 1..5
	Date          time.Time `json:"date"`
}

type WeightLog struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	WeightKG float64   `json:"weight"`
	Date     time.Time `json:"date"`
}
