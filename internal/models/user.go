package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Password string    `json:"password,omitempty"`
	Username string    `json:"username"`

	Bio            string     `json:"bio,omitempty"`
	ProfilePicture string     `json:"profile_picture,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	LastLogin      *time.Time `json:"last_login,omitempty"`

	// Profile fields used for daily-needs calculation.
	Age           int     `json:"age,omitempty"`
	WeightKG      float64 `json:"weight,omitempty"`
	HeightCM      float64 `json:"height,omitempty"`
	Gender        string  `json:"gender,omitempty"`
	ActivityLevel string  `json:"activity_level,omitempty"`
	Goal          string  `json:"goal,omitempty"`

	DailyCalories float64 `json:"daily_calories,omitempty"`
	DailyProtein  float64 `json:"daily_protein,omitempty"`
	DailyCarbs    float64 `json:"daily_carbs,omitempty"`
	DailyFat      float64 `json:"daily_fat,omitempty"`

	Prefs ReminderPrefs `json:"prefs"`
}

// ReminderPrefs holds the per-category reminder toggles plus the master
// switch. A disabled master switch suppresses every category regardless of
// the individual toggles.
type ReminderPrefs struct {
	NotificationsEnabled bool `json:"notifications_enabled"`
	WaterReminder        bool `json:"water_reminder"`
	MealReminder         bool `json:"meal_reminder"`
	WorkoutReminder      bool `json:"workout_reminder"`
	SleepReminder        bool `json:"sleep_reminder"`
	FastingReminder      bool `json:"fasting_reminder"`
}

// DefaultReminderPrefs mirrors the column defaults: everything on.
func DefaultReminderPrefs() ReminderPrefs {
	return ReminderPrefs{
		NotificationsEnabled: true,
		WaterReminder:        true,
		MealReminder:         true,
		WorkoutReminder:      true,
		SleepReminder:        true,
		FastingReminder:      true,
	}
}
