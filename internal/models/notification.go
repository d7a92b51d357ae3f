package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification categories. Every notification carries exactly one.
const (
	CategoryGeneral = "general"
	CategoryWater   = "water"
	CategoryMeal    = "meal"
	CategoryWorkout = "workout"
	CategorySleep   = "sleep"
	CategoryFasting = "fasting"
	CategorySocial  = "social"
)

type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
