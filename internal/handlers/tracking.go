package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/avery-dunn/nutriguide/internal/models"
)

// dailyWaterGoalML is the hydration target that triggers the goal
// notification.
const dailyWaterGoalML = 2500

type createMealRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
	MealType    string  `json:"meal_type"`
}

func (s *Server) CreateMealHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := authenticate(r)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}
	var req createMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	meal := &models.Meal{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Calories:    req.Calories,
		Protein:     req.Protein,
		Carbs:       req.Carbs,
		Fat:         req.Fat,
		MealType:    req.MealType,
	}
	if err := s.Store.CreateMeal(r.Context(), meal); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, meal)
}

func (s *Server) ListMealsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := authenticate(r)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}
	meals, err := s.Store.ListMeals(r.Context(), userID, queryInt(r, "limit", 50))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if meals == nil {
		meals = []models.Meal{}
	}
	writeJSON(w, http.StatusOK, meals)
}

type createWorkoutRequest struct {
	Name           string  `json:"name"`
	DurationMin    int     `json:"duration_min"`
	CaloriesBurned float64 `json:"calories_burned"`
	WorkoutType    string  `json:"workout_type"`
	Intensity      string  `json:"intensity"`
}

func (s *Server) CreateWorkoutHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := authenticate(r)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}
	var req createWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	workout := &models.Workout{
		UserID:         userID,
		Name:           req.Name,
		DurationMin:    req.DurationMin,
		CaloriesBurned: req.CaloriesBurned,
		WorkoutType:    req.WorkoutType,
		Intensity:      req.Intensity,
	}
	if err := s.Store.CreateWorkout(r.Context(), workout); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, workout)
}

func (s *Server) ListWorkoutsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := authenticate(r)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}
	workouts, err := s.Store.ListWorkouts(r.Context(), userID, queryInt(r, "limit", 50))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if workouts == nil {
		workouts = []models.Workout{}
	}
	writeJSON(w, http.StatusOK, workouts)
}

type logWaterRequest struct {
	AmountML float64 `json:"amount_ml"`
}

type logWaterResponse struct {
	Success    bool            `json:"success"`
	Log        models.WaterLog `json:"log"`
	TodayTotal float64         `json:"today_total"`
}

// LogWaterHandler records an intake and notifies the user once the
// daily goal is crossed.
func (s *Server) LogWaterHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := authenticate(r)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}
	var req logWaterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AmountML <= 0 {
		http.Error(w, "amount_ml must be positive", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	log := &models.WaterLog{UserID: userID, AmountML: req.AmountML}
	if err := s.Store.CreateWaterLog(ctx, log); err != nil {
		writeStoreError(w, err)
		return
	}

	total, err := s.Store.WaterTotalForDay(ctx, userID, time.Now().UTC())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if total >= dailyWaterGoalML && s.Notifier != nil {
		if _, err := s.Notifier.Notify(ctx, userID, "🎉 Water Goal Achieved!",
			"You've reached your daily water goal!", models.CategoryWater); err != nil {
			s.Logger.WithError(err).Warn("water goal notification failed")
		}
	}
	writeJSON(w, http.StatusCreated, logWaterResponse{Success: true, Log: *log, TodayTotal: total})
}

type logSleepRequest struct {
	DurationHours float64 `json:"duration_hours"`
	Quality       int     `json:"quality"`
}

// LogSleepHandler records a night's sleep and leaves advice when the
// duration or quality was poor. Short sleep takes precedence.
func (s *Server) LogSleepHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := authenticate(r)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}
	var req logSleepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DurationHours <= 0 {
		http.Error(w, "duration_hours must be positive", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	log := &models.SleepLog{UserID: userID, DurationHours: req.DurationHours, Quality: req.Quality}
	if err := s.Store.CreateSleepLog(ctx, log); err != nil {
		writeStoreError(w, err)
		return
	}

	if s.Notifier != nil {
		if log.DurationHours < 6 {
			if _, err := s.Notifier.Notify(ctx, userID, "😴 Sleep Alert",
				"You got less than 6 hours of sleep. Try to get more rest!", models.CategorySleep); err != nil {
				s.Logger.WithError(err).Warn("sleep alert notification failed")
			}
		} else if log.Quality < 5 {
			if _, err := s.Notifier.Notify(ctx, userID, "🛌 Improve Sleep Quality",
				"Your sleep quality was low. Consider relaxation techniques.", models.CategorySleep); err != nil {
				s.Logger.WithError(err).Warn("sleep quality notification failed")
			}
		}
	}
	writeJSON(w, http.StatusCreated, log)
}

func (s *Server) ListSleepHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := authenticate(r)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}
	logs, err := s.Store.ListSleepLogs(r.Context(), userID, queryInt(r, "limit", 30))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if logs == nil {
		logs = []models.SleepLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}

type logWeightRequest struct {
	WeightKG float64 `json:"weight_kg"`
}

func (s *Server) LogWeightHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := authenticate(r)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}
	var req logWeightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.WeightKG <= 0 {
		http.Error(w, "weight_kg must be positive", http.StatusBadRequest)
		return
	}
	log := &models.WeightLog{UserID: userID, WeightKG: req.WeightKG}
	if err := s.Store.CreateWeightLog(r.Context(), log); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, log)
}

func (s *Server) ListWeightHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := authenticate(r)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}
	logs, err := s.Store.ListWeightLogs(r.Context(), userID, queryInt(r, "limit", 30))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if logs == nil {
		logs = []models.WeightLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}
