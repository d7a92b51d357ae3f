package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/avery-dunn/nutriguide/internal/auth"
	apperr "github.com/avery-dunn/nutriguide/internal/errors"
	"github.com/avery-dunn/nutriguide/internal/models"
	"github.com/avery-dunn/nutriguide/internal/nutrition"
)

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

// CreateUserHandler registers a new account, hands back an auth cookie
// and leaves a welcome notification.
func (s *Server) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" || req.Username == "" {
		http.Error(w, "email, password and username are required", http.StatusBadRequest)
		return
	}

	hash, err := auth.CreateHash(req.Password, auth.Params)
	if err != nil {
		http.Error(w, "error creating user", http.StatusInternalServerError)
		return
	}

	user := models.User{
		Email:    req.Email,
		Password: hash,
		Username: req.Username,
		Prefs:    models.DefaultReminderPrefs(),
	}
	nutrition.Apply(&user)

	ctx := r.Context()
	if err := s.Store.CreateUser(ctx, &user); err != nil {
		if apperr.IsConflict(err) {
			http.Error(w, "email or username already exists", http.StatusConflict)
			return
		}
		http.Error(w, "error creating user", http.StatusInternalServerError)
		return
	}

	token, err := auth.CreateJWT(user.ID.String())
	if err != nil {
		http.Error(w, "error creating session", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		HttpOnly: true,
		Path:     "/",
		MaxAge:   auth.TOKEN_EXPIRE_TIME_SEC,
	})

	if s.Notifier != nil {
		if _, err := s.Notifier.Notify(ctx, user.ID, "👋 Welcome to Nutri Guide!",
			"Start your health journey with us!", models.CategoryGeneral); err != nil {
			s.Logger.WithError(err).Warn("welcome notification failed")
		}
	}

	user.Password = ""
	writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// LoginHandler verifies credentials and returns a JWT, also set as the
// auth_token cookie.
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request payload", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	user, err := s.Store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		http.Error(w, "authentication failed", http.StatusForbidden)
		return
	}
	match, err := auth.ComparePasswordAndHash(req.Password, user.Password)
	if err != nil || !match {
		http.Error(w, "authentication failed", http.StatusForbidden)
		return
	}

	token, err := auth.CreateJWT(user.ID.String())
	if err != nil {
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}

	now := time.Now().UTC()
	user.LastLogin = &now
	if err := s.Store.UpdateUser(ctx, user); err != nil {
		s.Logger.WithError(err).WithField("user_id", user.ID).Warn("failed to record last login")
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		HttpOnly: true,
		Path:     "/",
		MaxAge:   auth.TOKEN_EXPIRE_TIME_SEC,
	})
	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

// GetProfileHandler returns the authenticated user's profile.
func (s *Server) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := authenticate(r)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}
	user, err := s.Store.GetUser(r.Context(), userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	user.Password = ""
	writeJSON(w, http.StatusOK, user)
}

type updateProfileRequest struct {
	Bio            *string  `json:"bio"`
	ProfilePicture *string  `json:"profile_picture"`
	Age            *int     `json:"age"`
	WeightKG       *float64 `json:"weight_kg"`
	HeightCM       *float64 `json:"height_cm"`
	Gender         *string  `json:"gender"`
	ActivityLevel  *string  `json:"activity_level"`
	Goal           *string  `json:"goal"`

	NotificationsEnabled *bool `json:"notifications_enabled"`
	WaterReminder        *bool `json:"water_reminder"`
	MealReminder         *bool `json:"meal_reminder"`
	WorkoutReminder      *bool `json:"workout_reminder"`
	SleepReminder        *bool `json:"sleep_reminder"`
	FastingReminder      *bool `json:"fasting_reminder"`
}

// UpdateProfileHandler applies a partial profile update and recomputes
// daily nutrition targets when body metrics change.
func (s *Server) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := authenticate(r)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	user, err := s.Store.GetUser(ctx, userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.ProfilePicture != nil {
		user.ProfilePicture = *req.ProfilePicture
	}
	recompute := false
	if req.Age != nil {
		user.Age = *req.Age
		recompute = true
	}
	if req.WeightKG != nil {
		user.WeightKG = *req.WeightKG
		recompute = true
	}
	if req.HeightCM != nil {
		user.HeightCM = *req.HeightCM
		recompute = true
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
		recompute = true
	}
	if req.ActivityLevel != nil {
		user.ActivityLevel = *req.ActivityLevel
		recompute = true
	}
	if req.Goal != nil {
		user.Goal = *req.Goal
		recompute = true
	}
	if recompute {
		nutrition.Apply(user)
	}

	if req.NotificationsEnabled != nil {
		user.Prefs.NotificationsEnabled = *req.NotificationsEnabled
	}
	if req.WaterReminder != nil {
		user.Prefs.WaterReminder = *req.WaterReminder
	}
	if req.MealReminder != nil {
		user.Prefs.MealReminder = *req.MealReminder
	}
	if req.WorkoutReminder != nil {
		user.Prefs.WorkoutReminder = *req.WorkoutReminder
	}
	if req.SleepReminder != nil {
		user.Prefs.SleepReminder = *req.SleepReminder
	}
	if req.FastingReminder != nil {
		user.Prefs.FastingReminder = *req.FastingReminder
	}

	if err := s.Store.UpdateUser(ctx, user); err != nil {
		writeStoreError(w, err)
		return
	}
	user.Password = ""
	writeJSON(w, http.StatusOK, user)
}

// SearchUsersHandler finds users by username fragment, excluding the
// requester.
func (s *Server) SearchUsersHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := authenticate(r)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusOK, []models.User{})
		return
	}
	limit := queryInt(r, "limit", 20)

	users, err := s.Store.SearchUsers(r.Context(), q, userID, limit)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	for i := range users {
		users[i].Password = ""
	}
	writeJSON(w, http.StatusOK, users)
}

// queryInt reads an integer query parameter with a default.
func queryInt(r *http.Request, key string, def int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return def
	}
	return v
}
