// Package handlers wires the HTTP and WebSocket surface of the service.
package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/avery-dunn/nutriguide/internal/friends"
	"github.com/avery-dunn/nutriguide/internal/notify"
	"github.com/avery-dunn/nutriguide/internal/presence"
	"github.com/avery-dunn/nutriguide/internal/social"
	"github.com/avery-dunn/nutriguide/internal/store"
)

// Server carries the dependencies the HTTP handlers need.
type Server struct {
	Store    store.Store
	Notifier *notify.Notifier
	Friends  *friends.Service
	Social   *social.Service
	Registry *presence.Registry
	Logger   *logrus.Logger
}

func NewServer(st store.Store, n *notify.Notifier, fr *friends.Service, so *social.Service, reg *presence.Registry, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.New()
	}
	return &Server{Store: st, Notifier: n, Friends: fr, Social: so, Registry: reg, Logger: logger}
}

// Routes registers every handler on the mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /user/create", s.CreateUserHandler)
	mux.HandleFunc("POST /user/login", s.LoginHandler)
	mux.HandleFunc("GET /user/me", s.GetProfileHandler)
	mux.HandleFunc("PUT /user/me", s.UpdateProfileHandler)
	mux.HandleFunc("GET /users/search", s.SearchUsersHandler)

	mux.HandleFunc("GET /notifications", s.ListNotificationsHandler)
	mux.HandleFunc("POST /notifications/{id}/read", s.MarkNotificationReadHandler)
	mux.HandleFunc("POST /notifications/read_all", s.MarkAllNotificationsReadHandler)

	mux.HandleFunc("POST /friends/request", s.SendFriendRequestHandler)
	mux.HandleFunc("POST /friends/{id}/accept", s.AcceptFriendHandler)
	mux.HandleFunc("POST /friends/{id}/reject", s.RejectFriendHandler)
	mux.HandleFunc("DELETE /friends/{id}", s.RemoveFriendHandler)
	mux.HandleFunc("GET /friends", s.ListFriendsHandler)

	mux.HandleFunc("POST /posts", s.CreatePostHandler)
	mux.HandleFunc("GET /feed", s.FeedHandler)
	mux.HandleFunc("POST /posts/{id}/like", s.ToggleLikeHandler)
	mux.HandleFunc("GET /posts/{id}/comments", s.ListCommentsHandler)
	mux.HandleFunc("POST /posts/{id}/comments", s.AddCommentHandler)
	mux.HandleFunc("POST /messages", s.SendMessageHandler)
	mux.HandleFunc("GET /messages/{id}", s.ListMessagesHandler)

	mux.HandleFunc("POST /meals", s.CreateMealHandler)
	mux.HandleFunc("GET /meals", s.ListMealsHandler)
	mux.HandleFunc("POST /workouts", s.CreateWorkoutHandler)
	mux.HandleFunc("GET /workouts", s.ListWorkoutsHandler)
	mux.HandleFunc("POST /water", s.LogWaterHandler)
	mux.HandleFunc("POST /sleep", s.LogSleepHandler)
	mux.HandleFunc("GET /sleep", s.ListSleepHandler)
	mux.HandleFunc("POST /weight", s.LogWeightHandler)
	mux.HandleFunc("GET /weight", s.ListWeightHandler)

	mux.HandleFunc("GET /ws", s.NotifyWSHandler())
}
