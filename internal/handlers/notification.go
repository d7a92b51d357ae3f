package handlers

import (
	"net/http"

	"github.com/avery-dunn/nutriguide/internal/models"
)

type notificationListResponse struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unread_count"`
}

// ListNotificationsHandler returns the user's notifications, newest
// first. Supports ?unread_only=true and ?limit=N.
func (s *Server) ListNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := authenticate(r)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}

	unreadOnly := r.URL.Query().Get("unread_only") == "true"
	limit := queryInt(r, "limit", 50)

	ctx := r.Context()
	notifs, err := s.Store.ListNotifications(ctx, userID, unreadOnly, limit)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	unread, err := s.Store.CountUnreadNotifications(ctx, userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if notifs == nil {
		notifs = []models.Notification{}
	}
	writeJSON(w, http.StatusOK, notificationListResponse{Notifications: notifs, UnreadCount: unread})
}

// MarkNotificationReadHandler marks one of the user's notifications as
// read. A notification belonging to someone else reads as missing.
func (s *Server) MarkNotificationReadHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := authenticate(r)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "invalid notification id", http.StatusBadRequest)
		return
	}
	if err := s.Store.MarkNotificationRead(r.Context(), id, userID); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// MarkAllNotificationsReadHandler marks everything unread as read.
func (s *Server) MarkAllNotificationsReadHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := authenticate(r)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}
	if err := s.Store.MarkAllNotificationsRead(r.Context(), userID); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
