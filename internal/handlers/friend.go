package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/avery-dunn/nutriguide/internal/models"
)

type friendRequestPayload struct {
	Username string `json:"username"`
}

// SendFriendRequestHandler creates a pending friendship addressed by
// username.
func (s *Server) SendFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := authenticate(r)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}

	var req friendRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		http.Error(w, "username is required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	recipient, err := s.Store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	f, err := s.Friends.SendRequest(ctx, userID, recipient.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

// AcceptFriendHandler accepts a pending request addressed to the caller.
func (s *Server) AcceptFriendHandler(w http.ResponseWriter, r *http.Request) {
	s.respondToFriendRequest(w, r, true)
}

// RejectFriendHandler rejects a pending request, deleting it.
func (s *Server) RejectFriendHandler(w http.ResponseWriter, r *http.Request) {
	s.respondToFriendRequest(w, r, false)
}

func (s *Server) respondToFriendRequest(w http.ResponseWriter, r *http.Request, accept bool) {
	userID, err := authenticate(r)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "invalid friendship id", http.StatusBadRequest)
		return
	}
	if err := s.Friends.Respond(r.Context(), id, userID, accept); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// RemoveFriendHandler deletes an accepted friendship either party owns.
func (s *Server) RemoveFriendHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := authenticate(r)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}
	id, ok := pathID(r)
	if !ok {
		http.Error(w, "invalid friendship id", http.StatusBadRequest)
		return
	}
	if err := s.Friends.Remove(r.Context(), id, userID); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ListFriendsHandler returns the user's friendships. ?status=pending or
// ?status=accepted filters; no filter returns both.
func (s *Server) ListFriendsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := authenticate(r)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}
	status := r.URL.Query().Get("status")
	entries, err := s.Friends.ListFor(r.Context(), userID, status)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if entries == nil {
		entries = []models.FriendEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
