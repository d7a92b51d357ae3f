package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/avery-dunn/nutriguide/internal/models"
)

type createPostRequest struct {
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
}

func (s *Server) CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := authenticate(r)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}
	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Content == "" {
		http.Error(w, "content is required", http.StatusBadRequest)
		return
	}
	post, err := s.Social.CreatePost(r.Context(), userID, req.Content, req.ImageURL)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// FeedHandler returns the caller's posts plus their accepted friends'
// posts, newest first. Supports ?limit and ?offset.
func (s *Server) FeedHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := authenticate(r)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)
	posts, err := s.Social.ListFeed(r.Context(), userID, limit, offset)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	writeJSON(w, http.StatusOK, posts)
}

type toggleLikeResponse struct {
	Success    bool `json:"success"`
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

func (s *Server) ToggleLikeHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := authenticate(r)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}
	postID, ok := pathID(r)
	if !ok {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}
	liked, count, err := s.Social.ToggleLike(r.Context(), postID, userID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toggleLikeResponse{Success: true, Liked: liked, LikesCount: count})
}

type addCommentRequest struct {
	Content string `json:"content"`
}

func (s *Server) AddCommentHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := authenticate(r)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}
	postID, ok := pathID(r)
	if !ok {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}
	var req addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Content == "" {
		http.Error(w, "content is required", http.StatusBadRequest)
		return
	}
	comment, err := s.Social.AddComment(r.Context(), postID, userID, req.Content)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (s *Server) ListCommentsHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := authenticate(r); err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}
	postID, ok := pathID(r)
	if !ok {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}
	comments, err := s.Social.ListComments(r.Context(), postID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	writeJSON(w, http.StatusOK, comments)
}

type sendMessageRequest struct {
	ReceiverID uuid.UUID `json:"receiver_id"`
	Content    string    `json:"content"`
}

// SendMessageHandler is the HTTP path for direct messages; the same
// operation is reachable over the websocket.
func (s *Server) SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := authenticate(r)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Content == "" || req.ReceiverID == uuid.Nil {
		http.Error(w, "receiver_id and content are required", http.StatusBadRequest)
		return
	}
	msg, err := s.Social.SendMessage(r.Context(), userID, req.ReceiverID, req.Content)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// ListMessagesHandler returns the conversation between the caller and
// the user in the path, oldest first.
func (s *Server) ListMessagesHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := authenticate(r)
	if err != nil {
		http.Error(w, "invalid token", http.StatusForbidden)
		return
	}
	otherID, ok := pathID(r)
	if !ok {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	limit := queryInt(r, "limit", 50)
	msgs, err := s.Social.ListMessages(r.Context(), userID, otherID, limit)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	writeJSON(w, http.StatusOK, msgs)
}
