package models

import (
	"time"

	"github.com/google/uuid"
)

// Friendship statuses. Rejection and removal delete the row, so there is no
// terminal 'rejected' status.
const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
)

// Friendship is a single row per unordered user pair. RequesterID initiated
// the request; only RecipientID may accept it.
type Friendship struct {
	ID          uuid.UUID `json:"id"`
	RequesterID uuid.UUID `json:"requester_id"`
	RecipientID uuid.UUID `json:"recipient_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Other returns the opposite side of the friendship from userID.
func (f Friendship) Other(userID uuid.UUID) uuid.UUID {
	if f.RequesterID == userID {
		return f.RecipientID
	}
	return f.RequesterID
}

// Involves reports whether userID is either party.
func (f Friendship) Involves(userID uuid.UUID) bool {
	return f.RequesterID == userID || f.RecipientID == userID
}

// FriendEntry is a friendship annotated with the counterpart user, as
// returned by the list endpoint.
type FriendEntry struct {
	FriendshipID uuid.UUID `json:"friendship_id"`
	Status       string    `json:"status"`
	IsRequester  bool      `json:"is_requester"`
	CreatedAt    time.Time `json:"created_at"`

	FriendID       uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Bio            string    `json:"bio,omitempty"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
}
