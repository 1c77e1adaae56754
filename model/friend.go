package model

import "time"

// FriendRequestStatus is the lifecycle state of a friend request.
// accepted and rejected are terminal; records are kept as history.
type FriendRequestStatus string

const (
	RequestPending  FriendRequestStatus = "pending"
	RequestAccepted FriendRequestStatus = "accepted"
	RequestRejected FriendRequestStatus = "rejected"
)

// FriendRequest is a directed ask from one user to another.
type FriendRequest struct {
	ID         string              `json:"id"`
	FromUserID string              `json:"fromUserId"`
	ToUserID   string              `json:"toUserId"`
	Status     FriendRequestStatus `json:"status"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

// Friendship is an undirected edge between two users. Its ID is the
// canonical pair key of the two ids, which guarantees at most one edge per
// unordered pair.
type Friendship struct {
	ID        string    `json:"id"`
	UserA     string    `json:"userA"`
	UserB     string    `json:"userB"`
	CreatedAt time.Time `json:"createdAt"`
}
