package model

import "time"

// Visibility is a post's access tier.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityFriends Visibility = "friends"
	VisibilityPrivate Visibility = "private"
)

// Valid reports whether v is one of the known tiers.
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityFriends, VisibilityPrivate:
		return true
	}
	return false
}

// MediaKind distinguishes post media entries.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// MediaItem is one attachment of a post.
type MediaItem struct {
	Kind        MediaKind `json:"kind"`
	FileID      string    `json:"fileId,omitempty"`
	URL         string    `json:"url,omitempty"`
	CoverURL    string    `json:"coverUrl,omitempty"`
	DurationSec int       `json:"durationSec,omitempty"`
}

// Post is a published piece of content. Tag order is preserved for display.
type Post struct {
	ID         string      `json:"id"`
	AuthorID   string      `json:"authorId"`
	Title      string      `json:"title,omitempty"`
	Text       string      `json:"text,omitempty"`
	Tags       []string    `json:"tags"`
	Visibility Visibility  `json:"visibility"`
	Media      []MediaItem `json:"media"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// Comment belongs to a post. Soft-deleted comments stay for thread shape.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	ParentID  string    `json:"parentId,omitempty"`
	Deleted   bool      `json:"deleted,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Rating is one user's score for a post. Its id is "<postId>_<userId>" so a
// user has at most one rating per post.
type Rating struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RatingSummary aggregates ratings for one post.
type RatingSummary struct {
	Avg        float64        `json:"avg"`
	TotalCount int            `json:"totalCount"`
	Dist       map[string]int `json:"dist,omitempty"`
}
