package content

import (
	"time"

	"github.com/socialshowcase/backend/model"
	"github.com/socialshowcase/backend/social"
)

// Rate upserts the viewer's score for a post. The rating id is
// "<postId>_<userId>" so re-rating replaces the earlier score. Rating
// requires read access to the post.
func (s *Service) Rate(userID string, role model.Role, postID string, score int) (model.Rating, error) {
	if score < 1 || score > 5 {
		return model.Rating{}, ErrInvalidInput
	}
	var rec model.Rating
	err := s.store.Update(func(snap *model.Snapshot) error {
		p := snap.Post(postID)
		if p == nil {
			return ErrPostNotFound
		}
		friends := social.FriendIDs(snap.Friendships, userID)
		if !CanView(*p, userID, role, friends) {
			return ErrForbidden
		}
		id := postID + "_" + userID
		now := time.Now()
		for i := range snap.Ratings {
			if snap.Ratings[i].ID == id {
				snap.Ratings[i].Score = score
				snap.Ratings[i].UpdatedAt = now
				rec = snap.Ratings[i]
				return nil
			}
		}
		rec = model.Rating{
			ID:        id,
			PostID:    postID,
			UserID:    userID,
			Score:     score,
			CreatedAt: now,
			UpdatedAt: now,
		}
		snap.Ratings = append(snap.Ratings, rec)
		return nil
	})
	if err != nil {
		return model.Rating{}, err
	}
	return rec, nil
}

// MyRating returns the viewer's rating for a post, or nil if absent.
func (s *Service) MyRating(userID, postID string) (*model.Rating, error) {
	id := postID + "_" + userID
	var rec *model.Rating
	err := s.store.View(func(snap *model.Snapshot) error {
		for _, r := range snap.Ratings {
			if r.ID == id {
				cp := r
				rec = &cp
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// RatingSummary aggregates all ratings for a post, including the score
// distribution.
func (s *Service) RatingSummary(postID string) (model.RatingSummary, error) {
	var out model.RatingSummary
	err := s.store.View(func(snap *model.Snapshot) error {
		out = summarize(snap.Ratings, postID, true)
		return nil
	})
	return out, err
}
