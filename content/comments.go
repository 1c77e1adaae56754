package content

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/socialshowcase/backend/model"
	"github.com/socialshowcase/backend/moderation"
	"github.com/socialshowcase/backend/social"
)

// ListComments returns the visible page of a post's comments, oldest first.
// Reading comments requires read access to the post itself; no orphaned or
// hidden-post comment is ever independently visible.
func (s *Service) ListComments(viewerID string, role model.Role, postID string, page, pageSize int) ([]model.Comment, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}
	items := []model.Comment{}
	total := 0
	err := s.store.View(func(snap *model.Snapshot) error {
		p := snap.Post(postID)
		if p == nil {
			return ErrPostNotFound
		}
		friends := social.FriendIDs(snap.Friendships, viewerID)
		if !CanView(*p, viewerID, role, friends) {
			return ErrForbidden
		}
		var all []model.Comment
		for _, c := range snap.Comments {
			if c.PostID == postID && !c.Deleted {
				all = append(all, c)
			}
		}
		sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
		total = len(all)
		start := (page - 1) * pageSize
		if start > len(all) {
			start = len(all)
		}
		end := start + pageSize
		if end > len(all) {
			end = len(all)
		}
		items = append(items, all[start:end]...)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// AddComment appends a comment to a post the viewer may read. Content is
// moderation-gated like post bodies.
func (s *Service) AddComment(userID string, role model.Role, postID, contentText, parentID string) (model.Comment, error) {
	contentText = strings.TrimSpace(contentText)
	if contentText == "" {
		return model.Comment{}, ErrInvalidInput
	}
	var created model.Comment
	err := s.store.Update(func(snap *model.Snapshot) error {
		p := snap.Post(postID)
		if p == nil {
			return ErrPostNotFound
		}
		friends := social.FriendIDs(snap.Friendships, userID)
		if !CanView(*p, userID, role, friends) {
			return ErrForbidden
		}
		if r := moderation.Mask(contentText, snap.SensitiveWords); !r.Allowed {
			return &SensitiveContentError{Hits: r.Hits}
		}
		created = model.Comment{
			ID:        uuid.New().String(),
			PostID:    postID,
			AuthorID:  userID,
			Content:   contentText,
			ParentID:  parentID,
			CreatedAt: time.Now(),
		}
		snap.Comments = append(snap.Comments, created)
		return nil
	})
	if err != nil {
		return model.Comment{}, err
	}
	return created, nil
}

// DeleteComment soft-deletes a comment. Only its author may delete it.
func (s *Service) DeleteComment(userID, commentID string) error {
	return s.store.Update(func(snap *model.Snapshot) error {
		for i := range snap.Comments {
			if snap.Comments[i].ID == commentID {
				if snap.Comments[i].AuthorID != userID {
					return ErrForbidden
				}
				snap.Comments[i].Deleted = true
				return nil
			}
		}
		return ErrCommentNotFound
	})
}
