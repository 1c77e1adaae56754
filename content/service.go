// Package content implements posts, comments, ratings and the visibility
// resolver that gates every read of them.
package content

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/socialshowcase/backend/model"
	"github.com/socialshowcase/backend/moderation"
	"github.com/socialshowcase/backend/social"
	"github.com/socialshowcase/backend/store"
	"go.uber.org/zap"
)

// Service owns post, comment and rating operations.
type Service struct {
	store  *store.Store
	logger *zap.Logger
}

// NewService creates a content Service.
func NewService(st *store.Store, logger *zap.Logger) *Service {
	return &Service{store: st, logger: logger}
}

// PostInput is the writable part of a post.
type PostInput struct {
	Title      *string
	Text       *string
	Tags       *[]string
	Visibility *model.Visibility
	Media      *[]model.MediaItem
}

// PostWithRating is a post plus its rating aggregate, the list/detail read
// shape.
type PostWithRating struct {
	model.Post
	RatingSummary model.RatingSummary `json:"ratingSummary"`
}

// ListQuery filters the post list.
type ListQuery struct {
	Q               string
	Tag             string
	OnlyMine        bool
	OnlyFriendsFeed bool
	DateFrom        *time.Time
	DateTo          *time.Time
	Page            int
	PageSize        int
}

// TagCount is one entry of the tag frequency table.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// CreatePost validates, moderation-gates and persists a new post.
func (s *Service) CreatePost(authorID string, in PostInput) (model.Post, error) {
	vis := model.VisibilityPublic
	if in.Visibility != nil {
		vis = *in.Visibility
	}
	if !vis.Valid() {
		return model.Post{}, ErrInvalidInput
	}

	title := strings.TrimSpace(deref(in.Title))
	text := strings.TrimSpace(deref(in.Text))
	tags := cleanTags(in.Tags)
	media := []model.MediaItem{}
	if in.Media != nil {
		media = *in.Media
	}

	var created model.Post
	err := s.store.Update(func(snap *model.Snapshot) error {
		if err := checkSensitive(snap, title, text, tags); err != nil {
			return err
		}
		now := time.Now()
		created = model.Post{
			ID:         uuid.New().String(),
			AuthorID:   authorID,
			Title:      title,
			Text:       text,
			Tags:       tags,
			Visibility: vis,
			Media:      media,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		snap.Posts = append(snap.Posts, created)
		return nil
	})
	if err != nil {
		return model.Post{}, err
	}
	s.logger.Info("post created", zap.String("id", created.ID), zap.String("author", authorID))
	return created, nil
}

// UpdatePost applies a partial edit. Only the author may edit.
func (s *Service) UpdatePost(userID, postID string, in PostInput) (model.Post, error) {
	if in.Visibility != nil && !in.Visibility.Valid() {
		return model.Post{}, ErrInvalidInput
	}
	var updated model.Post
	err := s.store.Update(func(snap *model.Snapshot) error {
		p := snap.Post(postID)
		if p == nil {
			return ErrPostNotFound
		}
		if p.AuthorID != userID {
			return ErrForbidden
		}

		nextTitle, nextText, nextTags := p.Title, p.Text, p.Tags
		if in.Title != nil {
			nextTitle = strings.TrimSpace(*in.Title)
		}
		if in.Text != nil {
			nextText = strings.TrimSpace(*in.Text)
		}
		if in.Tags != nil {
			nextTags = cleanTags(in.Tags)
		}
		if err := checkSensitive(snap, nextTitle, nextText, nextTags); err != nil {
			return err
		}

		p.Title, p.Text, p.Tags = nextTitle, nextText, nextTags
		if in.Visibility != nil {
			p.Visibility = *in.Visibility
		}
		if in.Media != nil {
			p.Media = *in.Media
		}
		p.UpdatedAt = time.Now()
		updated = *p
		return nil
	})
	if err != nil {
		return model.Post{}, err
	}
	return updated, nil
}

// DeletePost removes a post and cascades to its comments and ratings in one
// snapshot write, so no orphan ever becomes independently visible.
// Admins may delete any post; users only their own.
func (s *Service) DeletePost(userID string, role model.Role, postID string) error {
	return s.store.Update(func(snap *model.Snapshot) error {
		p := snap.Post(postID)
		if p == nil {
			return ErrPostNotFound
		}
		if p.AuthorID != userID && role != model.RoleAdmin {
			return ErrForbidden
		}
		posts := snap.Posts[:0]
		for _, x := range snap.Posts {
			if x.ID != postID {
				posts = append(posts, x)
			}
		}
		snap.Posts = posts
		comments := snap.Comments[:0]
		for _, c := range snap.Comments {
			if c.PostID != postID {
				comments = append(comments, c)
			}
		}
		snap.Comments = comments
		ratings := snap.Ratings[:0]
		for _, r := range snap.Ratings {
			if r.PostID != postID {
				ratings = append(ratings, r)
			}
		}
		snap.Ratings = ratings
		return nil
	})
}

// GetPost returns one post if the viewer may read it.
func (s *Service) GetPost(viewerID string, role model.Role, postID string) (PostWithRating, error) {
	var out PostWithRating
	err := s.store.View(func(snap *model.Snapshot) error {
		p := snap.Post(postID)
		if p == nil {
			return ErrPostNotFound
		}
		friends := social.FriendIDs(snap.Friendships, viewerID)
		if !CanView(*p, viewerID, role, friends) {
			return ErrForbidden
		}
		out = PostWithRating{Post: *p, RatingSummary: summarize(snap.Ratings, postID, false)}
		return nil
	})
	return out, err
}

// ListPosts returns the visible, filtered page of posts, newest first, and
// the pre-pagination total. The viewer's friend set is computed once.
func (s *Service) ListPosts(viewerID string, role model.Role, q ListQuery) ([]PostWithRating, int, error) {
	page, pageSize := q.Page, q.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	items := []PostWithRating{}
	total := 0
	err := s.store.View(func(snap *model.Snapshot) error {
		friends := social.FriendIDs(snap.Friendships, viewerID)

		var posts []model.Post
		for _, p := range snap.Posts {
			if q.OnlyMine {
				if p.AuthorID != viewerID {
					continue
				}
			} else if !CanView(p, viewerID, role, friends) {
				continue
			}
			if q.OnlyFriendsFeed && p.AuthorID != viewerID {
				if _, ok := friends[p.AuthorID]; !ok {
					continue
				}
			}
			if q.Q != "" && !matchesQuery(p, q.Q) {
				continue
			}
			if q.Tag != "" && !containsTag(p.Tags, q.Tag) {
				continue
			}
			if q.DateFrom != nil && p.CreatedAt.Before(dayStart(*q.DateFrom)) {
				continue
			}
			if q.DateTo != nil && !p.CreatedAt.Before(dayStart(*q.DateTo).Add(24*time.Hour)) {
				continue
			}
			posts = append(posts, p)
		}

		sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
		total = len(posts)

		start := (page - 1) * pageSize
		if start > len(posts) {
			start = len(posts)
		}
		end := start + pageSize
		if end > len(posts) {
			end = len(posts)
		}
		for _, p := range posts[start:end] {
			items = append(items, PostWithRating{Post: p, RatingSummary: summarize(snap.Ratings, p.ID, false)})
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// TagCounts returns tag frequencies over all posts, most used first.
func (s *Service) TagCounts() ([]TagCount, error) {
	counts := map[string]int{}
	err := s.store.View(func(snap *model.Snapshot) error {
		for _, p := range snap.Posts {
			for _, t := range p.Tags {
				counts[t]++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	items := make([]TagCount, 0, len(counts))
	for tag, n := range counts {
		items = append(items, TagCount{Tag: tag, Count: n})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Tag < items[j].Tag
	})
	return items, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func cleanTags(tags *[]string) []string {
	out := []string{}
	if tags == nil {
		return out
	}
	for _, t := range *tags {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func checkSensitive(snap *model.Snapshot, title, text string, tags []string) error {
	combined := strings.TrimSpace(title + "\n" + text + "\n" + strings.Join(tags, " "))
	r := moderation.Mask(combined, snap.SensitiveWords)
	if !r.Allowed {
		return &SensitiveContentError{Hits: r.Hits}
	}
	return nil
}

func matchesQuery(p model.Post, q string) bool {
	if strings.Contains(p.Title, q) || strings.Contains(p.Text, q) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(t, q) {
			return true
		}
	}
	return false
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func summarize(ratings []model.Rating, postID string, withDist bool) model.RatingSummary {
	sum, count := 0, 0
	var dist map[string]int
	if withDist {
		dist = map[string]int{}
	}
	for _, r := range ratings {
		if r.PostID != postID {
			continue
		}
		sum += r.Score
		count++
		if withDist {
			dist[strconv.Itoa(r.Score)]++
		}
	}
	out := model.RatingSummary{TotalCount: count, Dist: dist}
	if count > 0 {
		out.Avg = float64(sum) / float64(count)
	}
	return out
}
