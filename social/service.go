package social

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/socialshowcase/backend/model"
	"github.com/socialshowcase/backend/store"
	"go.uber.org/zap"
)

var (
	ErrSelfRequest     = errors.New("social: cannot friend yourself")
	ErrAlreadyFriends  = errors.New("social: already friends")
	ErrPendingExists   = errors.New("social: pending request already exists")
	ErrRequestNotFound = errors.New("social: request not found")
	ErrNotAddressee    = errors.New("social: request not addressed to user")
	ErrAlreadyResolved = errors.New("social: request already resolved")
	ErrUserNotFound    = errors.New("social: user not found")
)

// Service owns friend-request and friendship operations.
type Service struct {
	store  *store.Store
	logger *zap.Logger
}

// NewService creates a social Service.
func NewService(st *store.Store, logger *zap.Logger) *Service {
	return &Service{store: st, logger: logger}
}

// Request creates a pending friend request from fromID to toID.
// At most one pending request may exist between an unordered pair in either
// direction; an existing friendship also blocks a new request.
func (s *Service) Request(fromID, toID string) (model.FriendRequest, error) {
	if fromID == toID {
		return model.FriendRequest{}, ErrSelfRequest
	}
	var created model.FriendRequest
	err := s.store.Update(func(snap *model.Snapshot) error {
		if snap.User(toID) == nil {
			return ErrUserNotFound
		}
		key := PairKey(fromID, toID)
		for _, f := range snap.Friendships {
			if f.ID == key {
				return ErrAlreadyFriends
			}
		}
		for _, r := range snap.FriendRequests {
			if r.Status != model.RequestPending {
				continue
			}
			if (r.FromUserID == fromID && r.ToUserID == toID) ||
				(r.FromUserID == toID && r.ToUserID == fromID) {
				return ErrPendingExists
			}
		}
		now := time.Now()
		created = model.FriendRequest{
			ID:         uuid.New().String(),
			FromUserID: fromID,
			ToUserID:   toID,
			Status:     model.RequestPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		snap.FriendRequests = append(snap.FriendRequests, created)
		return nil
	})
	if err != nil {
		return model.FriendRequest{}, err
	}
	s.logger.Info("friend request created",
		zap.String("id", created.ID),
		zap.String("from", fromID),
		zap.String("to", toID))
	return created, nil
}

// IncomingRequests lists requests addressed to userID, newest first.
// Terminal requests are included; they are kept as history.
func (s *Service) IncomingRequests(userID string) ([]model.FriendRequest, error) {
	var items []model.FriendRequest
	err := s.store.View(func(snap *model.Snapshot) error {
		for _, r := range snap.FriendRequests {
			if r.ToUserID == userID {
				items = append(items, r)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

// Accept resolves a pending request addressed to userID and creates exactly
// one friendship edge keyed by the canonical pair key.
func (s *Service) Accept(userID, requestID string) error {
	err := s.store.Update(func(snap *model.Snapshot) error {
		r := findRequest(snap, requestID)
		if r == nil {
			return ErrRequestNotFound
		}
		if r.ToUserID != userID {
			return ErrNotAddressee
		}
		if r.Status != model.RequestPending {
			return ErrAlreadyResolved
		}
		now := time.Now()
		r.Status = model.RequestAccepted
		r.UpdatedAt = now

		key := PairKey(r.FromUserID, r.ToUserID)
		for i := range snap.Friendships {
			if snap.Friendships[i].ID == key {
				// Edge already present; keep exactly one.
				return nil
			}
		}
		snap.Friendships = append(snap.Friendships, model.Friendship{
			ID:        key,
			UserA:     r.FromUserID,
			UserB:     r.ToUserID,
			CreatedAt: now,
		})
		return nil
	})
	if err == nil {
		s.logger.Info("friend request accepted",
			zap.String("id", requestID), zap.String("user", userID))
	}
	return err
}

// Reject resolves a pending request addressed to userID without creating an
// edge.
func (s *Service) Reject(userID, requestID string) error {
	return s.store.Update(func(snap *model.Snapshot) error {
		r := findRequest(snap, requestID)
		if r == nil {
			return ErrRequestNotFound
		}
		if r.ToUserID != userID {
			return ErrNotAddressee
		}
		if r.Status != model.RequestPending {
			return ErrAlreadyResolved
		}
		r.Status = model.RequestRejected
		r.UpdatedAt = time.Now()
		return nil
	})
}

// Friends returns the sanitized users paired with userID, regardless of
// which side of the edge they sit on.
func (s *Service) Friends(userID string) ([]model.User, error) {
	users := []model.User{}
	err := s.store.View(func(snap *model.Snapshot) error {
		set := FriendIDs(snap.Friendships, userID)
		for _, u := range snap.Users {
			if u.Deleted {
				continue
			}
			if _, ok := set[u.ID]; ok {
				users = append(users, u.Sanitized())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Remove deletes the friendship edge between userID and otherID for both
// sides. Removing a non-existent edge is a no-op.
func (s *Service) Remove(userID, otherID string) error {
	key := PairKey(userID, otherID)
	return s.store.Update(func(snap *model.Snapshot) error {
		kept := snap.Friendships[:0]
		for _, f := range snap.Friendships {
			if f.ID != key {
				kept = append(kept, f)
			}
		}
		snap.Friendships = kept
		return nil
	})
}

func findRequest(snap *model.Snapshot, id string) *model.FriendRequest {
	for i := range snap.FriendRequests {
		if snap.FriendRequests[i].ID == id {
			return &snap.FriendRequests[i]
		}
	}
	return nil
}
