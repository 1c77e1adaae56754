package social

import (
	"testing"
	"time"

	"github.com/socialshowcase/backend/model"
	"github.com/socialshowcase/backend/store"
	"github.com/socialshowcase/backend/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T, users ...string) (*Service, *store.Store) {
	t.Helper()
	st := store.New(memory.New())
	require.NoError(t, st.Init())
	require.NoError(t, st.Update(func(snap *model.Snapshot) error {
		for _, id := range users {
			snap.Users = append(snap.Users, model.User{
				ID:        id,
				Phone:     "1380000" + id,
				Nickname:  id,
				Role:      model.RoleUser,
				CreatedAt: time.Now(),
			})
		}
		return nil
	}))
	return NewService(st, zap.NewNop()), st
}

func TestRequestSelf(t *testing.T) {
	svc, _ := newTestService(t, "u1")
	_, err := svc.Request("u1", "u1")
	assert.ErrorIs(t, err, ErrSelfRequest)
}

func TestRequestUnknownUser(t *testing.T) {
	svc, _ := newTestService(t, "u1")
	_, err := svc.Request("u1", "nope")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRequestDuplicatePendingEitherDirection(t *testing.T) {
	svc, _ := newTestService(t, "u1", "u2")
	_, err := svc.Request("u1", "u2")
	require.NoError(t, err)

	_, err = svc.Request("u1", "u2")
	assert.ErrorIs(t, err, ErrPendingExists)

	// Reverse direction is blocked too.
	_, err = svc.Request("u2", "u1")
	assert.ErrorIs(t, err, ErrPendingExists)
}

func TestAcceptCreatesSingleEdge(t *testing.T) {
	svc, st := newTestService(t, "u1", "u2")
	req, err := svc.Request("u1", "u2")
	require.NoError(t, err)

	require.NoError(t, svc.Accept("u2", req.ID))

	var edges []model.Friendship
	require.NoError(t, st.View(func(snap *model.Snapshot) error {
		edges = append(edges, snap.Friendships...)
		return nil
	}))
	require.Len(t, edges, 1)
	assert.Equal(t, PairKey("u1", "u2"), edges[0].ID)

	// Resolved requests cannot be accepted again.
	assert.ErrorIs(t, svc.Accept("u2", req.ID), ErrAlreadyResolved)
}

func TestAcceptOnlyAddressee(t *testing.T) {
	svc, _ := newTestService(t, "u1", "u2", "u3")
	req, err := svc.Request("u1", "u2")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Accept("u3", req.ID), ErrNotAddressee)
	assert.ErrorIs(t, svc.Accept("u1", req.ID), ErrNotAddressee)
}

func TestRejectKeepsHistoryAndAllowsRetry(t *testing.T) {
	svc, _ := newTestService(t, "u1", "u2")
	req, err := svc.Request("u1", "u2")
	require.NoError(t, err)
	require.NoError(t, svc.Reject("u2", req.ID))

	items, err := svc.IncomingRequests("u2")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, model.RequestRejected, items[0].Status)

	// After rejection a new request may be sent.
	_, err = svc.Request("u1", "u2")
	assert.NoError(t, err)
}

func TestRequestBlockedWhenAlreadyFriends(t *testing.T) {
	svc, _ := newTestService(t, "u1", "u2")
	req, err := svc.Request("u1", "u2")
	require.NoError(t, err)
	require.NoError(t, svc.Accept("u2", req.ID))

	_, err = svc.Request("u2", "u1")
	assert.ErrorIs(t, err, ErrAlreadyFriends)
}

func TestFriendsAndRemove(t *testing.T) {
	svc, _ := newTestService(t, "u1", "u2")
	req, err := svc.Request("u1", "u2")
	require.NoError(t, err)
	require.NoError(t, svc.Accept("u2", req.ID))

	friends, err := svc.Friends("u1")
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, "u2", friends[0].ID)
	assert.Empty(t, friends[0].PasswordHash)

	// Removal is symmetric and idempotent.
	require.NoError(t, svc.Remove("u2", "u1"))
	friends, err = svc.Friends("u1")
	require.NoError(t, err)
	assert.Empty(t, friends)
	assert.NoError(t, svc.Remove("u2", "u1"))
}
