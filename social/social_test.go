package social

import (
	"testing"

	"github.com/socialshowcase/backend/model"
	"github.com/stretchr/testify/assert"
)

func TestPairKeySymmetric(t *testing.T) {
	assert.Equal(t, PairKey("a", "b"), PairKey("b", "a"))
	assert.Equal(t, "a_b", PairKey("b", "a"))
	assert.Equal(t, "u1_u2", PairKey("u1", "u2"))
}

func TestFriendIDsBothSides(t *testing.T) {
	edges := []model.Friendship{
		{ID: PairKey("me", "u1"), UserA: "me", UserB: "u1"},
		{ID: PairKey("u2", "me"), UserA: "u2", UserB: "me"},
		{ID: PairKey("u3", "u4"), UserA: "u3", UserB: "u4"},
	}
	set := FriendIDs(edges, "me")
	assert.Len(t, set, 2)
	assert.Contains(t, set, "u1")
	assert.Contains(t, set, "u2")
	assert.NotContains(t, set, "u3")
}

func TestFriendIDsEmpty(t *testing.T) {
	set := FriendIDs(nil, "me")
	assert.Empty(t, set)
}

func TestSortedIDs(t *testing.T) {
	set := map[string]struct{}{"c": {}, "a": {}, "b": {}}
	assert.Equal(t, []string{"a", "b", "c"}, SortedIDs(set))
}
