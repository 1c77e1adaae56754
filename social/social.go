// Package social manages the friendship graph: undirected friendship edges
// keyed by a canonical pair key, and the friend-request lifecycle that is
// the only way edges get created.
package social

import (
	"sort"

	"github.com/socialshowcase/backend/model"
)

// PairKey returns the order-independent identity for an unordered id pair:
// the two ids sorted and joined with "_". PairKey(a,b) == PairKey(b,a).
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "_" + b
}

// FriendIDs scans the friendship edges and returns the set of ids paired
// with viewerID on either side. Pure; tolerates an empty edge list.
func FriendIDs(edges []model.Friendship, viewerID string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, f := range edges {
		if f.UserA == viewerID {
			set[f.UserB] = struct{}{}
		}
		if f.UserB == viewerID {
			set[f.UserA] = struct{}{}
		}
	}
	return set
}

// SortedIDs returns the members of a friend-id set in stable order.
func SortedIDs(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
