package content

import "github.com/socialshowcase/backend/model"

// CanView reports whether a viewer may read a post. friends is the viewer's
// precomputed friend-id set; compute it once per request and reuse it across
// a candidate list, never per post.
//
// Elevated roles (admin, super_user) read everything regardless of
// visibility.
func CanView(p model.Post, viewerID string, role model.Role, friends map[string]struct{}) bool {
	if role.Elevated() {
		return true
	}
	if p.Visibility == model.VisibilityPublic {
		return true
	}
	if p.AuthorID == viewerID {
		return true
	}
	if p.Visibility == model.VisibilityPrivate {
		return false
	}
	// visibility == friends: viewer must be a friend of the author.
	_, ok := friends[p.AuthorID]
	return ok
}
