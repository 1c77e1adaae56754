package content

import (
	"testing"

	"github.com/socialshowcase/backend/model"
	"github.com/stretchr/testify/assert"
)

func TestCanView(t *testing.T) {
	friends := map[string]struct{}{"friend": {}}

	tests := []struct {
		name       string
		visibility model.Visibility
		viewerID   string
		role       model.Role
		want       bool
	}{
		{"public stranger", model.VisibilityPublic, "stranger", model.RoleUser, true},
		{"friends tier friend", model.VisibilityFriends, "viewer", model.RoleUser, true},
		{"friends tier stranger", model.VisibilityFriends, "viewer2", model.RoleUser, false},
		{"private stranger", model.VisibilityPrivate, "stranger", model.RoleUser, false},
		{"private author", model.VisibilityPrivate, "friend", model.RoleUser, true},
		{"private admin", model.VisibilityPrivate, "x", model.RoleAdmin, true},
		{"private super user", model.VisibilityPrivate, "x", model.RoleSuper, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := model.Post{AuthorID: "friend", Visibility: tt.visibility}
			got := CanView(p, tt.viewerID, tt.role, friends)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanViewAuthorAlways(t *testing.T) {
	for _, vis := range []model.Visibility{model.VisibilityPublic, model.VisibilityFriends, model.VisibilityPrivate} {
		p := model.Post{AuthorID: "me", Visibility: vis}
		assert.True(t, CanView(p, "me", model.RoleUser, nil), string(vis))
	}
}
