package seed

import (
	"testing"

	"github.com/socialshowcase/backend/config"
	"github.com/socialshowcase/backend/model"
	"github.com/socialshowcase/backend/store"
	"github.com/socialshowcase/backend/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func testSeedConfig(demo bool) config.SeedConfig {
	return config.SeedConfig{
		Demo:          demo,
		AdminPhone:    "19900000000",
		AdminPassword: "Admin@123",
		SuperPhone:    "18800000000",
		SuperPassword: "Admin@123",
		SuperSMSCode:  "000000",
	}
}

func TestEnsureCreatesBaseline(t *testing.T) {
	st := store.New(memory.New())
	require.NoError(t, st.Init())
	require.NoError(t, Ensure(st, testSeedConfig(false), zap.NewNop()))

	require.NoError(t, st.View(func(snap *model.Snapshot) error {
		admin := snap.UserByPhone("19900000000")
		require.NotNil(t, admin)
		assert.Equal(t, model.RoleAdmin, admin.Role)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("Admin@123")))

		super := snap.UserByPhone("18800000000")
		require.NotNil(t, super)
		assert.Equal(t, model.RoleSuper, super.Role)

		assert.NotEmpty(t, snap.SensitiveWords)
		assert.Empty(t, snap.Posts)
		return nil
	}))
}

func TestEnsureIdempotent(t *testing.T) {
	st := store.New(memory.New())
	require.NoError(t, st.Init())
	cfg := testSeedConfig(true)

	require.NoError(t, Ensure(st, cfg, zap.NewNop()))
	var users, posts, words int
	require.NoError(t, st.View(func(snap *model.Snapshot) error {
		users, posts, words = len(snap.Users), len(snap.Posts), len(snap.SensitiveWords)
		return nil
	}))
	assert.Equal(t, 4, users)
	assert.NotZero(t, posts)

	require.NoError(t, Ensure(st, cfg, zap.NewNop()))
	require.NoError(t, st.View(func(snap *model.Snapshot) error {
		assert.Len(t, snap.Users, users)
		assert.Len(t, snap.Posts, posts)
		assert.Len(t, snap.SensitiveWords, words)
		return nil
	}))
}

func TestEnsureKeepsCustomWordList(t *testing.T) {
	st := store.New(memory.New())
	require.NoError(t, st.Init())
	require.NoError(t, st.Update(func(snap *model.Snapshot) error {
		snap.SensitiveWords = []string{"自定义"}
		return nil
	}))
	require.NoError(t, Ensure(st, testSeedConfig(false), zap.NewNop()))
	require.NoError(t, st.View(func(snap *model.Snapshot) error {
		assert.Equal(t, []string{"自定义"}, snap.SensitiveWords)
		return nil
	}))
}

func TestDemoVisibilityTiers(t *testing.T) {
	st := store.New(memory.New())
	require.NoError(t, st.Init())
	require.NoError(t, Ensure(st, testSeedConfig(true), zap.NewNop()))

	require.NoError(t, st.View(func(snap *model.Snapshot) error {
		seen := map[model.Visibility]bool{}
		for _, p := range snap.Posts {
			seen[p.Visibility] = true
		}
		assert.True(t, seen[model.VisibilityPublic])
		assert.True(t, seen[model.VisibilityFriends])
		assert.True(t, seen[model.VisibilityPrivate])
		assert.NotEmpty(t, snap.Friendships)
		assert.NotEmpty(t, snap.Ratings)
		assert.NotEmpty(t, snap.Comments)
		return nil
	}))
}
