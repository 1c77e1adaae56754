// Package seed provisions the baseline records the service expects on first
// boot: the built-in admin and super user accounts, the default moderation
// word list, and an optional demo dataset for local development.
package seed

import (
	"time"

	"github.com/google/uuid"
	"github.com/socialshowcase/backend/config"
	"github.com/socialshowcase/backend/model"
	"github.com/socialshowcase/backend/social"
	"github.com/socialshowcase/backend/store"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// defaultSensitiveWords is the initial moderation list. Admins manage the
// live list afterwards; seeding never overwrites a non-empty one.
var defaultSensitiveWords = []string{"傻逼", "妈的", "法轮功", "色情", "赌博", "毒品"}

// Ensure makes the baseline records exist. Safe to run on every boot.
func Ensure(st *store.Store, cfg config.SeedConfig, logger *zap.Logger) error {
	return st.Update(func(snap *model.Snapshot) error {
		if len(snap.SensitiveWords) == 0 {
			snap.SensitiveWords = append(snap.SensitiveWords, defaultSensitiveWords...)
		}

		if _, err := ensureAccount(snap, cfg.AdminPhone, cfg.AdminPassword, "管理员", model.RoleAdmin); err != nil {
			return err
		}
		if _, err := ensureAccount(snap, cfg.SuperPhone, cfg.SuperPassword, "超级用户", model.RoleSuper); err != nil {
			return err
		}

		if cfg.Demo {
			ensureDemo(snap)
		}

		logger.Info("seed ensured",
			zap.Int("users", len(snap.Users)),
			zap.Int("posts", len(snap.Posts)),
			zap.Bool("demo", cfg.Demo))
		return nil
	})
}

func ensureAccount(snap *model.Snapshot, phone, password, nickname string, role model.Role) (*model.User, error) {
	if u := snap.UserByPhone(phone); u != nil {
		return u, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := model.User{
		ID:           uuid.New().String(),
		Phone:        phone,
		Nickname:     nickname,
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	snap.Users = append(snap.Users, u)
	return &snap.Users[len(snap.Users)-1], nil
}

// ensureDemo adds two regular users, a friendship between them, and a few
// posts across all visibility tiers. Skipped once any demo phone exists.
func ensureDemo(snap *model.Snapshot) {
	if snap.UserByPhone("13800000001") != nil {
		return
	}

	now := time.Now()
	mei := model.User{
		ID:        uuid.New().String(),
		Phone:     "13800000001",
		Nickname:  "小美",
		Role:      model.RoleUser,
		Bio:       "爱旅行爱美食",
		CreatedAt: now,
	}
	qiang := model.User{
		ID:        uuid.New().String(),
		Phone:     "13800000002",
		Nickname:  "阿强",
		Role:      model.RoleUser,
		Bio:       "跑步与电影",
		CreatedAt: now,
	}
	snap.Users = append(snap.Users, mei, qiang)

	snap.Friendships = append(snap.Friendships, model.Friendship{
		ID:        social.PairKey(mei.ID, qiang.ID),
		UserA:     mei.ID,
		UserB:     qiang.ID,
		CreatedAt: now,
	})

	posts := []model.Post{
		{
			ID:         uuid.New().String(),
			AuthorID:   mei.ID,
			Title:      "周末去了趟杭州",
			Text:       "西湖边走了一整天，美食也没少吃，下次还想去。",
			Tags:       []string{"旅行", "美食"},
			Visibility: model.VisibilityPublic,
			CreatedAt:  now.Add(-48 * time.Hour),
			UpdatedAt:  now.Add(-48 * time.Hour),
		},
		{
			ID:         uuid.New().String(),
			AuthorID:   mei.ID,
			Title:      "只给朋友看的碎碎念",
			Text:       "今天的日常，记录一下。",
			Tags:       []string{"日常"},
			Visibility: model.VisibilityFriends,
			CreatedAt:  now.Add(-24 * time.Hour),
			UpdatedAt:  now.Add(-24 * time.Hour),
		},
		{
			ID:         uuid.New().String(),
			AuthorID:   qiang.ID,
			Title:      "晨跑打卡",
			Text:       "五公里，配速还行。坚持运动。",
			Tags:       []string{"运动", "日常"},
			Visibility: model.VisibilityPublic,
			CreatedAt:  now.Add(-12 * time.Hour),
			UpdatedAt:  now.Add(-12 * time.Hour),
		},
		{
			ID:         uuid.New().String(),
			AuthorID:   qiang.ID,
			Title:      "私人备忘",
			Text:       "自己可见的草稿。",
			Tags:       []string{"日常"},
			Visibility: model.VisibilityPrivate,
			CreatedAt:  now.Add(-6 * time.Hour),
			UpdatedAt:  now.Add(-6 * time.Hour),
		},
	}
	snap.Posts = append(snap.Posts, posts...)

	snap.Comments = append(snap.Comments, model.Comment{
		ID:        uuid.New().String(),
		PostID:    posts[0].ID,
		AuthorID:  qiang.ID,
		Content:   "照片拍得真好！",
		CreatedAt: now.Add(-40 * time.Hour),
	})

	snap.Ratings = append(snap.Ratings,
		model.Rating{
			ID:        posts[0].ID + "_" + qiang.ID,
			PostID:    posts[0].ID,
			UserID:    qiang.ID,
			Score:     5,
			CreatedAt: now.Add(-40 * time.Hour),
			UpdatedAt: now.Add(-40 * time.Hour),
		},
		model.Rating{
			ID:        posts[2].ID + "_" + mei.ID,
			PostID:    posts[2].ID,
			UserID:    mei.ID,
			Score:     4,
			CreatedAt: now.Add(-10 * time.Hour),
			UpdatedAt: now.Add(-10 * time.Hour),
		},
	)
}
