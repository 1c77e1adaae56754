package rest

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/socialshowcase/backend/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *testServer) createPost(t *testing.T, token string, body gin.H) model.Post {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/posts", token, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var post model.Post
	decode(t, w, &post)
	return post
}

func TestCreateAndGetPost(t *testing.T) {
	s := newTestServer(t)
	token, userID := s.login(t, "13900000010")

	post := s.createPost(t, token, gin.H{
		"title":      "周末爬山",
		"text":       "风景不错",
		"tags":       []string{"旅行"},
		"visibility": "public",
	})
	assert.Equal(t, userID, post.AuthorID)
	assert.Equal(t, model.VisibilityPublic, post.Visibility)

	w := s.do(t, http.MethodGet, "/api/posts/"+post.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got model.Post
	decode(t, w, &got)
	assert.Equal(t, post.ID, got.ID)
}

func TestCreatePostSensitiveWordRejected(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.login(t, "13900000011")

	require.NoError(t, s.store.Update(func(snap *model.Snapshot) error {
		snap.SensitiveWords = []string{"违禁词"}
		return nil
	}))

	w := s.do(t, http.MethodPost, "/api/posts", token, gin.H{
		"title": "标题",
		"text":  "正文包含违禁词内容",
	})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	var resp struct {
		Hits []string `json:"hits"`
	}
	decode(t, w, &resp)
	assert.Equal(t, []string{"违禁词"}, resp.Hits)
}

func TestFriendsOnlyPostHiddenFromStrangers(t *testing.T) {
	s := newTestServer(t)
	authorToken, authorID := s.login(t, "13900000012")
	strangerToken, strangerID := s.login(t, "13900000013")

	post := s.createPost(t, authorToken, gin.H{
		"title":      "仅好友可见",
		"text":       "内部内容",
		"visibility": "friends",
	})

	w := s.do(t, http.MethodGet, "/api/posts/"+post.ID, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Become friends through the request flow, then visibility opens up.
	w = s.do(t, http.MethodPost, "/api/friends/request", strangerToken, gin.H{"toUserId": authorID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/friends/requests", authorToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var reqs struct {
		Items []model.FriendRequest `json:"items"`
	}
	decode(t, w, &reqs)
	require.Len(t, reqs.Items, 1)
	assert.Equal(t, strangerID, reqs.Items[0].FromUserID)

	w = s.do(t, http.MethodPost, "/api/friends/requests/"+reqs.Items[0].ID+"/accept", authorToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/posts/"+post.ID, strangerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestListFiltersAndPaging(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.login(t, "13900000014")

	s.createPost(t, token, gin.H{"title": "海边日落", "text": "美", "tags": []string{"旅行"}})
	s.createPost(t, token, gin.H{"title": "算法笔记", "text": "复习", "tags": []string{"学习"}})
	s.createPost(t, token, gin.H{"title": "晚饭", "text": "好吃", "tags": []string{"美食"}})

	w := s.do(t, http.MethodGet, "/api/posts?tag=旅行", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Items []model.Post `json:"items"`
		Total int          `json:"total"`
	}
	decode(t, w, &page)
	assert.Equal(t, 1, page.Total)

	w = s.do(t, http.MethodGet, "/api/posts?page=1&pageSize=2", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &page)
	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.Items, 2)
}

func TestDeletePostByAuthorOnly(t *testing.T) {
	s := newTestServer(t)
	authorToken, _ := s.login(t, "13900000015")
	otherToken, _ := s.login(t, "13900000016")

	post := s.createPost(t, authorToken, gin.H{"title": "待删除", "text": "x"})

	w := s.do(t, http.MethodDelete, "/api/posts/"+post.ID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodDelete, "/api/posts/"+post.ID, authorToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/posts/"+post.ID, authorToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCommentAndRating(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.login(t, "13900000017")
	post := s.createPost(t, token, gin.H{"title": "求评价", "text": "欢迎评论"})

	w := s.do(t, http.MethodPost, "/api/posts/"+post.ID+"/comments", token, gin.H{"content": "写得好"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var comment model.Comment
	decode(t, w, &comment)
	assert.Equal(t, "写得好", comment.Content)

	w = s.do(t, http.MethodPost, "/api/posts/"+post.ID+"/rating", token, gin.H{"score": 5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/posts/"+post.ID+"/rating", token, gin.H{"score": 9})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestModerationCheckEndpoint(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.login(t, "13900000018")

	require.NoError(t, s.store.Update(func(snap *model.Snapshot) error {
		snap.SensitiveWords = []string{"赌博"}
		return nil
	}))

	w := s.do(t, http.MethodPost, "/api/moderation/check", token, gin.H{"text": "远离赌博"})
	require.Equal(t, http.StatusOK, w.Code)
	var result struct {
		Hits       []string `json:"hits"`
		MaskedText string   `json:"maskedText"`
		Allowed    bool     `json:"allowed"`
	}
	decode(t, w, &result)
	assert.Equal(t, []string{"赌博"}, result.Hits)
	assert.Equal(t, "远离**", result.MaskedText)
	assert.False(t, result.Allowed)
}
