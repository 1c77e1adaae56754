package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/socialshowcase/backend/audit"
	"github.com/socialshowcase/backend/cache"
	"github.com/socialshowcase/backend/config"
	"github.com/socialshowcase/backend/content"
	mw "github.com/socialshowcase/backend/middleware"
	"github.com/socialshowcase/backend/model"
	"github.com/socialshowcase/backend/social"
	"github.com/socialshowcase/backend/store"
	"github.com/socialshowcase/backend/store/memory"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testSecurity = config.SecurityConfig{
	JWTSecret:  "test_secret",
	JWTTTL:     3600000000000, // 1h
	SMSCodeTTL: 600000000000,  // 10m
}

var testSeed = config.SeedConfig{
	SuperPhone:   "18800000000",
	SuperSMSCode: "000000",
}

type testServer struct {
	router *gin.Engine
	store  *store.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.New(memory.New())
	require.NoError(t, st.Init())

	logger := zap.NewNop()
	c, err := cache.NewCache(config.CacheConfig{})
	require.NoError(t, err)
	auditSvc, err := audit.New(nil, logger)
	require.NoError(t, err)

	contentSvc := content.NewService(st, logger)
	socialSvc := social.NewService(st, logger)

	authH := NewAuthHandler(st, c, auditSvc, testSecurity, testSeed)
	postsH := NewPostsHandler(contentSvc, auditSvc)
	commentsH := NewCommentsHandler(contentSvc)
	ratingsH := NewRatingsHandler(contentSvc)
	friendsH := NewFriendsHandler(socialSvc)
	moderationH := NewModerationHandler(st, auditSvc)

	authMW := mw.Auth(testSecurity, c)

	r := gin.New()
	api := r.Group("/api")
	{
		api.POST("/auth/sms/send", authH.SendSMS)
		api.POST("/auth/register", authH.Register)
		api.POST("/auth/login/sms", authH.LoginSMS)
		api.POST("/auth/login/password", authH.LoginPassword)
		api.GET("/me", authMW, authH.Me)

		postsG := api.Group("/posts", authMW)
		postsG.GET("", postsH.List)
		postsG.POST("", postsH.Create)
		postsG.GET("/:id", postsH.Get)
		postsG.DELETE("/:id", postsH.Delete)
		postsG.POST("/:id/comments", commentsH.Create)
		postsG.POST("/:id/rating", ratingsH.Rate)

		friendsG := api.Group("/friends", authMW)
		friendsG.POST("/request", friendsH.Request)
		friendsG.GET("/requests", friendsH.Requests)
		friendsG.POST("/requests/:id/accept", friendsH.Accept)

		api.POST("/moderation/check", authMW, moderationH.Check)
	}

	return &testServer{router: r, store: st}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

// login registers a fresh account through the SMS flow and returns its token
// and user id.
func (s *testServer) login(t *testing.T, phone string) (token, userID string) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/auth/sms/send", "", gin.H{"phone": phone})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var sms struct {
		Code string `json:"code"`
	}
	decode(t, w, &sms)

	w = s.do(t, http.MethodPost, "/api/auth/login/sms", "", gin.H{"phone": phone, "code": sms.Code})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Token string     `json:"token"`
		User  model.User `json:"user"`
	}
	decode(t, w, &resp)
	return resp.Token, resp.User.ID
}
