package rest

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/socialshowcase/backend/audit"
	"github.com/socialshowcase/backend/cache"
	"github.com/socialshowcase/backend/config"
	mw "github.com/socialshowcase/backend/middleware"
	"github.com/socialshowcase/backend/model"
	"github.com/socialshowcase/backend/store"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles SMS-code and password authentication.
type AuthHandler struct {
	store *store.Store
	cache cache.Cache
	audit *audit.Service
	sec   config.SecurityConfig
	seed  config.SeedConfig
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(st *store.Store, c cache.Cache, a *audit.Service, sec config.SecurityConfig, seed config.SeedConfig) *AuthHandler {
	return &AuthHandler{store: st, cache: c, audit: a, sec: sec, seed: seed}
}

type smsSendRequest struct {
	Phone string `json:"phone" binding:"required,len=11"`
}

// SendSMS handles POST /api/auth/sms/send. No SMS provider is wired; the
// code is stored in the cache and echoed back so demo clients can log in.
func (h *AuthHandler) SendSMS(c *gin.Context) {
	var req smsSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	code := h.seed.SuperSMSCode
	if req.Phone != h.seed.SuperPhone {
		n, err := rand.Int(rand.Reader, big.NewInt(1000000))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		code = fmt.Sprintf("%06d", n.Int64())
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.cache.Set(ctx, "sms:"+req.Phone, code, h.sec.SMSCodeTTL); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": code, "expiresIn": int(h.sec.SMSCodeTTL.Seconds())})
}

// verifySMS checks and consumes the cached code for the phone.
func (h *AuthHandler) verifySMS(c *gin.Context, phone, code string) bool {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	stored, err := h.cache.Get(ctx, "sms:"+phone)
	if err != nil || stored != code {
		return false
	}
	_ = h.cache.Del(ctx, "sms:"+phone)
	return true
}

type registerRequest struct {
	Phone    string `json:"phone" binding:"required,len=11"`
	Code     string `json:"code" binding:"required"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.verifySMS(c, req.Phone, req.Code) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid sms code"})
		return
	}

	user, err := h.createUser(req.Phone, req.Nickname, req.Password)
	if err != nil {
		if err == errPhoneTaken {
			c.JSON(http.StatusConflict, gin.H{"error": "phone already registered"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	h.audit.Log(audit.Entry{
		TraceID: mw.GetTraceID(c),
		UserID:  user.ID,
		Role:    string(user.Role),
		Action:  "auth.register",
		IP:      c.ClientIP(),
	})
	h.issueSession(c, user)
}

type loginSMSRequest struct {
	Phone string `json:"phone" binding:"required,len=11"`
	Code  string `json:"code" binding:"required"`
}

// LoginSMS handles POST /api/auth/login/sms.
// First login with an unknown phone auto-registers the account.
func (h *AuthHandler) LoginSMS(c *gin.Context) {
	var req loginSMSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.verifySMS(c, req.Phone, req.Code) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid sms code"})
		return
	}

	var user model.User
	found := false
	if err := h.store.View(func(snap *model.Snapshot) error {
		if u := snap.UserByPhone(req.Phone); u != nil {
			user = *u
			found = true
		}
		return nil
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if !found {
		created, err := h.createUser(req.Phone, "", "")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		user = created
	}

	h.audit.Log(audit.Entry{
		TraceID: mw.GetTraceID(c),
		UserID:  user.ID,
		Role:    string(user.Role),
		Action:  "auth.login_sms",
		IP:      c.ClientIP(),
	})
	h.issueSession(c, user)
}

type loginPasswordRequest struct {
	Phone    string `json:"phone" binding:"required,len=11"`
	Password string `json:"password" binding:"required"`
}

// LoginPassword handles POST /api/auth/login/password.
func (h *AuthHandler) LoginPassword(c *gin.Context) {
	var req loginPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user model.User
	found := false
	if err := h.store.View(func(snap *model.Snapshot) error {
		if u := snap.UserByPhone(req.Phone); u != nil {
			user = *u
			found = true
		}
		return nil
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if !found || user.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	h.audit.Log(audit.Entry{
		TraceID: mw.GetTraceID(c),
		UserID:  user.ID,
		Role:    string(user.Role),
		Action:  "auth.login_password",
		IP:      c.ClientIP(),
	})
	h.issueSession(c, user)
}

type resetPasswordRequest struct {
	Phone       string `json:"phone" binding:"required,len=11"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6,max=64"`
}

// ResetPassword handles POST /api/auth/password/reset.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.verifySMS(c, req.Phone, req.Code) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid sms code"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	var userID string
	err = h.store.Update(func(snap *model.Snapshot) error {
		u := snap.UserByPhone(req.Phone)
		if u == nil {
			return errUserNotFound
		}
		u.PasswordHash = string(hash)
		userID = u.ID
		return nil
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	h.audit.Log(audit.Entry{
		TraceID: mw.GetTraceID(c),
		UserID:  userID,
		Action:  "auth.password_reset",
		IP:      c.ClientIP(),
	})
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	tokenStr := strings.TrimPrefix(header, "Bearer ")
	if tokenStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing token"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	_ = h.cache.Del(ctx, "session:"+tokenStr)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me handles GET /api/me.
func (h *AuthHandler) Me(c *gin.Context) {
	userID := mw.GetUserID(c)
	var user model.User
	found := false
	if err := h.store.View(func(snap *model.Snapshot) error {
		if u := snap.User(userID); u != nil {
			user = u.Sanitized()
			found = true
		}
		return nil
	}); err != nil || !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateMeRequest struct {
	Nickname  *string `json:"nickname"`
	AvatarURL *string `json:"avatarUrl"`
	Bio       *string `json:"bio"`
}

// UpdateMe handles PUT /api/me.
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	var req updateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := mw.GetUserID(c)
	var user model.User
	err := h.store.Update(func(snap *model.Snapshot) error {
		u := snap.User(userID)
		if u == nil {
			return errUserNotFound
		}
		if req.Nickname != nil && strings.TrimSpace(*req.Nickname) != "" {
			u.Nickname = strings.TrimSpace(*req.Nickname)
		}
		if req.AvatarURL != nil {
			u.AvatarURL = *req.AvatarURL
		}
		if req.Bio != nil {
			u.Bio = *req.Bio
		}
		user = u.Sanitized()
		return nil
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

var (
	errPhoneTaken   = fmt.Errorf("phone already registered")
	errUserNotFound = fmt.Errorf("user not found")
)

// createUser inserts a new account. The configured super-user phone gets the
// elevated role.
func (h *AuthHandler) createUser(phone, nickname, password string) (model.User, error) {
	role := model.RoleUser
	if phone == h.seed.SuperPhone {
		role = model.RoleSuper
	}
	if nickname = strings.TrimSpace(nickname); nickname == "" {
		nickname = "用户" + phone[len(phone)-4:]
	}
	hash := ""
	if password != "" {
		b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return model.User{}, err
		}
		hash = string(b)
	}
	user := model.User{
		ID:           uuid.New().String(),
		Phone:        phone,
		Nickname:     nickname,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	err := h.store.Update(func(snap *model.Snapshot) error {
		if snap.UserByPhone(phone) != nil {
			return errPhoneTaken
		}
		snap.Users = append(snap.Users, user)
		return nil
	})
	if err != nil {
		return model.User{}, err
	}
	return user, nil
}

// issueSession signs a JWT, stores the session, and writes the login reply.
func (h *AuthHandler) issueSession(c *gin.Context, user model.User) {
	token, err := mw.GenerateToken(user.ID, user.Role, h.sec.JWTSecret, h.sec.JWTTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	_ = h.cache.Set(ctx, "session:"+token, user.ID, h.sec.JWTTTL)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user.Sanitized(),
	})
}
