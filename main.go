package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/socialshowcase/backend/ai"
	apirest "github.com/socialshowcase/backend/api/rest"
	"github.com/socialshowcase/backend/api/sse"
	"github.com/socialshowcase/backend/audit"
	"github.com/socialshowcase/backend/cache"
	"github.com/socialshowcase/backend/config"
	"github.com/socialshowcase/backend/content"
	dbadapter "github.com/socialshowcase/backend/db"
	mw "github.com/socialshowcase/backend/middleware"
	"github.com/socialshowcase/backend/scheduler"
	"github.com/socialshowcase/backend/seed"
	"github.com/socialshowcase/backend/social"
	"github.com/socialshowcase/backend/store"
	"github.com/socialshowcase/backend/video"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logger ----
	var logger *zap.Logger
	var logErr error
	if cfg.Server.Debug {
		logger, logErr = zap.NewDevelopment()
	} else {
		logger, logErr = zap.NewProduction()
	}
	if logErr != nil {
		log.Fatalf("logger: %v", logErr)
	}
	defer logger.Sync()

	// ---- Document store ----
	st, err := store.Open(cfg.Store)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	if err := st.Init(); err != nil {
		log.Fatalf("store init: %v", err)
	}
	logger.Info("store initialized", zap.String("mode", cfg.Store.Mode))

	// ---- Seed ----
	if err := seed.Ensure(st, cfg.Seed, logger); err != nil {
		log.Fatalf("seed: %v", err)
	}

	// ---- Audit DB ----
	auditDB, err := dbadapter.Open(cfg.Audit)
	if err != nil {
		log.Fatalf("audit db: %v", err)
	}
	auditSvc, err := audit.New(auditDB, logger)
	if err != nil {
		log.Fatalf("audit: %v", err)
	}
	defer auditSvc.Stop(nil)

	// ---- Cache / PubSub ----
	c, err := cache.NewCache(cfg.Cache)
	if err != nil {
		log.Fatalf("cache: %v", err)
	}
	pubsub, err := cache.NewPubSub(cfg.Cache)
	if err != nil {
		log.Fatalf("pubsub: %v", err)
	}
	logger.Info("cache initialized", zap.Bool("redis", cfg.Cache.RedisAddr != ""))

	// ---- Services ----
	contentSvc := content.NewService(st, logger)
	socialSvc := social.NewService(st, logger)

	var gen ai.TextGenerator
	if dc := ai.NewDeepSeekClient(cfg.AI); dc != nil {
		gen = dc
		logger.Info("external text generator enabled", zap.String("model", cfg.AI.Model))
	} else {
		logger.Info("no AI api key configured, using local heuristics")
	}
	aiEngine := ai.NewEngine(st, gen, pubsub, logger)
	videoEngine := video.NewEngine(st, pubsub, cfg.Video.StepDelay, logger)

	// ---- Scheduler ----
	sched := scheduler.New(logger)
	defer sched.Stop()
	if cfg.AI.Retention > 0 {
		sched.AddTicker("task_retention", cfg.AI.Retention/4, func() {
			if err := aiEngine.PruneTerminal(cfg.AI.Retention); err != nil {
				logger.Warn("ai task prune failed", zap.Error(err))
			}
			if err := videoEngine.PruneTerminal(cfg.AI.Retention); err != nil {
				logger.Warn("video job prune failed", zap.Error(err))
			}
		})
	}

	// ---- Gin HTTP server ----
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(logger), mw.Recovery(logger))
	r.Use(mw.RateLimit(rate.Limit(cfg.Security.RateLimitRPS), cfg.Security.RateLimitBurst))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	// ---- REST handlers ----
	authH := apirest.NewAuthHandler(st, c, auditSvc, cfg.Security, cfg.Seed)
	usersH := apirest.NewUsersHandler(st)
	postsH := apirest.NewPostsHandler(contentSvc, auditSvc)
	commentsH := apirest.NewCommentsHandler(contentSvc)
	ratingsH := apirest.NewRatingsHandler(contentSvc)
	friendsH := apirest.NewFriendsHandler(socialSvc)
	moderationH := apirest.NewModerationHandler(st, auditSvc)
	aiH := apirest.NewAIHandler(aiEngine)
	videoH := apirest.NewVideoHandler(videoEngine)
	filesH := apirest.NewFilesHandler(st, cfg.Upload.Dir, logger)
	adminH := apirest.NewAdminHandler(st, contentSvc, auditSvc)

	authMW := mw.Auth(cfg.Security, c)

	api := r.Group("/api")
	{
		authG := api.Group("/auth")
		authG.POST("/sms/send", authH.SendSMS)
		authG.POST("/register", authH.Register)
		authG.POST("/login/sms", authH.LoginSMS)
		authG.POST("/login/password", authH.LoginPassword)
		authG.POST("/password/reset", authH.ResetPassword)
		authG.POST("/logout", authMW, authH.Logout)

		api.GET("/me", authMW, authH.Me)
		api.PUT("/me", authMW, authH.UpdateMe)

		usersG := api.Group("/users", authMW)
		usersG.GET("", usersH.List)
		usersG.GET("/:id", usersH.Get)

		postsG := api.Group("/posts", authMW)
		postsG.GET("", postsH.List)
		postsG.POST("", postsH.Create)
		postsG.GET("/:id", postsH.Get)
		postsG.PUT("/:id", postsH.Update)
		postsG.DELETE("/:id", postsH.Delete)
		postsG.GET("/:id/comments", commentsH.List)
		postsG.POST("/:id/comments", commentsH.Create)
		postsG.POST("/:id/rating", ratingsH.Rate)
		postsG.GET("/:id/rating/me", ratingsH.Mine)
		postsG.GET("/:id/rating/summary", ratingsH.Summary)

		api.GET("/tags", authMW, postsH.Tags)
		api.DELETE("/comments/:id", authMW, commentsH.Delete)

		friendsG := api.Group("/friends", authMW)
		friendsG.GET("", friendsH.List)
		friendsG.POST("/request", friendsH.Request)
		friendsG.GET("/requests", friendsH.Requests)
		friendsG.POST("/requests/:id/accept", friendsH.Accept)
		friendsG.POST("/requests/:id/reject", friendsH.Reject)
		friendsG.DELETE("/:id", friendsH.Remove)

		moderationG := api.Group("/moderation", authMW)
		moderationG.GET("/words", moderationH.Words)
		moderationG.POST("/check", moderationH.Check)

		aiG := api.Group("/ai", authMW)
		aiG.POST("/process", aiH.Process)
		aiG.GET("/task/:id", aiH.Task)

		videoG := api.Group("/video", authMW)
		videoG.POST("/job/create", videoH.CreateJob)
		videoG.GET("/job/status", videoH.JobStatus)

		api.POST("/upload", authMW, filesH.Upload)

		adminG := api.Group("/admin", authMW, mw.AdminOnly())
		adminG.GET("/users", adminH.ListUsers)
		adminG.DELETE("/users/:id", adminH.DeleteUser)
		adminG.GET("/posts", adminH.ListPosts)
		adminG.DELETE("/posts/:id", adminH.DeletePost)
		adminG.GET("/stats", adminH.Stats)
		adminG.GET("/audit", adminH.AuditLogs)
		adminG.POST("/moderation/words", moderationH.AddWord)
		adminG.DELETE("/moderation/words/:word", moderationH.RemoveWord)
	}

	r.GET("/files/:id", filesH.Serve)

	// ---- SSE ----
	sseH := sse.NewHandler(pubsub, c, cfg.Security, logger)
	r.GET("/api/events/jobs", sseH.ServeJobs)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
