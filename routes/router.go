package routes

import (
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kbboard/backend/config"
	"github.com/kbboard/backend/controllers"
	"github.com/kbboard/backend/middleware"
	"github.com/kbboard/backend/utils"
)

// SetupRouter wires middlewares, the auth delegation proxy, and all resource routes.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Attachment blobs are served straight from the upload dir
	r.Static("/media", cfg.UploadDir)

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	// /auth/* belongs to the external auth service
	mountAuthProxy(r, cfg.AuthServiceURL)

	api := r.Group("")
	api.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	Register(api, db)

	return r
}

// Register attaches every resource route to the given group. The group is
// expected to carry authentication; tests attach their own identity stub.
func Register(api *gin.RouterGroup, db *gorm.DB) {
	userController := controllers.NewUserController(db)
	categoryController := controllers.NewCategoryController(db)
	articleController := controllers.NewArticleController(db)
	commentController := controllers.NewCommentController(db)
	noticeController := controllers.NewNoticeController(db)
	statsController := controllers.NewStatsController(db)

	api.GET("/users", userController.List)
	api.GET("/users/:id", userController.Get)

	api.GET("/categories", categoryController.List)
	api.POST("/categories", categoryController.Create)
	api.GET("/categories/:id", categoryController.Get)
	api.PUT("/categories/:id", categoryController.Update)
	api.PATCH("/categories/:id", categoryController.Update)
	api.DELETE("/categories/:id", categoryController.Delete)

	api.GET("/articles", articleController.List)
	api.POST("/articles", articleController.Create)
	api.GET("/articles/:id", articleController.Get)
	api.PUT("/articles/:id", articleController.Update)
	api.PATCH("/articles/:id", articleController.Update)
	api.DELETE("/articles/:id", articleController.Delete)
	api.POST("/articles/:id/add_attachment", articleController.AddAttachment)
	api.DELETE("/articles/:id/remove_attachment", articleController.RemoveAttachment)

	api.GET("/comments", commentController.List)
	api.POST("/comments", commentController.Create)
	api.GET("/comments/:id", commentController.Get)
	api.PUT("/comments/:id", commentController.Update)
	api.PATCH("/comments/:id", commentController.Update)
	api.DELETE("/comments/:id", commentController.Delete)

	api.GET("/notices", noticeController.List)
	api.POST("/notices", noticeController.Create)
	api.GET("/notices/:id", noticeController.Get)
	api.PUT("/notices/:id", noticeController.Update)
	api.PATCH("/notices/:id", noticeController.Update)
	api.DELETE("/notices/:id", noticeController.Delete)
	api.POST("/notices/:id/add_attachment", noticeController.AddAttachment)
	api.DELETE("/notices/:id/remove_attachment", noticeController.RemoveAttachment)

	api.GET("/stats", statsController.GetStats)
}

func mountAuthProxy(r *gin.Engine, upstream string) {
	target, err := url.Parse(upstream)
	if err != nil {
		utils.Sugar.Errorf("invalid auth service URL %q: %v", upstream, err)
		return
	}
	proxy := httputil.NewSingleHostReverseProxy(target)
	r.Any("/auth/*path", gin.WrapH(proxy))
}
