package api

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"aiResume/internal/api/middleware"
	"aiResume/internal/auth"
	"aiResume/internal/config"
	"aiResume/internal/store"
)

// Dependencies 汇总路由注册所需的全部组件，由 cmd/api 组装。
type Dependencies struct {
	Store          *store.Store
	AuthService    *auth.AuthService
	AuthConfig     config.AuthConfig
	Redis          *redis.Client
	Generator      ResumeGenerator
	Queue          TaskEnqueuer
	Storage        PDFStorage
	DownloadTTL    time.Duration
	AllowedOrigins []string
	Logger         *slog.Logger
}

// RegisterRoutes 注册 /v1 下的业务路由。
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	authHandler := NewAuthHandler(deps.Store.Users, deps.AuthService, deps.Redis, deps.AuthConfig)
	profileHandler := NewProfileHandler(deps.Store.Profiles)
	resumeHandler := NewResumeHandler(deps.Store.Resumes, deps.Generator, deps.Queue, deps.Storage, deps.DownloadTTL)
	wsHandler := NewWsHandler(deps.Redis, deps.AuthService, deps.Logger, deps.AllowedOrigins)
	authMiddleware := middleware.AuthMiddleware(deps.AuthService)

	v1 := router.Group("/v1")
	{
		v1.GET("/ws", wsHandler.HandleConnection)
		v1.GET("/sample-resume", SampleResume)

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/logout", authHandler.Logout)
			authGroup.GET("/me", authMiddleware, authHandler.Me)
		}

		profileGroup := v1.Group("/profile")
		profileGroup.Use(authMiddleware)
		{
			profileGroup.GET("", profileHandler.Get)
			profileGroup.POST("", profileHandler.Upsert)
			profileGroup.POST("/skills", profileHandler.AddSkill)
			profileGroup.POST("/experience", profileHandler.AddExperience)
			profileGroup.POST("/education", profileHandler.AddEducation)
		}

		resumeGroup := v1.Group("/resume")
		resumeGroup.Use(authMiddleware)
		{
			resumeGroup.GET("", resumeHandler.List)
			resumeGroup.GET("/latest", resumeHandler.Latest)
			resumeGroup.POST("/generate", resumeHandler.Generate)
			resumeGroup.GET("/:id", resumeHandler.Get)
			resumeGroup.GET("/:id/expertise", resumeHandler.Expertise)
			resumeGroup.GET("/:id/download", resumeHandler.Download)
		}
	}
}
