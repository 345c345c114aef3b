package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/mindcanvas/mindcanvas-backend/internal/handlers"
	"github.com/mindcanvas/mindcanvas-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName     string
	AuthHandler     *handlers.AuthHandler
	AuthMiddleware  *middleware.AuthMiddleware
	UserHandler     *handlers.UserHandler
	StudyMapHandler *handlers.StudyMapHandler
	NodeHandler     *handlers.NodeHandler
	RelationHandler *handlers.RelationHandler
	FolderHandler   *handlers.FolderHandler
	DeadlineHandler *handlers.DeadlineHandler
	ViewportHandler *handlers.ViewportHandler
	RealtimeHandler *handlers.RealtimeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware(cfg.ServiceName))

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// public
	router.GET("/healthcheck", handlers.HealthCheck)
	auth := router.Group("/api/auth")
	{
		auth.POST("/register", cfg.AuthHandler.Register)
		auth.POST("/login", cfg.AuthHandler.Login)
		auth.POST("/refresh", cfg.AuthHandler.Refresh)
	}

	// protected
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	{
		api.POST("/auth/logout", cfg.AuthHandler.Logout)

		api.GET("/user", cfg.UserHandler.Me)
		api.PATCH("/user", cfg.UserHandler.UpdateProfile)
		api.POST("/user/onboarding", cfg.UserHandler.CompleteOnboarding)

		api.GET("/maps", cfg.StudyMapHandler.List)
		api.POST("/maps", cfg.StudyMapHandler.Create)
		api.GET("/maps/:mapId", cfg.StudyMapHandler.Get)
		api.PATCH("/maps/:mapId", cfg.StudyMapHandler.Update)
		api.DELETE("/maps/:mapId", cfg.StudyMapHandler.Delete)
		api.GET("/maps/:mapId/snapshot", cfg.StudyMapHandler.Snapshot)

		api.POST("/maps/:mapId/nodes", cfg.NodeHandler.Create)
		api.PATCH("/maps/:mapId/nodes/:nodeId", cfg.NodeHandler.Update)
		api.DELETE("/maps/:mapId/nodes/:nodeId", cfg.NodeHandler.Delete)

		api.GET("/maps/:mapId/relations", cfg.RelationHandler.List)
		api.POST("/maps/:mapId/relations", cfg.RelationHandler.Create)
		api.DELETE("/maps/:mapId/relations/:relationId", cfg.RelationHandler.Delete)

		api.GET("/maps/:mapId/viewport", cfg.ViewportHandler.Get)
		api.PUT("/maps/:mapId/viewport", cfg.ViewportHandler.Save)

		api.GET("/folders", cfg.FolderHandler.List)
		api.POST("/folders", cfg.FolderHandler.Create)
		api.PATCH("/folders/:folderId", cfg.FolderHandler.Update)
		api.DELETE("/folders/:folderId", cfg.FolderHandler.Delete)

		api.GET("/deadlines", cfg.DeadlineHandler.List)
		api.POST("/deadlines", cfg.DeadlineHandler.Create)
		api.PATCH("/deadlines/:deadlineId", cfg.DeadlineHandler.Update)
		api.DELETE("/deadlines/:deadlineId", cfg.DeadlineHandler.Delete)

		api.GET("/ws", cfg.RealtimeHandler.Connect)
	}

	return router
}
