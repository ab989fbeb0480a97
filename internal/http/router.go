package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(handler *Handler, authMiddleware gin.HandlerFunc, env string) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"*"},
		ExposeHeaders:   []string{"Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	protected := router.Group("/api/v1")
	protected.Use(authMiddleware)
	{
		protected.POST("/appeals", handler.createAppeal)
		protected.GET("/appeals", handler.listMyAppeals)
		protected.GET("/appeals/admin/all", handler.listAllAppeals)
		protected.GET("/appeals/admin/statistics", handler.appealStatistics)
		protected.GET("/appeals/:id", handler.getAppeal)
		protected.PUT("/appeals/:id/status", handler.updateAppealStatus)

		protected.GET("/notifications", handler.listNotifications)
		protected.PUT("/notifications/read-all", handler.markAllNotificationsRead)
		protected.PUT("/notifications/:id/read", handler.markNotificationRead)
	}

	return router
}
