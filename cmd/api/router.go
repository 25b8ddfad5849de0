package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobtrack-backend/internal/application/delivery"
)

func SetupRoutes(r *gin.Engine, appHandler *delivery.ApplicationHandler) {
	api := r.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Application routes
		apps := api.Group("/applications")
		{
			apps.GET("", appHandler.ListApplications)
			apps.GET("/:id", appHandler.GetApplication)
			apps.PATCH("/:id/status", appHandler.UpdateStatus)
		}

		// Pipeline triggers
		api.POST("/sync", appHandler.TriggerSync)
		api.POST("/process", appHandler.ProcessMessage)
		api.POST("/process/batch", appHandler.ProcessBatch)

		// FCM device registration
		devices := api.Group("/devices")
		{
			devices.POST("", appHandler.RegisterDevice)
			devices.DELETE("/:token", appHandler.UnregisterDevice)
		}
	}
}
