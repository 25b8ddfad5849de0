package api

import (
	"github.com/gin-gonic/gin"

	"jobtrack-backend/internal/application/delivery"
)

type Handler struct {
	appHandler *delivery.ApplicationHandler
}

func NewHandler(appHandler *delivery.ApplicationHandler) *Handler {
	return &Handler{appHandler: appHandler}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	SetupRoutes(r, h.appHandler)

	return r.Run(addr)
}
