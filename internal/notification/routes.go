package notification

import (
	"go-hris-workflow/internal/authz"
	"go-hris-workflow/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, verifier authz.Verifier) {
	events := r.Group("/requests/events")
	events.Use(middleware.Authenticate(verifier))
	{
		events.GET("/stream", handler.Stream)
		events.GET("/ws", handler.WebSocket)
	}
}
