package statistics

import (
	"log"

	"unlockbot/internal/middleware"
	"unlockbot/pkg/storage"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.RouterGroup, counter storage.Counter, token string) {
	handler := NewHandler(counter)
	r.GET("", middleware.AuthRequired(token), handler.Collect)

	log.Printf("[ROUTER] Statistics routes registered")
}
