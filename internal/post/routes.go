package post

import (
	"log"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.RouterGroup, posts Finder) {
	handler := NewHandler(posts)
	r.GET("/:id", handler.Show)

	log.Printf("[ROUTER] Post routes registered")
}
