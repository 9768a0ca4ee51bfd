package post

import (
	"context"
	"errors"
	"log"
	"net/http"

	"unlockbot/internal/httputil"
	"unlockbot/models"
	"unlockbot/pkg/storage"
	"unlockbot/pkg/unlockpage"

	"github.com/gin-gonic/gin"
)

// Тексты ответов для посетителей страницы.
const (
	notFoundText = "পোস্ট পাওয়া যায়নি!"
	failureText  = "সার্ভারে সমস্যা হয়েছে, পরে চেষ্টা করুন।"
)

// Finder — поиск поста по идентификатору.
type Finder interface {
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
}

// Handler отдаёт публичные страницы постов.
type Handler struct {
	Posts Finder
}

func NewHandler(posts Finder) *Handler {
	return &Handler{Posts: posts}
}

// Show рендерит страницу поста с зоной и порогом, зафиксированными при публикации.
func (h *Handler) Show(c *gin.Context) {
	id := c.Param("id")
	p, err := h.Posts.GetPostByID(c.Request.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		httputil.RespondText(c, http.StatusNotFound, notFoundText)
		return
	}
	if err != nil {
		log.Printf("[HANDLER ERROR] чтение поста %s: %v", id, err)
		httputil.RespondText(c, http.StatusInternalServerError, failureText)
		return
	}

	html, err := unlockpage.Render(*p, p.ZoneID, p.Clicks)
	if err != nil {
		log.Printf("[HANDLER ERROR] рендер поста %s: %v", id, err)
		httputil.RespondText(c, http.StatusInternalServerError, failureText)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
