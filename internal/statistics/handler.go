package statistics

import (
	"log"
	"net/http"

	"unlockbot/internal/httputil"
	"unlockbot/pkg/storage"

	"github.com/gin-gonic/gin"
)

// Handler обслуживает HTTP-запросы, связанные со статистикой.
type Handler struct {
	Counter storage.Counter
}

// NewHandler создаёт новый обработчик статистики.
func NewHandler(counter storage.Counter) *Handler {
	return &Handler{Counter: counter}
}

// Collect возвращает число постов, профилей и премиум-участников.
func (h *Handler) Collect(c *gin.Context) {
	stat, err := storage.CollectStatistics(c.Request.Context(), h.Counter)
	if err != nil {
		log.Printf("[HANDLER ERROR] не удалось посчитать статистику: %v", err)
		httputil.RespondError(c, http.StatusInternalServerError, "не удалось посчитать статистику")
		return
	}
	c.JSON(http.StatusOK, stat)
}
