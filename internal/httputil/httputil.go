package httputil

import "github.com/gin-gonic/gin"

// RespondError отвечает JSON-ошибкой {"error": msg} и прекращает обработку запроса.
func RespondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// RespondText отвечает простым текстом. Используется для страниц, которые открывают посетители в браузере.
func RespondText(c *gin.Context, status int, msg string) {
	c.Abort()
	c.String(status, msg)
}
