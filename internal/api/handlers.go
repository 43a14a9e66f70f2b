package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wwntg/news-harvester/internal/domain"
	"github.com/wwntg/news-harvester/internal/logger"
)

func NewHandler(news NewsService, log logger.Logger) *Handler {
	return &Handler{news: news, log: logger.Ensure(log)}
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// GetNews serves one source's snapshot. The source path segment is a source
// name (UA, world) or one of its labels.
func (h *Handler) GetNews(c *gin.Context) {
	id, err := domain.Resolve(c.Param("source"))
	if err != nil {
		c.JSON(http.StatusNotFound, errorResponse{Error: "source not found"})
		return
	}

	data, err := h.news.GetNewsData(c.Request.Context(), id)
	if err != nil {
		h.log.ErrorObj("news read failed", "api_error", map[string]any{
			"source": id.Name(),
			"error":  err.Error(),
		})
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrSourceNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, errorResponse{Error: "news unavailable"})
		return
	}

	c.JSON(http.StatusOK, data)
}

func (h *Handler) ListNews(c *gin.Context) {
	snaps, err := h.news.All(c.Request.Context())
	if err != nil {
		h.log.ErrorObj("news list failed", "api_error", err.Error())
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "news unavailable"})
		return
	}
	c.JSON(http.StatusOK, allNewsResponse{Count: len(snaps), Snapshots: snaps})
}
