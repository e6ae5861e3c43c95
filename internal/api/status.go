package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	teamCount := h.store.Count()

	c.JSON(http.StatusOK, gin.H{
		"initialized":    teamCount > 0,
		"event":          h.cfg.Event.Name,
		"maxScore":       h.cfg.Event.MaxScore,
		"teamCount":      teamCount,
		"scoredCount":    h.store.ScoredCount(),
		"qualifierCount": h.store.Settings().QualifierCount,
	})
}

// GetHistory 获取最近的操作历史
// GET /api/history
func (h *Handler) GetHistory(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusOK, gin.H{"items": []struct{}{}})
		return
	}

	items, err := h.history.Recent(50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}
