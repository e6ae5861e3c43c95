package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetSettings 获取会话设置
// GET /api/settings
func (h *Handler) GetSettings(c *gin.Context) {
	s := h.store.Settings()

	c.JSON(http.StatusOK, gin.H{
		"qualifierCount": s.QualifierCount,
		"chartTopN":      s.ChartTopN,
	})
}

// UpdateSettings 更新会话设置（只改提交的字段）
// PATCH /api/settings
func (h *Handler) UpdateSettings(c *gin.Context) {
	var patch map[string]interface{}
	if err := c.BindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的设置数据"})
		return
	}
	if len(patch) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "设置数据为空"})
		return
	}

	h.store.UpdateSettings(patch)

	s := h.store.Settings()
	c.JSON(http.StatusOK, gin.H{
		"qualifierCount": s.QualifierCount,
		"chartTopN":      s.ChartTopN,
	})
}
