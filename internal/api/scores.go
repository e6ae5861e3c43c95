package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nameless0l/hackverse-preselection/internal/model"
	"github.com/Nameless0l/hackverse-preselection/internal/store"
)

// validateScore 单项分值必须是 [0, 上限] 内的数值
// 非数值 JSON 在绑定阶段即被拒绝，这里只管范围
func (h *Handler) validateScore(v float64) error {
	max := h.cfg.Event.MaxScore
	if v < 0 || v > max {
		return fmt.Errorf("分值必须在 0 到 %g 之间", max)
	}
	return nil
}

// UpdateCollective 更新集体评分（可一次提交多个维度），返回重算后的记录
// PATCH /api/teams/:name/collective
func (h *Handler) UpdateCollective(c *gin.Context) {
	name := c.Param("name")

	var patch map[string]float64
	if err := c.BindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的评分数据"})
		return
	}
	if len(patch) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "评分数据为空"})
		return
	}

	// 先整体校验，避免部分写入
	for criterion, value := range patch {
		if _, ok := (&model.CollectiveScores{}).Get(criterion); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "未知的评分维度: " + criterion})
			return
		}
		if err := h.validateScore(value); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	var rec *model.EvaluationRecord
	for criterion, value := range patch {
		updated, err := h.store.SetCollectiveScore(name, criterion, value)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, store.ErrTeamNotFound) {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		rec = updated
	}

	c.JSON(http.StatusOK, gin.H{"evaluation": rec})
}

// individualPatch 个人评分更新请求（两项均可选）
type individualPatch struct {
	WebProgramming *float64 `json:"webProgramming"`
	Algorithmic    *float64 `json:"algorithmic"`
}

// UpdateIndividual 更新某成员的个人评分，返回重算后的记录
// PATCH /api/teams/:name/individual/:member
func (h *Handler) UpdateIndividual(c *gin.Context) {
	name := c.Param("name")
	member := c.Param("member")

	var patch individualPatch
	if err := c.BindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的评分数据"})
		return
	}
	if patch.WebProgramming == nil && patch.Algorithmic == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "评分数据为空"})
		return
	}

	for _, p := range []*float64{patch.WebProgramming, patch.Algorithmic} {
		if p != nil {
			if err := h.validateScore(*p); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}
	}

	var rec *model.EvaluationRecord
	apply := func(exercise string, value float64) bool {
		updated, err := h.store.SetIndividualScore(name, member, exercise, value)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, store.ErrTeamNotFound) {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return false
		}
		rec = updated
		return true
	}

	if patch.WebProgramming != nil && !apply(model.ExerciseWebProgramming, *patch.WebProgramming) {
		return
	}
	if patch.Algorithmic != nil && !apply(model.ExerciseAlgorithmic, *patch.Algorithmic) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"evaluation": rec})
}
