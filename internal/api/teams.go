package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Nameless0l/hackverse-preselection/internal/model"
)

// teamView 队伍及其评分记录的组合视图
type teamView struct {
	Team       *model.Team             `json:"team"`
	Evaluation *model.EvaluationRecord `json:"evaluation"`
}

// ListTeams 查询队伍列表（可按关键字过滤队名或成员名）
// GET /api/teams?keyword=
func (h *Handler) ListTeams(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("keyword"))

	teams := h.store.Search(keyword)
	items := make([]teamView, 0, len(teams))
	for _, t := range teams {
		rec, err := h.store.Evaluation(t.Name)
		if err != nil {
			rec = model.NewEvaluationRecord()
		}
		items = append(items, teamView{Team: t, Evaluation: rec})
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": h.store.Count(),
	})
}

// GetTeam 获取队伍详情
// GET /api/teams/:name
func (h *Handler) GetTeam(c *gin.Context) {
	name := c.Param("name")

	team, err := h.store.Team(name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "队伍不存在"})
		return
	}
	rec, err := h.store.Evaluation(name)
	if err != nil {
		rec = model.NewEvaluationRecord()
	}

	c.JSON(http.StatusOK, teamView{Team: team, Evaluation: rec})
}
