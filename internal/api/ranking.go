package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nameless0l/hackverse-preselection/internal/ranking"
)

// buildRanking 基于当前评分状态生成排行榜
func (h *Handler) buildRanking() []ranking.Entry {
	_, evals := h.store.EvaluationsSnapshot()
	return ranking.Build(h.store.Teams(), evals)
}

// GetRanking 获取排行榜
// GET /api/ranking
func (h *Handler) GetRanking(c *gin.Context) {
	entries := h.buildRanking()

	c.JSON(http.StatusOK, gin.H{
		"entries":        entries,
		"qualifierCount": h.store.Settings().QualifierCount,
	})
}

// chartBar 最终得分图表的单个条目
type chartBar struct {
	Team       string  `json:"team"`
	FinalScore float64 `json:"finalScore"`
}

// comparisonBar 集体/个人对比图表的单个条目
type comparisonBar struct {
	Team              string  `json:"team"`
	CollectiveScore   float64 `json:"collectiveScore"`
	IndividualAverage float64 `json:"individualAverage"`
}

// GetCharts 获取两张对比图的数据（默认各取前 15 名）
// GET /api/ranking/charts
func (h *Handler) GetCharts(c *gin.Context) {
	entries := ranking.Top(h.buildRanking(), h.store.Settings().ChartTopN)

	topFinal := make([]chartBar, 0, len(entries))
	comparison := make([]comparisonBar, 0, len(entries))
	for _, e := range entries {
		topFinal = append(topFinal, chartBar{Team: e.Team, FinalScore: e.FinalScore})
		comparison = append(comparison, comparisonBar{
			Team:              e.Team,
			CollectiveScore:   e.CollectiveScore,
			IndividualAverage: e.IndividualAverage,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"topFinal":   topFinal,
		"comparison": comparison,
	})
}
