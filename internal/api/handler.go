package api

import (
	"github.com/gin-gonic/gin"

	"github.com/Nameless0l/hackverse-preselection/internal/config"
	"github.com/Nameless0l/hackverse-preselection/internal/history"
	"github.com/Nameless0l/hackverse-preselection/internal/store"
)

// Handler API 处理器
type Handler struct {
	store     *store.EvalStore
	cfg       *config.AppConfig
	dataDir   string
	history   *history.Store // 可为 nil（历史库打开失败不影响评审）
	downloads *downloadStore
}

// NewHandler 创建 API 处理器
func NewHandler(evalStore *store.EvalStore, cfg *config.AppConfig, dataDir string, hist *history.Store) *Handler {
	return &Handler{
		store:     evalStore,
		cfg:       cfg,
		dataDir:   dataDir,
		history:   hist,
		downloads: newDownloadStore(),
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 队伍与评分
	router.GET("/teams", h.ListTeams)
	router.GET("/teams/:name", h.GetTeam)
	router.PATCH("/teams/:name/collective", h.UpdateCollective)
	router.PATCH("/teams/:name/individual/:member", h.UpdateIndividual)

	// 排行榜
	router.GET("/ranking", h.GetRanking)
	router.GET("/ranking/charts", h.GetCharts)

	// 评分文件持久化
	router.POST("/evaluations/save", h.SaveEvaluations)
	router.POST("/evaluations/load", h.LoadEvaluations)

	// 报名表
	router.POST("/import", h.Import)
	router.POST("/reload", h.ReloadRoster)

	// 排行榜导出
	router.POST("/export", h.Export)
	router.GET("/export/download/:token", h.DownloadExport)

	// 会话设置与操作历史
	router.GET("/settings", h.GetSettings)
	router.PATCH("/settings", h.UpdateSettings)
	router.GET("/history", h.GetHistory)
}

// recordHistory 追加操作历史（尽力而为，失败不影响主流程）
func (h *Handler) recordHistory(kind, detail string, teamCount int) {
	if h.history == nil {
		return
	}
	_ = h.history.Record(kind, detail, teamCount)
}
