package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nameless0l/hackverse-preselection/internal/config"
	"github.com/Nameless0l/hackverse-preselection/internal/evalcsv"
	"github.com/Nameless0l/hackverse-preselection/internal/history"
	"github.com/Nameless0l/hackverse-preselection/internal/roster"
)

// evaluationPath 评分文件路径
func (h *Handler) evaluationPath() string {
	return config.EvaluationPath(h.cfg, h.dataDir)
}

// SaveEvaluations 保存评分文件（整体覆盖 + 可选时间戳备份）
// POST /api/evaluations/save
func (h *Handler) SaveEvaluations(c *gin.Context) {
	order, evals := h.store.EvaluationsSnapshot()

	backupDir := ""
	if h.cfg.Data.AutoBackup {
		backupDir = filepath.Join(h.dataDir, "backups")
	}

	path := h.evaluationPath()
	if err := evalcsv.Save(path, order, evals, backupDir); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.recordHistory(history.KindSave, filepath.Base(path), len(order))
	c.JSON(http.StatusOK, gin.H{
		"saved": true,
		"path":  path,
		"teams": len(order),
	})
}

// LoadEvaluations 从评分文件重新加载评分状态
// 文件缺失不是错误：返回明确提示，内存状态保持不变
// POST /api/evaluations/load
func (h *Handler) LoadEvaluations(c *gin.Context) {
	path := h.evaluationPath()

	loaded, err := evalcsv.Load(path)
	if err != nil {
		if errors.Is(err, evalcsv.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "评分文件不存在", "path": path})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.store.InitEvaluations(loaded)

	h.recordHistory(history.KindLoad, filepath.Base(path), len(loaded))
	c.JSON(http.StatusOK, gin.H{
		"loaded": true,
		"teams":  len(loaded),
	})
}

// Import 上传报名表（CSV / Excel），替换当前队伍列表并补齐评分条目
// 已有评分保留，只增不删
// POST /api/import
func (h *Handler) Import(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传文件"})
		return
	}

	// 留档到 uploads 目录
	savedPath := filepath.Join(h.dataDir, "uploads",
		fmt.Sprintf("%s_%s", time.Now().Format("20060102_150405"), filepath.Base(file.Filename)))
	if err := c.SaveUploadedFile(file, savedPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存文件失败"})
		return
	}

	f, err := os.Open(savedPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取文件失败"})
		return
	}
	defer f.Close()

	// 上传导入不降级到示例数据，解析失败直接报错
	teams, err := roster.LoadReader(f, filepath.Ext(file.Filename))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("报名表不可读: %v", err)})
		return
	}

	h.store.SetTeams(teams)
	h.store.Reconcile()

	h.recordHistory(history.KindImport, filepath.Base(file.Filename), len(teams))
	c.JSON(http.StatusOK, gin.H{
		"imported": true,
		"teams":    len(teams),
	})
}

// ReloadRoster 重新读取配置的报名表（侧边栏刷新动作）
// POST /api/reload
func (h *Handler) ReloadRoster(c *gin.Context) {
	rosterPath := config.RosterPath(h.cfg, h.dataDir)
	result := roster.LoadFile(rosterPath)

	h.store.SetTeams(result.Teams)
	h.store.Reconcile()

	h.recordHistory(history.KindImport, filepath.Base(result.SourcePath), len(result.Teams))

	resp := gin.H{
		"reloaded":   true,
		"teams":      len(result.Teams),
		"usedSample": result.UsedSample,
	}
	if result.Warning != "" {
		resp["warning"] = result.Warning
	}
	c.JSON(http.StatusOK, resp)
}
