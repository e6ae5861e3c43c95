package api

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Nameless0l/hackverse-preselection/internal/history"
	"github.com/Nameless0l/hackverse-preselection/internal/ranking"
)

const downloadTTL = 10 * time.Minute

// exportDownload 待下载的导出文件
type exportDownload struct {
	filePath  string
	expiresAt time.Time
}

// downloadStore 导出下载令牌表
type downloadStore struct {
	mu    sync.Mutex
	items map[string]exportDownload
}

func newDownloadStore() *downloadStore {
	return &downloadStore{
		items: make(map[string]exportDownload),
	}
}

func (s *downloadStore) put(filePath string, ttl time.Duration) (token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(time.Now())

	token = uuid.New().String()
	s.items[token] = exportDownload{
		filePath:  filePath,
		expiresAt: time.Now().Add(ttl),
	}
	return token
}

func (s *downloadStore) get(token string) (exportDownload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(time.Now())

	v, ok := s.items[token]
	if !ok {
		return exportDownload{}, false
	}
	return v, true
}

func (s *downloadStore) purgeExpiredLocked(now time.Time) {
	for k, v := range s.items {
		if now.After(v.expiresAt) {
			delete(s.items, k)
		}
	}
}

// Export 生成排行榜明细 CSV，返回下载令牌
// POST /api/export
func (h *Handler) Export(c *gin.Context) {
	entries := h.buildRanking()
	rows := ranking.DetailCSV(entries)

	filePath := filepath.Join(h.dataDir, "exports",
		fmt.Sprintf("classement_%s.csv", time.Now().Format("20060102_150405")))

	if err := writeCSVFile(filePath, rows); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	token := h.downloads.put(filePath, downloadTTL)

	h.recordHistory(history.KindExport, filepath.Base(filePath), len(entries))
	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"filename": "classement_hackathon.csv",
		"teams":    len(entries),
	})
}

// DownloadExport 按令牌下载导出文件
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	token := c.Param("token")

	item, ok := h.downloads.get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "下载链接不存在或已过期"})
		return
	}

	c.FileAttachment(item.filePath, "classement_hackathon.csv")
}

func writeCSVFile(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建导出文件失败: %w", err)
	}

	writer := csv.NewWriter(f)
	if err := writer.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("写入导出文件失败: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return fmt.Errorf("写入导出文件失败: %w", err)
	}

	return f.Close()
}
