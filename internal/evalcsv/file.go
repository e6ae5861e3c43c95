package evalcsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Nameless0l/hackverse-preselection/internal/model"
)

// ErrNotFound 评分文件不存在或为空
// 调用方据此降级为全新评分状态，不作为错误对待
var ErrNotFound = errors.New("evaluation file not found")

// Load 读取评分文件并重建评分状态
func Load(path string) (map[string]*model.EvaluationRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("打开评分文件失败: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("解析评分文件失败: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	return Deserialize(rows), nil
}

// Save 将评分状态写入评分文件（整体覆盖，无原子重命名保护）
// backupDir 非空时在该目录额外写一份带时间戳的备份，备份失败不影响保存结果
func Save(path string, order []string, evals map[string]*model.EvaluationRecord, backupDir string) error {
	rows := Serialize(order, evals)

	if err := writeRows(path, rows); err != nil {
		return fmt.Errorf("写入评分文件失败: %w", err)
	}

	if backupDir != "" {
		// 备份仅尽力而为
		_ = writeRows(BackupPath(backupDir, path, time.Now()), rows)
	}

	return nil
}

// BackupPath 计算带时间戳的备份文件路径
// 命名规则：原文件名 + _YYYYMMDD_HHMMSS + 扩展名
func BackupPath(backupDir, path string, now time.Time) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(backupDir, fmt.Sprintf("%s_%s%s", stem, now.Format("20060102_150405"), ext))
}

func writeRows(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(f)
	if err := writer.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
