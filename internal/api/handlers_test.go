package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Nameless0l/hackverse-preselection/internal/config"
	"github.com/Nameless0l/hackverse-preselection/internal/roster"
	"github.com/Nameless0l/hackverse-preselection/internal/store"
)

// newTestRouter 构造测试用路由与存储（数据目录为临时目录，历史库禁用）
func newTestRouter(t *testing.T) (*gin.Engine, *store.EvalStore, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dataDir := t.TempDir()
	for _, subdir := range []string{"uploads", "exports", "backups"} {
		if err := os.MkdirAll(filepath.Join(dataDir, subdir), 0755); err != nil {
			t.Fatalf("创建子目录失败: %v", err)
		}
	}

	evalStore := store.NewEvalStore()
	evalStore.SetTeams(roster.SampleTeams())
	evalStore.InitEvaluations(nil)

	handler := NewHandler(evalStore, config.DefaultConfig(), dataDir, nil)

	router := gin.New()
	handler.RegisterRoutes(router.Group("/api"))
	return router, evalStore, dataDir
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("序列化请求体失败: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// individualPath 成员名可能含空格，路径段必须转义
func individualPath(team, member string) string {
	return "/api/teams/" + url.PathEscape(team) + "/individual/" + url.PathEscape(member)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var result map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("解析响应失败: %v (body=%s)", err, w.Body.String())
	}
	return result
}

func TestGetStatus(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/status", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["initialized"] != true {
		t.Errorf("期望 initialized=true，实际 %v", body["initialized"])
	}
	if body["teamCount"] != float64(3) {
		t.Errorf("期望 teamCount=3，实际 %v", body["teamCount"])
	}
	if body["scoredCount"] != float64(0) {
		t.Errorf("期望 scoredCount=0，实际 %v", body["scoredCount"])
	}
	if body["event"] != "HACKVERSE 2025" {
		t.Errorf("期望活动名 HACKVERSE 2025，实际 %v", body["event"])
	}
}

func TestListTeamsKeyword(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/teams?keyword=tek", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}

	body := decodeBody(t, w)
	items := body["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("期望匹配 1 支队伍，实际 %d", len(items))
	}
	if body["total"] != float64(3) {
		t.Errorf("期望 total=3，实际 %v", body["total"])
	}
}

func TestGetTeamNotFound(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/teams/不存在的队伍", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("期望 404，实际 %d", w.Code)
	}
}

func TestUpdateCollectiveRecomputes(t *testing.T) {
	router, evalStore, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPatch, "/api/teams/TEK/collective",
		map[string]float64{"uiDesign": 20})
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d (body=%s)", w.Code, w.Body.String())
	}

	rec, err := evalStore.Evaluation("TEK")
	if err != nil {
		t.Fatalf("获取评分记录失败: %v", err)
	}
	if rec.Collective.UIDesign != 20 {
		t.Errorf("期望 uiDesign=20，实际 %v", rec.Collective.UIDesign)
	}
	// 10 个维度只有 1 个 20 分，均值为 2
	if rec.Collective.TotalScore != 2 {
		t.Errorf("期望集体总分 2，实际 %v", rec.Collective.TotalScore)
	}
	if rec.FinalScore != 1 {
		t.Errorf("期望最终得分 1，实际 %v", rec.FinalScore)
	}
}

func TestUpdateCollectiveValidation(t *testing.T) {
	router, evalStore, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPatch, "/api/teams/TEK/collective",
		map[string]float64{"uiDesign": 25})
	if w.Code != http.StatusBadRequest {
		t.Errorf("超出上限：期望 400，实际 %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPatch, "/api/teams/TEK/collective",
		map[string]float64{"notACriterion": 10})
	if w.Code != http.StatusBadRequest {
		t.Errorf("未知维度：期望 400，实际 %d", w.Code)
	}

	// 部分非法时整体拒绝，合法项也不写入
	w = doJSON(t, router, http.MethodPatch, "/api/teams/TEK/collective",
		map[string]float64{"uiDesign": 10, "database": -1})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望 400，实际 %d", w.Code)
	}
	rec, _ := evalStore.Evaluation("TEK")
	if rec.Collective.UIDesign != 0 {
		t.Errorf("非法请求不应产生部分写入，uiDesign=%v", rec.Collective.UIDesign)
	}

	w = doJSON(t, router, http.MethodPatch, "/api/teams/没有这队/collective",
		map[string]float64{"uiDesign": 10})
	if w.Code != http.StatusNotFound {
		t.Errorf("未知队伍：期望 404，实际 %d", w.Code)
	}
}

func TestUpdateIndividual(t *testing.T) {
	router, evalStore, _ := newTestRouter(t)

	web := 12.0
	algo := 14.0
	w := doJSON(t, router, http.MethodPatch, individualPath("TEK", "DJOMO DE DJOMO Karlyn"),
		individualPatch{WebProgramming: &web, Algorithmic: &algo})
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d (body=%s)", w.Code, w.Body.String())
	}

	rec, err := evalStore.Evaluation("TEK")
	if err != nil {
		t.Fatalf("获取评分记录失败: %v", err)
	}
	ms, ok := rec.Individual["DJOMO DE DJOMO Karlyn"]
	if !ok {
		t.Fatalf("成员评分缺失")
	}
	if ms.TotalScore != 13 {
		t.Errorf("期望个人总分 13，实际 %v", ms.TotalScore)
	}
}

func TestUpdateIndividualValidation(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPatch, individualPath("TEK", "DJOMO DE DJOMO Karlyn"),
		map[string]interface{}{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("空请求：期望 400，实际 %d", w.Code)
	}

	bad := -3.0
	w = doJSON(t, router, http.MethodPatch, individualPath("TEK", "DJOMO DE DJOMO Karlyn"),
		individualPatch{WebProgramming: &bad})
	if w.Code != http.StatusBadRequest {
		t.Errorf("负分：期望 400，实际 %d", w.Code)
	}
}

func TestGetRanking(t *testing.T) {
	router, _, _ := newTestRouter(t)

	// CodeMasters 给一个高分维度，确保排第一
	w := doJSON(t, router, http.MethodPatch, "/api/teams/CodeMasters/collective",
		map[string]float64{"uiDesign": 20})
	if w.Code != http.StatusOK {
		t.Fatalf("打分失败: %d", w.Code)
	}

	w = doJSON(t, router, http.MethodGet, "/api/ranking", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}

	body := decodeBody(t, w)
	entries := body["entries"].([]interface{})
	if len(entries) != 3 {
		t.Fatalf("期望 3 条排名，实际 %d", len(entries))
	}
	first := entries[0].(map[string]interface{})
	if first["team"] != "CodeMasters" {
		t.Errorf("期望第一名 CodeMasters，实际 %v", first["team"])
	}
	if first["rank"] != float64(1) {
		t.Errorf("期望 rank=1，实际 %v", first["rank"])
	}
	if body["qualifierCount"] != float64(10) {
		t.Errorf("期望 qualifierCount=10，实际 %v", body["qualifierCount"])
	}
}

func TestGetCharts(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/ranking/charts", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}

	body := decodeBody(t, w)
	if _, ok := body["topFinal"]; !ok {
		t.Errorf("响应缺少 topFinal")
	}
	if _, ok := body["comparison"]; !ok {
		t.Errorf("响应缺少 comparison")
	}
}

func TestSaveAndLoadEvaluations(t *testing.T) {
	router, evalStore, dataDir := newTestRouter(t)

	w := doJSON(t, router, http.MethodPatch, "/api/teams/TEK/collective",
		map[string]float64{"uiDesign": 16})
	if w.Code != http.StatusOK {
		t.Fatalf("打分失败: %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/evaluations/save", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("保存失败: %d (body=%s)", w.Code, w.Body.String())
	}
	if _, err := os.Stat(filepath.Join(dataDir, "evaluations.csv")); err != nil {
		t.Fatalf("评分文件未生成: %v", err)
	}

	// 清空内存评分后从文件恢复
	evalStore.InitEvaluations(nil)
	rec, _ := evalStore.Evaluation("TEK")
	if rec.Collective.UIDesign != 0 {
		t.Fatalf("清空后 uiDesign 应为 0，实际 %v", rec.Collective.UIDesign)
	}

	w = doJSON(t, router, http.MethodPost, "/api/evaluations/load", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("加载失败: %d (body=%s)", w.Code, w.Body.String())
	}
	rec, _ = evalStore.Evaluation("TEK")
	if rec.Collective.UIDesign != 16 {
		t.Errorf("期望恢复 uiDesign=16，实际 %v", rec.Collective.UIDesign)
	}
}

func TestLoadEvaluationsMissingFile(t *testing.T) {
	router, evalStore, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPatch, "/api/teams/TEK/collective",
		map[string]float64{"uiDesign": 16})
	if w.Code != http.StatusOK {
		t.Fatalf("打分失败: %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/evaluations/load", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("文件缺失：期望 404，实际 %d", w.Code)
	}

	// 内存状态不受影响
	rec, _ := evalStore.Evaluation("TEK")
	if rec.Collective.UIDesign != 16 {
		t.Errorf("加载失败不应改动内存状态，uiDesign=%v", rec.Collective.UIDesign)
	}
}

func TestExportAndDownload(t *testing.T) {
	router, _, dataDir := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/export", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("导出失败: %d (body=%s)", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("导出未返回令牌")
	}

	entries, err := os.ReadDir(filepath.Join(dataDir, "exports"))
	if err != nil || len(entries) != 1 {
		t.Fatalf("exports 目录应有 1 个文件: %v", err)
	}

	w = doJSON(t, router, http.MethodGet, "/api/export/download/"+token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("下载失败: %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); cd == "" {
		t.Errorf("下载响应缺少 Content-Disposition")
	}

	w = doJSON(t, router, http.MethodGet, "/api/export/download/不存在的令牌", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("无效令牌：期望 404，实际 %d", w.Code)
	}
}

func TestImportRoster(t *testing.T) {
	router, evalStore, dataDir := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "roster.csv")
	if err != nil {
		t.Fatalf("构造上传表单失败: %v", err)
	}
	part.Write([]byte("team_name,leader_name\nNouvelle,Amina\nAutre,Boris\n"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("导入失败: %d (body=%s)", w.Code, w.Body.String())
	}
	if evalStore.Count() != 2 {
		t.Errorf("期望导入后 2 支队伍，实际 %d", evalStore.Count())
	}
	// 新队伍补齐全零评分条目
	rec, err := evalStore.Evaluation("Nouvelle")
	if err != nil {
		t.Fatalf("导入后应有评分条目: %v", err)
	}
	if _, ok := rec.Individual["Amina"]; !ok {
		t.Errorf("队长应有个人评分条目")
	}

	// 上传文件留档
	entries, err := os.ReadDir(filepath.Join(dataDir, "uploads"))
	if err != nil || len(entries) != 1 {
		t.Errorf("uploads 目录应有 1 个留档文件")
	}
}

func TestSettings(t *testing.T) {
	router, evalStore, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPatch, "/api/settings",
		map[string]interface{}{"qualifierCount": 5})
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["qualifierCount"] != float64(5) {
		t.Errorf("期望 qualifierCount=5，实际 %v", body["qualifierCount"])
	}
	if evalStore.Settings().QualifierCount != 5 {
		t.Errorf("存储未更新：%d", evalStore.Settings().QualifierCount)
	}

	w = doJSON(t, router, http.MethodGet, "/api/settings", nil)
	body = decodeBody(t, w)
	if body["chartTopN"] != float64(15) {
		t.Errorf("期望 chartTopN=15，实际 %v", body["chartTopN"])
	}
}

func TestGetHistoryWithoutStore(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/history", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
}

func TestUpdateIndividualCreatesEntry(t *testing.T) {
	router, evalStore, _ := newTestRouter(t)

	algo := 18.0
	w := doJSON(t, router, http.MethodPatch, individualPath("TEK", "替补成员"),
		individualPatch{Algorithmic: &algo})
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}

	rec, _ := evalStore.Evaluation("TEK")
	ms, ok := rec.Individual["替补成员"]
	if !ok {
		t.Fatalf("应为新成员建立评分条目")
	}
	if ms.TotalScore != 9 {
		t.Errorf("期望个人总分 9，实际 %v", ms.TotalScore)
	}
}
