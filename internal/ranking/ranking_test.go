package ranking

import (
	"testing"

	"github.com/Nameless0l/hackverse-preselection/internal/model"
)

func team(name, leader, m1, m2 string) *model.Team {
	return &model.Team{
		Name:    name,
		Leader:  model.Member{Name: leader},
		Member1: model.Member{Name: m1},
		Member2: model.Member{Name: m2},
	}
}

func recordWithFinal(final float64, members ...string) *model.EvaluationRecord {
	rec := model.NewEvaluationRecord(members...)
	rec.FinalScore = final
	return rec
}

// TestBuildStableTieOrder 测试同分队伍保持报名表相对顺序
// 加载顺序 [C, A, B]，A 与 B 同分 → 排名 [A, B, C]
func TestBuildStableTieOrder(t *testing.T) {
	teams := []*model.Team{
		team("C", "c1", "c2", "c3"),
		team("A", "a1", "a2", "a3"),
		team("B", "b1", "b2", "b3"),
	}
	evals := map[string]*model.EvaluationRecord{
		"A": recordWithFinal(18.5),
		"B": recordWithFinal(18.5),
		"C": recordWithFinal(12.0),
	}

	entries := Build(teams, evals)

	want := []struct {
		team string
		rank int
	}{
		{"A", 1}, {"B", 2}, {"C", 3},
	}
	for i, w := range want {
		if entries[i].Team != w.team || entries[i].Rank != w.rank {
			t.Errorf("entries[%d] = %s rank %d, want %s rank %d",
				i, entries[i].Team, entries[i].Rank, w.team, w.rank)
		}
	}
}

// TestBuildMemberScores 测试成员总分与个人均值投影
func TestBuildMemberScores(t *testing.T) {
	teams := []*model.Team{team("TEK", "Karlyn", "Rose", "Christian")}
	rec := model.NewEvaluationRecord("Karlyn", "Rose", "Christian")
	rec.Individual["Karlyn"].TotalScore = 14
	rec.Individual["Rose"].TotalScore = 18
	rec.Individual["Christian"].TotalScore = 16
	rec.Collective.TotalScore = 16
	rec.FinalScore = 16
	evals := map[string]*model.EvaluationRecord{"TEK": rec}

	entries := Build(teams, evals)

	e := entries[0]
	if e.IndividualAverage != 16 {
		t.Errorf("IndividualAverage = %v, want 16", e.IndividualAverage)
	}
	if len(e.Members) != 3 || e.Members[0].Name != "Karlyn" || e.Members[0].Score != 14 {
		t.Errorf("Members = %+v", e.Members)
	}
}

// TestBuildMissingRecord 测试无评分记录的队伍按全零参与排名
func TestBuildMissingRecord(t *testing.T) {
	teams := []*model.Team{team("Unknown", "", "", "")}

	entries := Build(teams, map[string]*model.EvaluationRecord{})

	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].FinalScore != 0 {
		t.Errorf("FinalScore = %v, want 0", entries[0].FinalScore)
	}
	// 空姓名用角色占位名
	if entries[0].Members[0].Name != "Leader" {
		t.Errorf("Members[0].Name = %q, want Leader", entries[0].Members[0].Name)
	}
}

// TestTop 测试榜单截断
func TestTop(t *testing.T) {
	entries := make([]Entry, 20)
	if got := len(Top(entries, 15)); got != 15 {
		t.Errorf("Top(20, 15) = %d, want 15", got)
	}
	if got := len(Top(entries, 50)); got != 20 {
		t.Errorf("Top(20, 50) = %d, want 20", got)
	}
	if got := len(Top(entries, 0)); got != 20 {
		t.Errorf("Top(20, 0) = %d, want 20", got)
	}
}

// TestDetailCSV 测试明细导出布局
func TestDetailCSV(t *testing.T) {
	teams := []*model.Team{
		team("TEK", "Karlyn", "Rose", "Christian"),
		team("CodeMasters", "Jean", "Pierre", "Claire"),
	}
	tek := model.NewEvaluationRecord("Karlyn", "Rose", "Christian")
	tek.FinalScore = 10
	code := model.NewEvaluationRecord("Jean", "Pierre", "Claire")
	code.FinalScore = 15
	evals := map[string]*model.EvaluationRecord{"TEK": tek, "CodeMasters": code}

	rows := DetailCSV(Build(teams, evals))

	header := rows[0]
	// 3 固定列 + 6 成员列 + 2 尾列
	if len(header) != 11 {
		t.Fatalf("header has %d columns: %v", len(header), header)
	}
	if header[0] != "Rank" || header[len(header)-1] != "Final Score" {
		t.Errorf("unexpected header layout: %v", header)
	}

	// 第一行是 CodeMasters（得分更高）
	if rows[1][1] != "CodeMasters" || rows[1][0] != "1" {
		t.Errorf("rows[1] = %v", rows[1])
	}
	// CodeMasters 行中 TEK 的成员列为空
	karlynCol := -1
	for i, column := range header {
		if column == "Karlyn (Score)" {
			karlynCol = i
		}
	}
	if karlynCol < 0 {
		t.Fatalf("Karlyn (Score) column missing: %v", header)
	}
	if rows[1][karlynCol] != "" {
		t.Errorf("foreign member cell should be blank, got %q", rows[1][karlynCol])
	}
	if rows[2][karlynCol] != "0.00" {
		t.Errorf("own member cell = %q, want 0.00", rows[2][karlynCol])
	}
}
