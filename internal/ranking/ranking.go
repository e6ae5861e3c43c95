package ranking

import (
	"sort"
	"strconv"

	"github.com/Nameless0l/hackverse-preselection/internal/model"
	"github.com/Nameless0l/hackverse-preselection/internal/scoring"
)

// MemberResult 排行榜中单个成员的个人总分
type MemberResult struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Entry 排行榜条目：一支队伍评分状态的只读投影
type Entry struct {
	Rank              int            `json:"rank"`
	Team              string         `json:"team"`
	CollectiveScore   float64        `json:"collectiveScore"`
	IndividualAverage float64        `json:"individualAverage"`
	FinalScore        float64        `json:"finalScore"`
	Members           []MemberResult `json:"members"`
}

// Build 根据评分状态生成排行榜
// 按最终得分降序稳定排序，同分保持报名表相对顺序；名次为 1 起的序号。
// 仅报名表中的队伍出现在榜单上（孤儿评分记录不展示）。
func Build(teams []*model.Team, evals map[string]*model.EvaluationRecord) []Entry {
	entries := make([]Entry, 0, len(teams))

	for _, t := range teams {
		rec, ok := evals[t.Name]
		if !ok {
			rec = model.NewEvaluationRecord()
		}

		names := t.MemberDisplayNames()
		members := make([]MemberResult, 0, len(names))
		totals := make([]float64, 0, len(names))
		for _, name := range names {
			score := 0.0
			if ms, ok := rec.Individual[name]; ok {
				score = ms.TotalScore
			}
			members = append(members, MemberResult{Name: name, Score: score})
			totals = append(totals, score)
		}

		avg := 0.0
		if len(totals) > 0 {
			sum := 0.0
			for _, v := range totals {
				sum += v
			}
			avg = scoring.Round2(sum / float64(len(totals)))
		}

		entries = append(entries, Entry{
			Team:              t.Name,
			CollectiveScore:   rec.Collective.TotalScore,
			IndividualAverage: avg,
			FinalScore:        rec.FinalScore,
			Members:           members,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].FinalScore > entries[j].FinalScore
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries
}

// Top 返回榜单前 n 名（图表展示用）
func Top(entries []Entry, n int) []Entry {
	if n <= 0 || n > len(entries) {
		n = len(entries)
	}
	return entries[:n]
}

// DetailCSV 将排行榜展开为可下载的明细表
//
// 列布局：Rank、Team、Collective Score，随后是各队成员的 "<成员名> (Score)"
// 列（按名次顺序取并集，同名列只出现一次），最后 Individual Average、Final Score。
// 单向展示投影，与评分文件的往返格式无关。
func DetailCSV(entries []Entry) [][]string {
	memberColumns := make([]string, 0)
	seen := make(map[string]bool)
	for _, e := range entries {
		for _, m := range e.Members {
			column := m.Name + " (Score)"
			if !seen[column] {
				seen[column] = true
				memberColumns = append(memberColumns, column)
			}
		}
	}

	header := []string{"Rank", "Team", "Collective Score"}
	header = append(header, memberColumns...)
	header = append(header, "Individual Average", "Final Score")

	columnIndex := make(map[string]int, len(header))
	for i, column := range header {
		columnIndex[column] = i
	}

	rows := [][]string{header}
	for _, e := range entries {
		row := make([]string, len(header))
		row[0] = strconv.Itoa(e.Rank)
		row[1] = e.Team
		row[2] = formatScore(e.CollectiveScore)
		for _, m := range e.Members {
			row[columnIndex[m.Name+" (Score)"]] = formatScore(m.Score)
		}
		row[columnIndex["Individual Average"]] = formatScore(e.IndividualAverage)
		row[columnIndex["Final Score"]] = formatScore(e.FinalScore)
		rows = append(rows, row)
	}

	return rows
}

// formatScore 展示用两位小数
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
