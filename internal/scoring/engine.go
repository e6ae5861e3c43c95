package scoring

import (
	"math"
	"sort"

	"github.com/Nameless0l/hackverse-preselection/internal/model"
)

// Round2 四舍五入保留两位小数（远离零方向）
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// sanitize 将 NaN/Inf 统一为 0，保证聚合链路不被污染
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// mean 求均值，空集返回 0
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += sanitize(v)
	}
	return sum / float64(len(values))
}

// Recompute 重算一条评分记录的全部派生字段
//
// 计算公式（与评审规则一致）：
//
//	集体总分 = 10 个维度的均值
//	个人总分 = Web 编程与算法两项的均值
//	最终得分 = 集体总分/2 + 个人总分均值/2
//
// 所有结果保留两位小数。幂等：重复调用结果不变。
// 任何位置出现 NaN 都按 0 处理，函数不返回错误。
func Recompute(rec *model.EvaluationRecord) *model.EvaluationRecord {
	rec.Collective.TotalScore = Round2(mean(rec.Collective.Values()))

	individualTotals := make([]float64, 0, len(rec.Individual))
	for _, ms := range rec.Individual {
		ms.TotalScore = Round2(mean([]float64{ms.WebProgramming, ms.Algorithmic}))
		individualTotals = append(individualTotals, ms.TotalScore)
	}

	final := rec.Collective.TotalScore/2 + mean(individualTotals)/2
	rec.FinalScore = Round2(sanitize(final))

	return rec
}

// IndividualAverage 返回个人总分均值（排行榜展示用），无成员时为 0
func IndividualAverage(rec *model.EvaluationRecord) float64 {
	totals := make([]float64, 0, len(rec.Individual))
	for _, ms := range rec.Individual {
		totals = append(totals, ms.TotalScore)
	}
	return mean(totals)
}

// SortedMemberNames 返回按名称排序的成员列表（遍历顺序稳定）
func SortedMemberNames(rec *model.EvaluationRecord) []string {
	names := make([]string, 0, len(rec.Individual))
	for name := range rec.Individual {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
