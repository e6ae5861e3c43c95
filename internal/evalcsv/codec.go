package evalcsv

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Nameless0l/hackverse-preselection/internal/model"
)

// 扁平格式的固定列
const (
	colSchemaVersion       = "schema_version"
	colTeamName            = "team_name"
	colCollectiveTotal     = "collective_totalScore"
	colFinalScore          = "finalScore"
	collectivePrefix       = "collective_"
	individualPrefix       = "individual_"
	fieldName              = "name"
	fieldWebProgramming    = "webProgramming"
	fieldAlgorithmic       = "algorithmic"
	fieldTotalScore        = "totalScore"
	currentSchemaVersion   = "1"
)

// memberColumns 每个成员在扁平行中占用的列字段（固定顺序）
var memberColumns = []string{fieldName, fieldWebProgramming, fieldAlgorithmic, fieldTotalScore}

// Serialize 将评分状态展开为扁平表格：每队一行
//
// 固定列之外，每个成员按净化后的 token 占四列：
// individual_<token>_name / _webProgramming / _algorithmic / _totalScore。
// 成员集合随数据变化，输出表头为所有行的列并集，缺失单元留空。
func Serialize(order []string, evals map[string]*model.EvaluationRecord) [][]string {
	header := []string{colSchemaVersion, colTeamName}
	for _, criterion := range model.CollectiveCriteria {
		header = append(header, collectivePrefix+criterion)
	}
	header = append(header, colCollectiveTotal, colFinalScore)

	// 先为每行分配 token，逐行收集成员列并集（保持出现顺序）
	type memberCell struct {
		token string
		name  string
		score *model.MemberScore
	}
	rowMembers := make([][]memberCell, len(order))
	memberHeader := make([]string, 0)
	seenColumn := make(map[string]bool)

	for i, teamName := range order {
		rec, ok := evals[teamName]
		if !ok {
			continue
		}
		used := make(map[string]bool)
		for _, name := range sortedMemberNames(rec) {
			token := uniqueToken(SanitizeMemberName(name), used)
			rowMembers[i] = append(rowMembers[i], memberCell{
				token: token,
				name:  name,
				score: rec.Individual[name],
			})
			for _, field := range memberColumns {
				column := individualPrefix + token + "_" + field
				if !seenColumn[column] {
					seenColumn[column] = true
					memberHeader = append(memberHeader, column)
				}
			}
		}
	}
	header = append(header, memberHeader...)

	columnIndex := make(map[string]int, len(header))
	for i, column := range header {
		columnIndex[column] = i
	}

	rows := [][]string{header}
	for i, teamName := range order {
		rec, ok := evals[teamName]
		if !ok {
			continue
		}

		row := make([]string, len(header))
		row[columnIndex[colSchemaVersion]] = currentSchemaVersion
		row[columnIndex[colTeamName]] = teamName
		for _, criterion := range model.CollectiveCriteria {
			v, _ := rec.Collective.Get(criterion)
			row[columnIndex[collectivePrefix+criterion]] = formatScore(v)
		}
		row[columnIndex[colCollectiveTotal]] = formatScore(rec.Collective.TotalScore)
		row[columnIndex[colFinalScore]] = formatScore(rec.FinalScore)

		for _, mc := range rowMembers[i] {
			row[columnIndex[individualPrefix+mc.token+"_"+fieldName]] = mc.name
			row[columnIndex[individualPrefix+mc.token+"_"+fieldWebProgramming]] = formatScore(mc.score.WebProgramming)
			row[columnIndex[individualPrefix+mc.token+"_"+fieldAlgorithmic]] = formatScore(mc.score.Algorithmic)
			row[columnIndex[individualPrefix+mc.token+"_"+fieldTotalScore]] = formatScore(mc.score.TotalScore)
		}

		rows = append(rows, row)
	}

	return rows
}

// Deserialize 从扁平表格重建评分状态（Serialize 的逆操作）
//
// 缺失或无法解析的数值一律按 0.0 处理，未识别的列静默忽略
// （下次保存时即被丢弃）。返回的记录未重算派生字段，由调用方补齐。
func Deserialize(rows [][]string) map[string]*model.EvaluationRecord {
	evals := make(map[string]*model.EvaluationRecord)
	if len(rows) == 0 {
		return evals
	}

	header := rows[0]
	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, exists := index[name]; !exists {
			index[name] = i
		}
	}
	cell := func(row []string, column string) string {
		i, ok := index[column]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	for _, row := range rows[1:] {
		teamName := cell(row, colTeamName)
		if teamName == "" {
			continue
		}

		rec := model.NewEvaluationRecord()
		for _, criterion := range model.CollectiveCriteria {
			rec.Collective.Set(criterion, parseScore(cell(row, collectivePrefix+criterion)))
		}
		rec.Collective.TotalScore = parseScore(cell(row, colCollectiveTotal))
		rec.FinalScore = parseScore(cell(row, colFinalScore))

		for token, cells := range groupIndividualColumns(row, header) {
			// 表头是所有行成员列的并集，成员不属于该行时四个单元格全空，
			// 跳过而不是当成零分成员
			if cells[fieldName] == "" && cells[fieldWebProgramming] == "" &&
				cells[fieldAlgorithmic] == "" && cells[fieldTotalScore] == "" {
				continue
			}

			displayName := cells[fieldName]
			if displayName == "" {
				displayName = displayNameFromToken(token)
			}
			ms := rec.EnsureMember(displayName)
			ms.WebProgramming = parseScore(cells[fieldWebProgramming])
			ms.Algorithmic = parseScore(cells[fieldAlgorithmic])
			ms.TotalScore = parseScore(cells[fieldTotalScore])
		}

		evals[teamName] = rec
	}

	return evals
}

// groupIndividualColumns 把 individual_<token>_<field> 列按 token 分组
// token 不含 "_"，最后一个 "_" 即 field 分隔符
func groupIndividualColumns(row []string, header []string) map[string]map[string]string {
	groups := make(map[string]map[string]string)
	for i, column := range header {
		if !strings.HasPrefix(column, individualPrefix) || i >= len(row) {
			continue
		}
		rest := column[len(individualPrefix):]
		sep := strings.LastIndex(rest, "_")
		if sep <= 0 {
			continue
		}
		token, field := rest[:sep], rest[sep+1:]

		if groups[token] == nil {
			groups[token] = make(map[string]string)
		}
		groups[token][field] = strings.TrimSpace(row[i])
	}
	return groups
}

// parseScore 数值解析失败一律按 0.0（ParseFailure 策略）
func parseScore(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// formatScore 最短十进制表示：整数分值不带小数位
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func sortedMemberNames(rec *model.EvaluationRecord) []string {
	names := make([]string, 0, len(rec.Individual))
	for name := range rec.Individual {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
