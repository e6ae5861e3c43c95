package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Nameless0l/hackverse-preselection/internal/model"
)

// 报名表识别的列名（全部可选，缺失按空字符串处理）
const (
	colTimestamp          = "timestamp"
	colTeamName           = "team_name"
	colTeamDescription    = "team_description"
	colTeamProjects       = "team_projects"
	colPreviousHackathons = "previous_hackathons"
	colHowHeard           = "how_heard"
	colSpecialNeeds       = "special_needs"
)

// LoadResult 报名表加载结果
type LoadResult struct {
	Teams      []*model.Team
	SourcePath string
	UsedSample bool   // 源文件不可读，使用了内置示例数据
	Warning    string // 非致命告警信息
}

// LoadFile 按扩展名加载报名表
// 任何读取失败都不致命：降级为内置示例数据并附带告警
func LoadFile(path string) *LoadResult {
	rows, err := readRows(path)
	if err != nil {
		return &LoadResult{
			Teams:      SampleTeams(),
			SourcePath: path,
			UsedSample: true,
			Warning:    fmt.Sprintf("报名表不可读(%v)，已使用内置示例数据", err),
		}
	}

	return &LoadResult{
		Teams:      Transform(rows),
		SourcePath: path,
	}
}

// LoadReader 从内存数据加载报名表（上传导入用），format 为文件扩展名
func LoadReader(r io.Reader, format string) ([]*model.Team, error) {
	var rows [][]string
	var err error

	switch strings.ToLower(format) {
	case ".xlsx", ".xlsm":
		rows, err = readExcelRows(r)
	default:
		rows, err = readCSVRows(r)
	}
	if err != nil {
		return nil, err
	}
	return Transform(rows), nil
}

// readRows 读取文件为表格行
func readRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readExcelRows(f)
	default:
		return readCSVRows(f)
	}
}

// readCSVRows 读取 CSV，容忍行字段数不一致
func readCSVRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("解析 CSV 失败: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("报名表为空")
	}
	return rows, nil
}

// readExcelRows 读取 Excel 第一个工作表
func readExcelRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("打开 Excel 失败: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel 无工作表")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("读取工作表失败: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("报名表为空")
	}
	return rows, nil
}

// headerIndex 建立列名到下标的映射（列名大小写不敏感、去除首尾空白）
func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, exists := index[key]; !exists {
			index[key] = i
		}
	}
	return index
}

// cell 按列名取值，列缺失或行过短时返回空字符串
func cell(row []string, index map[string]int, column string) string {
	i, ok := index[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// memberFromRow 解析某个角色前缀（leader/member1/member2）的成员字段
func memberFromRow(row []string, index map[string]int, prefix string) model.Member {
	return model.Member{
		Name:          cell(row, index, prefix+"_name"),
		Email:         cell(row, index, prefix+"_email"),
		Phone:         cell(row, index, prefix+"_phone"),
		Cycle:         cell(row, index, prefix+"_cycle"),
		Level:         cell(row, index, prefix+"_level"),
		Department:    cell(row, index, prefix+"_department"),
		GitHub:        cell(row, index, prefix+"_github"),
		Experience:    cell(row, index, prefix+"_experience"),
		FrontendSkill: cell(row, index, prefix+"_frontend"),
		BackendSkill:  cell(row, index, prefix+"_backend"),
		DatabaseSkill: cell(row, index, prefix+"_database"),
		DevopsSkill:   cell(row, index, prefix+"_devops"),
		Languages:     cell(row, index, prefix+"_languages"),
	}
}

// Transform 将表格行转换为队伍实体
// 第一行为表头；队名为空时按数据行号合成 Team_<i>
func Transform(rows [][]string) []*model.Team {
	if len(rows) == 0 {
		return nil
	}

	index := headerIndex(rows[0])
	teams := make([]*model.Team, 0, len(rows)-1)

	for i, row := range rows[1:] {
		name := cell(row, index, colTeamName)
		if name == "" {
			name = model.SyntheticTeamName(i)
		}

		teams = append(teams, &model.Team{
			Timestamp:          cell(row, index, colTimestamp),
			Name:               name,
			Description:        cell(row, index, colTeamDescription),
			Leader:             memberFromRow(row, index, "leader"),
			Member1:            memberFromRow(row, index, "member1"),
			Member2:            memberFromRow(row, index, "member2"),
			Projects:           cell(row, index, colTeamProjects),
			PreviousHackathons: cell(row, index, colPreviousHackathons),
			HowHeard:           cell(row, index, colHowHeard),
			SpecialNeeds:       cell(row, index, colSpecialNeeds),
		})
	}

	return teams
}
