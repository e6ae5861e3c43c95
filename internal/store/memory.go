package store

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/Nameless0l/hackverse-preselection/internal/model"
	"github.com/Nameless0l/hackverse-preselection/internal/scoring"
)

var (
	// ErrTeamNotFound 队伍不存在
	ErrTeamNotFound = errors.New("team not found")
	// ErrUnknownCriterion 未知的集体评分维度
	ErrUnknownCriterion = errors.New("unknown criterion")
)

// Settings 评审会话设置
type Settings struct {
	QualifierCount int `json:"qualifierCount"` // 晋级队伍数量
	ChartTopN      int `json:"chartTopN"`      // 图表展示的队伍数量
}

// EvalStore 评审会话的内存存储
// 持有报名队伍（加载后只读）与每队一条的评分记录，单评委回合式交互，
// 读写锁仅用于保护 HTTP 层的并发访问
type EvalStore struct {
	mu          sync.RWMutex
	teams       []*model.Team
	teamIndex   map[string]*model.Team
	evaluations map[string]*model.EvaluationRecord
	settings    Settings
}

// NewEvalStore 创建空存储
func NewEvalStore() *EvalStore {
	return &EvalStore{
		teamIndex:   make(map[string]*model.Team),
		evaluations: make(map[string]*model.EvaluationRecord),
		settings: Settings{
			QualifierCount: 10,
			ChartTopN:      15,
		},
	}
}

// SetTeams 设置队伍列表（初始加载或报名表重载）
// 已有评分记录保留，随后需调用 Reconcile 补齐新队伍/新成员
func (s *EvalStore) SetTeams(teams []*model.Team) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.teams = teams
	s.teamIndex = make(map[string]*model.Team, len(teams))
	for _, t := range teams {
		s.teamIndex[t.Name] = t
	}
}

// Teams 返回全部队伍（报名表顺序）
func (s *EvalStore) Teams() []*model.Team {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Team, len(s.teams))
	copy(result, s.teams)
	return result
}

// Team 按队名查找队伍
func (s *EvalStore) Team(name string) (*model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.teamIndex[name]
	if !ok {
		return nil, ErrTeamNotFound
	}
	return t, nil
}

// Search 按关键字过滤队伍：大小写不敏感地匹配队名或任一成员姓名
func (s *EvalStore) Search(keyword string) []*model.Team {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		result := make([]*model.Team, len(s.teams))
		copy(result, s.teams)
		return result
	}

	result := make([]*model.Team, 0)
	for _, t := range s.teams {
		if strings.Contains(strings.ToLower(t.Name), keyword) ||
			strings.Contains(strings.ToLower(t.Leader.Name), keyword) ||
			strings.Contains(strings.ToLower(t.Member1.Name), keyword) ||
			strings.Contains(strings.ToLower(t.Member2.Name), keyword) {
			result = append(result, t)
		}
	}
	return result
}

// InitEvaluations 初始化评分状态
// loaded 为持久化文件反序列化的记录（nil 表示全新开始），随后对照当前
// 报名表做补齐：缺失的队伍/成员建立全零条目。只增不删。
func (s *EvalStore) InitEvaluations(loaded map[string]*model.EvaluationRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if loaded != nil {
		s.evaluations = loaded
	} else {
		s.evaluations = make(map[string]*model.EvaluationRecord)
	}

	s.reconcileLocked()
}

// Reconcile 对照报名表补齐评分条目（报名表重载后调用）
func (s *EvalStore) Reconcile() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconcileLocked()
}

func (s *EvalStore) reconcileLocked() {
	for _, t := range s.teams {
		rec, ok := s.evaluations[t.Name]
		if !ok {
			rec = model.NewEvaluationRecord()
			s.evaluations[t.Name] = rec
		}
		for _, name := range t.MemberDisplayNames() {
			rec.EnsureMember(name)
		}
	}

	for _, rec := range s.evaluations {
		scoring.Recompute(rec)
	}
}

// Evaluation 返回某队评分记录的深拷贝
func (s *EvalStore) Evaluation(teamName string) (*model.EvaluationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.evaluations[teamName]
	if !ok {
		return nil, ErrTeamNotFound
	}
	return rec.Clone(), nil
}

// SetCollectiveScore 写入集体评分并重算派生字段，返回更新后的记录
func (s *EvalStore) SetCollectiveScore(teamName, criterion string, value float64) (*model.EvaluationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.evaluations[teamName]
	if !ok {
		return nil, ErrTeamNotFound
	}
	if !rec.Collective.Set(criterion, value) {
		return nil, ErrUnknownCriterion
	}

	scoring.Recompute(rec)
	return rec.Clone(), nil
}

// SetIndividualScore 写入个人评分并重算派生字段，返回更新后的记录
// 成员条目不存在时先建立全零条目（成员改名后旧条目保留，见评分文件）
func (s *EvalStore) SetIndividualScore(teamName, memberName, exercise string, value float64) (*model.EvaluationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.evaluations[teamName]
	if !ok {
		return nil, ErrTeamNotFound
	}

	ms := rec.EnsureMember(memberName)
	switch exercise {
	case model.ExerciseWebProgramming:
		ms.WebProgramming = value
	case model.ExerciseAlgorithmic:
		ms.Algorithmic = value
	default:
		return nil, ErrUnknownCriterion
	}

	scoring.Recompute(rec)
	return rec.Clone(), nil
}

// EvaluationsSnapshot 返回评分状态的深拷贝与队名顺序
// 顺序为报名表顺序，之后追加仅存在于持久化文件中的孤儿键（按字典序）
func (s *EvalStore) EvaluationsSnapshot() (order []string, evals map[string]*model.EvaluationRecord) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	evals = make(map[string]*model.EvaluationRecord, len(s.evaluations))
	for name, rec := range s.evaluations {
		evals[name] = rec.Clone()
	}

	order = make([]string, 0, len(s.evaluations))
	seen := make(map[string]bool, len(s.evaluations))
	for _, t := range s.teams {
		if _, ok := s.evaluations[t.Name]; ok && !seen[t.Name] {
			order = append(order, t.Name)
			seen[t.Name] = true
		}
	}

	orphans := make([]string, 0)
	for name := range s.evaluations {
		if !seen[name] {
			orphans = append(orphans, name)
		}
	}
	sort.Strings(orphans)
	order = append(order, orphans...)

	return order, evals
}

// Count 队伍数量
func (s *EvalStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.teams)
}

// ScoredCount 已有非零最终得分的队伍数量
func (s *EvalStore) ScoredCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, t := range s.teams {
		if rec, ok := s.evaluations[t.Name]; ok && rec.FinalScore > 0 {
			count++
		}
	}
	return count
}

// Settings 返回当前会话设置
func (s *EvalStore) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// UpdateSettings 更新会话设置（仅接受正值）
func (s *EvalStore) UpdateSettings(updates map[string]interface{}) Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := numericUpdate(updates, "qualifierCount"); ok && v > 0 {
		s.settings.QualifierCount = v
	}
	if v, ok := numericUpdate(updates, "chartTopN"); ok && v > 0 {
		s.settings.ChartTopN = v
	}
	return s.settings
}

// numericUpdate JSON 数值统一按 float64 解码，这里收敛为 int
func numericUpdate(updates map[string]interface{}, key string) (int, bool) {
	switch v := updates[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}
