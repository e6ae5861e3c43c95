package model

// 集体评分的 10 个固定评审维度（Todo App 集体练习）
const (
	CriterionUIDesign          = "uiDesign"
	CriterionAPIImplementation = "apiImplementation"
	CriterionDatabase          = "database"
	CriterionAuthentication    = "authentication"
	CriterionCRUDOperations    = "crudOperations"
	CriterionRequiredFeatures  = "requiredFeatures"
	CriterionBonusFeatures     = "bonusFeatures"
	CriterionDocumentation     = "documentation"
	CriterionTeamCollaboration = "teamCollaboration"
	CriterionDeployment        = "deployment"
)

// CollectiveCriteria 集体评分维度的固定顺序（序列化与界面展示共用）
var CollectiveCriteria = []string{
	CriterionUIDesign,
	CriterionAPIImplementation,
	CriterionDatabase,
	CriterionAuthentication,
	CriterionCRUDOperations,
	CriterionRequiredFeatures,
	CriterionBonusFeatures,
	CriterionDocumentation,
	CriterionTeamCollaboration,
	CriterionDeployment,
}

// 个人评分的两个固定练习
const (
	ExerciseWebProgramming = "webProgramming" // Web 编程练习（PDF）
	ExerciseAlgorithmic    = "algorithmic"    // 算法练习（Kattis）
)

// CollectiveScores 集体评分，10 个维度均为 [0,20] 分
// TotalScore 为派生字段，只能由评分引擎重算，不单独编辑
type CollectiveScores struct {
	UIDesign          float64 `json:"uiDesign"`
	APIImplementation float64 `json:"apiImplementation"`
	Database          float64 `json:"database"`
	Authentication    float64 `json:"authentication"`
	CRUDOperations    float64 `json:"crudOperations"`
	RequiredFeatures  float64 `json:"requiredFeatures"`
	BonusFeatures     float64 `json:"bonusFeatures"`
	Documentation     float64 `json:"documentation"`
	TeamCollaboration float64 `json:"teamCollaboration"`
	Deployment        float64 `json:"deployment"`

	TotalScore float64 `json:"totalScore"`
}

// field 按维度键访问字段指针
func (c *CollectiveScores) field(criterion string) *float64 {
	switch criterion {
	case CriterionUIDesign:
		return &c.UIDesign
	case CriterionAPIImplementation:
		return &c.APIImplementation
	case CriterionDatabase:
		return &c.Database
	case CriterionAuthentication:
		return &c.Authentication
	case CriterionCRUDOperations:
		return &c.CRUDOperations
	case CriterionRequiredFeatures:
		return &c.RequiredFeatures
	case CriterionBonusFeatures:
		return &c.BonusFeatures
	case CriterionDocumentation:
		return &c.Documentation
	case CriterionTeamCollaboration:
		return &c.TeamCollaboration
	case CriterionDeployment:
		return &c.Deployment
	}
	return nil
}

// Get 按维度键读取分值，未知维度返回 false
func (c *CollectiveScores) Get(criterion string) (float64, bool) {
	p := c.field(criterion)
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Set 按维度键写入分值，未知维度返回 false
func (c *CollectiveScores) Set(criterion string, value float64) bool {
	p := c.field(criterion)
	if p == nil {
		return false
	}
	*p = value
	return true
}

// Values 按固定维度顺序返回 10 个原始分值
func (c *CollectiveScores) Values() []float64 {
	values := make([]float64, 0, len(CollectiveCriteria))
	for _, criterion := range CollectiveCriteria {
		v, _ := c.Get(criterion)
		values = append(values, v)
	}
	return values
}

// MemberScore 单个成员的个人评分
type MemberScore struct {
	WebProgramming float64 `json:"webProgramming"`
	Algorithmic    float64 `json:"algorithmic"`

	TotalScore float64 `json:"totalScore"`
}

// EvaluationRecord 一支队伍的完整评分记录
// Individual 以成员显示名为键，成员数量由报名数据决定
type EvaluationRecord struct {
	Collective CollectiveScores        `json:"collective"`
	Individual map[string]*MemberScore `json:"individual"`
	FinalScore float64                 `json:"finalScore"`
}

// NewEvaluationRecord 创建全零评分记录，并为给定成员建立条目
func NewEvaluationRecord(memberNames ...string) *EvaluationRecord {
	rec := &EvaluationRecord{
		Individual: make(map[string]*MemberScore),
	}
	for _, name := range memberNames {
		rec.Individual[name] = &MemberScore{}
	}
	return rec
}

// EnsureMember 确保成员条目存在，返回该条目
func (r *EvaluationRecord) EnsureMember(name string) *MemberScore {
	if r.Individual == nil {
		r.Individual = make(map[string]*MemberScore)
	}
	ms, ok := r.Individual[name]
	if !ok {
		ms = &MemberScore{}
		r.Individual[name] = ms
	}
	return ms
}

// Clone 深拷贝评分记录（用于序列化快照）
func (r *EvaluationRecord) Clone() *EvaluationRecord {
	cp := &EvaluationRecord{
		Collective: r.Collective,
		FinalScore: r.FinalScore,
		Individual: make(map[string]*MemberScore, len(r.Individual)),
	}
	for name, ms := range r.Individual {
		m := *ms
		cp.Individual[name] = &m
	}
	return cp
}
