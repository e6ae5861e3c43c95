package model

import "fmt"

// MemberRole 成员角色
type MemberRole string

const (
	RoleLeader  MemberRole = "leader"  // 队长
	RoleMember1 MemberRole = "member1" // 成员1
	RoleMember2 MemberRole = "member2" // 成员2
)

// 成员姓名为空时的占位显示名
const (
	DefaultLeaderName  = "Leader"
	DefaultMember1Name = "Member 1"
	DefaultMember2Name = "Member 2"
)

// Member 报名表中的单个成员信息
// 所有字段缺省为空字符串，不做格式校验
type Member struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Cycle         string `json:"cycle"`
	Level         string `json:"level"`
	Department    string `json:"department"`
	GitHub        string `json:"github"`
	Experience    string `json:"experience"`
	FrontendSkill string `json:"frontendSkill"`
	BackendSkill  string `json:"backendSkill"`
	DatabaseSkill string `json:"databaseSkill"`
	DevopsSkill   string `json:"devopsSkill"`
	Languages     string `json:"languages"`
}

// Team 参赛队伍，从报名表加载后不可修改
type Team struct {
	Timestamp   string `json:"timestamp"`
	Name        string `json:"teamName"`
	Description string `json:"teamDescription"`

	Leader  Member `json:"leader"`
	Member1 Member `json:"member1"`
	Member2 Member `json:"member2"`

	Projects           string `json:"projects"`
	PreviousHackathons string `json:"previousHackathons"`
	HowHeard           string `json:"howHeard"`
	SpecialNeeds       string `json:"specialNeeds"`
}

// SyntheticTeamName 队名缺失时按行号合成队名
// 注意：行顺序变化时合成名不稳定（与报名表行号绑定）
func SyntheticTeamName(rowIndex int) string {
	return fmt.Sprintf("Team_%d", rowIndex)
}

// MemberDisplayNames 返回三个成员的显示名（按队长、成员1、成员2顺序）
// 姓名为空时使用角色占位名，保证评分表始终有三个键
func (t *Team) MemberDisplayNames() [3]string {
	names := [3]string{t.Leader.Name, t.Member1.Name, t.Member2.Name}
	defaults := [3]string{DefaultLeaderName, DefaultMember1Name, DefaultMember2Name}
	for i := range names {
		if names[i] == "" {
			names[i] = defaults[i]
		}
	}
	return names
}
