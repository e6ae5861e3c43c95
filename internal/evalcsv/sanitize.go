package evalcsv

import (
	"strconv"
	"strings"
	"unicode"
)

// SanitizeMemberName 将成员显示名转换为列键 token
// 规则：去掉标点，空白折叠为单个 "-"。token 不包含 "_"（"_" 是列名的结构分隔符），
// 因此可以安全地嵌入 individual_<token>_<field> 列名中
func SanitizeMemberName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	token := strings.Join(strings.Fields(b.String()), "-")
	if token == "" {
		token = "member"
	}
	return token
}

// displayNameFromToken 旧版行没有 _name 列时的显示名兜底恢复
// 把分隔符还原为空格；名字中原有的标点无法恢复（有损）
func displayNameFromToken(token string) string {
	return strings.ReplaceAll(token, "-", " ")
}

// uniqueToken 保证 token 在一行内唯一：冲突时追加数字后缀
// 两个不同成员名净化后撞到同一 token 时不再静默合并
func uniqueToken(token string, used map[string]bool) string {
	candidate := token
	for i := 2; used[candidate]; i++ {
		candidate = token + strconv.Itoa(i)
	}
	used[candidate] = true
	return candidate
}
