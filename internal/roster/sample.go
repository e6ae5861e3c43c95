package roster

import "github.com/Nameless0l/hackverse-preselection/internal/model"

// SampleTeams 内置示例数据
// 报名表完全不可读时的兜底，保证系统始终有数据可操作
func SampleTeams() []*model.Team {
	return []*model.Team{
		{
			Timestamp:   "16/04/2025 13:09:46",
			Name:        "TEK",
			Description: "L'informatique au service du développement",
			Leader: model.Member{
				Name:   "DJOMO DE DJOMO Karlyn",
				Email:  "dedjomokarlyn@gmail.com",
				GitHub: "https://github.com/DeDjomo",
			},
			Member1: model.Member{
				Name:   "MBIAKE Emmanuella Rose",
				Email:  "emmanuellambiake127@gmail.com",
				GitHub: "https://github.com/EmmanuellaM",
			},
			Member2: model.Member{
				Name:   "DJUSSE TAMENO Christian Tresor",
				Email:  "christiandjusse@gmail.com",
				GitHub: "https://github.com/Djusse",
			},
		},
		{
			Timestamp:   "16/04/2025 14:30:21",
			Name:        "CodeMasters",
			Description: "Programmation et innovation",
			Leader: model.Member{
				Name:   "MBARGA Jean",
				Email:  "mbarga.jean@gmail.com",
				GitHub: "https://github.com/MbargaJ",
			},
			Member1: model.Member{
				Name:   "KAMGA Pierre",
				Email:  "pierre.kamga@gmail.com",
				GitHub: "https://github.com/PierreK",
			},
			Member2: model.Member{
				Name:   "NANA Claire",
				Email:  "claire.nana@gmail.com",
				GitHub: "https://github.com/ClaireN",
			},
		},
		{
			Timestamp:   "16/04/2025 15:45:33",
			Name:        "DevWarriors",
			Description: "Développement d'applications mobiles",
			Leader: model.Member{
				Name:   "FOUDA Marie",
				Email:  "marie.fouda@gmail.com",
				GitHub: "https://github.com/FoudaM",
			},
			Member1: model.Member{
				Name:   "ESSOMBA Paul",
				Email:  "paul.essomba@gmail.com",
				GitHub: "https://github.com/PaulE",
			},
			Member2: model.Member{
				Name:   "BELINGA Serge",
				Email:  "serge.belinga@gmail.com",
				GitHub: "https://github.com/SergeB",
			},
		},
	}
}
