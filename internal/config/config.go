package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig 应用配置
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Event  EventConfig  `toml:"event"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir        string `toml:"data_dir"`
	RosterFile     string `toml:"roster_file"`     // 报名表路径（相对数据目录或绝对路径）
	EvaluationFile string `toml:"evaluation_file"` // 评分文件名（位于数据目录下）
	AutoBackup     bool   `toml:"auto_backup"`
}

// EventConfig 评审活动配置
type EventConfig struct {
	Name           string  `toml:"name"`
	MaxScore       float64 `toml:"max_score"`       // 单项评分上限
	QualifierCount int     `toml:"qualifier_count"` // 晋级队伍数量
	ChartTopN      int     `toml:"chart_top_n"`     // 图表展示的队伍数量
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20254,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir:        "data",
			RosterFile:     "data.csv",
			EvaluationFile: "evaluations.csv",
			AutoBackup:     true,
		},
		Event: EventConfig{
			Name:           "HACKVERSE 2025",
			MaxScore:       20,
			QualifierCount: 10,
			ChartTopN:      15,
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfigWithInfo 从 config.toml 加载配置并返回元信息
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{}
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// 配置文件不存在，使用默认配置
			return config, info, nil
		}
		return nil, info, err
	}

	info.PortSpecified = isPortSpecifiedInToml(data)

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, info, err
	}

	// 环境变量覆盖（用于 E2E / 本地运行）
	if v := os.Getenv("HACKVERSE_ROSTER"); v != "" {
		config.Data.RosterFile = v
	}

	return config, info, nil
}

// LoadConfig 从 config.toml 加载配置
// 配置文件位于可执行文件同目录下
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

// SaveConfig 保存配置到 config.toml
func SaveConfig(config *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// EnsureDataDir 确保数据目录存在
// 相对路径基于可执行文件所在目录，绝对路径原样使用
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		dataDir = filepath.Join(exeDir, dataDir)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	// 创建子目录
	subdirs := []string{"uploads", "exports", "backups"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}

// RosterPath 报名表的绝对路径
func RosterPath(config *AppConfig, dataDir string) string {
	if filepath.IsAbs(config.Data.RosterFile) {
		return config.Data.RosterFile
	}
	return filepath.Join(dataDir, config.Data.RosterFile)
}

// EvaluationPath 评分文件的绝对路径
func EvaluationPath(config *AppConfig, dataDir string) string {
	return filepath.Join(dataDir, config.Data.EvaluationFile)
}
