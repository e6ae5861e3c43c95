package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/Nameless0l/hackverse-preselection/internal/config"
	"github.com/Nameless0l/hackverse-preselection/internal/evalcsv"
	"github.com/Nameless0l/hackverse-preselection/internal/history"
	"github.com/Nameless0l/hackverse-preselection/internal/roster"
	"github.com/Nameless0l/hackverse-preselection/internal/server"
	"github.com/Nameless0l/hackverse-preselection/internal/store"
	"github.com/Nameless0l/hackverse-preselection/internal/util"
)

var (
	port       = flag.Int("port", 0, "服务端口 (config.toml 优先；仅当未显式配置 port 时生效)")
	devMode    = flag.Bool("dev", false, "开发模式")
	dataDir    = flag.String("dataDir", "", "数据目录 (覆盖配置文件)")
	rosterFile = flag.String("roster", "", "报名表路径 (覆盖配置文件)")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  Hackverse - 黑客松预选评审工具")
	fmt.Println("==========================================")

	// 加载配置
	cfg, info, err := config.LoadConfigWithInfo()
	if err != nil {
		log.Printf("加载配置失败，使用默认配置: %v", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	// 命令行参数覆盖配置
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}
	if *rosterFile != "" {
		cfg.Data.RosterFile = *rosterFile
	}

	// 确保数据目录存在
	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		log.Printf("创建数据目录失败: %v", err)
		dataDir = cfg.Data.DataDir
	} else {
		fmt.Printf("数据目录: %s\n", dataDir)
	}

	// 加载报名表（不可读时回退到内置示例数据）
	result := roster.LoadFile(config.RosterPath(cfg, dataDir))
	if result.Warning != "" {
		fmt.Printf("提示: %s\n", result.Warning)
	}
	fmt.Printf("已加载 %d 支队伍 (%s)\n", len(result.Teams), result.SourcePath)

	// 初始化评审存储
	evalStore := store.NewEvalStore()
	evalStore.SetTeams(result.Teams)
	evalStore.UpdateSettings(map[string]interface{}{
		"qualifierCount": cfg.Event.QualifierCount,
		"chartTopN":      cfg.Event.ChartTopN,
	})

	// 恢复已有评分文件（不存在则全新开始）
	evalPath := config.EvaluationPath(cfg, dataDir)
	loaded, err := evalcsv.Load(evalPath)
	if err != nil {
		if !errors.Is(err, evalcsv.ErrNotFound) {
			log.Printf("读取评分文件失败，全新开始: %v", err)
		}
		loaded = nil
	} else {
		fmt.Printf("已恢复评分文件: %s (%d 支队伍)\n", evalPath, len(loaded))
	}
	evalStore.InitEvaluations(loaded)

	// 打开操作历史库（失败不影响评审）
	hist, err := history.New(filepath.Join(dataDir, "hackverse.db"))
	if err != nil {
		log.Printf("打开历史库失败，历史记录禁用: %v", err)
		hist = nil
	} else {
		defer hist.Close()
	}

	// 创建服务器
	srv := server.NewServer(cfg, evalStore, dataDir, hist)

	// 构建地址
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	// 启动服务器
	go func() {
		fmt.Printf("服务启动中，监听端口 %d ...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 打开浏览器
	if !cfg.Server.DevMode {
		fmt.Printf("正在打开浏览器: %s\n", url)
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Printf("无法自动打开浏览器，请手动访问: %s\n", url)
		}
	} else {
		fmt.Printf("开发模式: 请访问 %s\n", url)
	}

	fmt.Println("\n按 Ctrl+C 停止服务...")

	// 等待信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n正在关闭服务...")
	if err := srv.SaveNow(); err != nil {
		log.Printf("退出前保存评分失败: %v", err)
	}
}
