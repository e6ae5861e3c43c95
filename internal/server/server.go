package server

import (
	"embed"
	"io/fs"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/Nameless0l/hackverse-preselection/internal/api"
	"github.com/Nameless0l/hackverse-preselection/internal/config"
	"github.com/Nameless0l/hackverse-preselection/internal/evalcsv"
	"github.com/Nameless0l/hackverse-preselection/internal/history"
	"github.com/Nameless0l/hackverse-preselection/internal/store"
)

//go:embed all:web
var staticFiles embed.FS

// Server HTTP服务器
type Server struct {
	router  *gin.Engine
	store   *store.EvalStore
	cfg     *config.AppConfig
	dataDir string
	api     *api.Handler
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig, evalStore *store.EvalStore, dataDir string, hist *history.Store) *Server {
	devMode := cfg.Server.DevMode
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		router:  gin.Default(),
		store:   evalStore,
		cfg:     cfg,
		dataDir: dataDir,
		api:     api.NewHandler(evalStore, cfg, dataDir, hist),
	}

	s.setupRoutes(devMode)

	return s
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(devMode bool) {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// API 路由
	apiGroup := s.router.Group("/api")
	{
		s.api.RegisterRoutes(apiGroup)
	}

	// 静态资源
	if devMode {
		// 开发模式：代理到前端开发服务器
		s.router.NoRoute(func(c *gin.Context) {
			c.Redirect(http.StatusTemporaryRedirect, "http://localhost:5173"+c.Request.URL.Path)
		})
	} else {
		// 生产模式：使用embed的静态资源
		sub, _ := fs.Sub(staticFiles, "web")

		s.router.GET("/", func(c *gin.Context) {
			data, _ := fs.ReadFile(sub, "index.html")
			c.Data(http.StatusOK, "text/html; charset=utf-8", data)
		})

		// 单页 fallback
		s.router.NoRoute(func(c *gin.Context) {
			data, _ := fs.ReadFile(sub, "index.html")
			c.Data(http.StatusOK, "text/html; charset=utf-8", data)
		})
	}
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// SaveNow 立即把评分状态写入评分文件（退出前调用）
func (s *Server) SaveNow() error {
	order, evals := s.store.EvaluationsSnapshot()

	backupDir := ""
	if s.cfg.Data.AutoBackup {
		backupDir = filepath.Join(s.dataDir, "backups")
	}

	return evalcsv.Save(config.EvaluationPath(s.cfg, s.dataDir), order, evals, backupDir)
}

// GetStore 获取存储（用于测试）
func (s *Server) GetStore() *store.EvalStore {
	return s.store
}
