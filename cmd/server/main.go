// CrewRoster 保洁排班求解服务
// 主程序入口

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/crewroster/crewroster/internal/config"
	"github.com/crewroster/crewroster/internal/database"
	"github.com/crewroster/crewroster/internal/handler"
	"github.com/crewroster/crewroster/internal/metrics"
	"github.com/crewroster/crewroster/internal/middleware"
	"github.com/crewroster/crewroster/internal/repository"
	"github.com/crewroster/crewroster/internal/security"
	"github.com/crewroster/crewroster/pkg/logger"
	"github.com/crewroster/crewroster/pkg/scheduler"
)

// 构建信息（通过 ldflags 注入）
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// .env 不存在时静默忽略，环境变量优先
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logFormat := "json"
	if cfg.Log.Pretty || cfg.IsDevelopment() {
		logFormat = "console"
	}
	logger.Init(logger.Config{
		Level:  cfg.Log.Level,
		Format: logFormat,
	})

	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Str("env", cfg.Server.Env).
		Msg("CrewRoster 排班求解服务启动中")

	// 求解历史持久化（可选；未配置 DB_HOST 时关闭）
	var runRepo repository.RunRepositoryInterface
	var db *database.DB
	if cfg.Database.Enabled() {
		db, err = database.New(&cfg.Database)
		if err != nil {
			logger.WithError(err).Msg("数据库连接失败，求解历史持久化关闭")
		} else {
			repo := repository.NewRunRepository(db)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := repo.EnsureSchema(ctx); err != nil {
				logger.WithError(err).Msg("初始化求解历史表失败，求解历史持久化关闭")
			} else {
				runRepo = repo
			}
			cancel()
		}
	}

	// 连接池指标上报
	if db != nil {
		go func() {
			ticker := time.NewTicker(15 * time.Second)
			defer ticker.Stop()
			for range ticker.C {
				s := db.Stats()
				metrics.SetDBConnections(s.OpenConnections, s.Idle, s.InUse)
			}
		}()
	}

	// 排班器
	sched := scheduler.New()
	sched.SetWeights(cfg.Weights)
	sched.SetBudget(cfg.Solver.Budget)

	// 处理器
	rosterHandler := handler.NewRosterHandler(sched, runRepo, cfg.Solver.Budget)
	runsHandler := handler.NewRunsHandler(runRepo)
	statsHandler := handler.NewStatsHandler()

	mux := http.NewServeMux()

	// ========================================
	// 系统端点
	// ========================================

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"crewroster"}`))
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.Health(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"status":"degraded","database":"unreachable"}`))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	})

	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"version":"%s","build_time":"%s","git_commit":"%s"}`, Version, BuildTime, GitCommit)
	})

	// Prometheus 指标端点
	mux.Handle("/metrics", metrics.Handler())

	// ========================================
	// API v1 端点
	// ========================================

	// API 根路由
	mux.HandleFunc("/api/v1/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"message": "CrewRoster 排班求解 API v1",
			"endpoints": {
				"roster": "POST /api/v1/roster",
				"constraints": "GET /api/v1/constraints",
				"runs": {
					"list": "GET /api/v1/runs",
					"get": "GET /api/v1/runs/{id}"
				},
				"stats": {
					"coverage": "POST /api/v1/stats/coverage",
					"balance": "POST /api/v1/stats/balance"
				}
			}
		}`))
	})

	// 排班求解 API
	mux.HandleFunc("/api/v1/roster", rosterHandler.Solve)

	// 约束库 API
	mux.HandleFunc("/api/v1/constraints", handler.ConstraintLibrary)

	// 求解历史 API
	mux.HandleFunc("/api/v1/runs", runsHandler.List)
	mux.HandleFunc("/api/v1/runs/", runsHandler.Get)

	// 结果统计分析 API
	mux.HandleFunc("/api/v1/stats/coverage", statsHandler.Coverage)
	mux.HandleFunc("/api/v1/stats/balance", statsHandler.Balance)

	// ========================================
	// 中间件
	// ========================================

	var limiter *security.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = security.NewRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)
	}
	verifier := security.NewAPIKeyVerifier(cfg.Server.APIKeys)

	// 执行顺序：requestID -> rateLimit -> cors -> logging -> auth -> handler
	chain := middleware.RequestID(
		middleware.RateLimit(limiter)(
			middleware.CORS(cfg.Server.CORSOrigins)(
				middleware.Logging(
					middleware.APIKeyAuth(verifier, []string{"/health", "/ready", "/version", "/metrics"})(
						middleware.Recovery(mux))))))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 启动服务器（非阻塞）
	go func() {
		logger.Info().
			Int("port", cfg.Server.Port).
			Str("version", Version).
			Dur("solver_budget", cfg.Solver.Budget).
			Bool("run_history", runRepo != nil).
			Str("url", fmt.Sprintf("http://localhost:%d", cfg.Server.Port)).
			Msg("服务器启动")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("服务器启动失败")
			os.Exit(1)
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("服务器关闭失败")
		os.Exit(1)
	}

	if db != nil {
		_ = db.Close()
	}

	logger.Info().Msg("服务器已关闭")
}
