// Package config 提供配置管理
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/crewroster/crewroster/pkg/scheduler/objective"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig
	Solver    SolverConfig
	Weights   objective.Weights
	Database  DatabaseConfig
	Log       LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig HTTP服务配置
type ServerConfig struct {
	Name            string
	Env             string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
	APIKeys         []string
}

// SolverConfig 求解器配置
type SolverConfig struct {
	Budget      time.Duration
	Profile     string
	WeightsFile string
}

// DatabaseConfig 数据库配置，未设置 DB_HOST 时排班历史持久化关闭
type DatabaseConfig struct {
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Enabled 是否启用数据库
func (c *DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

// DSN 返回数据库连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string
	Pretty bool
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled   bool
	PerMinute int
	Burst     int
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Name:            getEnv("APP_NAME", "crewroster"),
			Env:             getEnv("APP_ENV", "development"),
			Port:            getEnvInt("APP_PORT", 7031),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
			CORSOrigins:     getEnvList("API_CORS_ORIGINS", []string{"*"}),
			APIKeys:         getEnvList("API_KEYS", nil),
		},
		Solver: SolverConfig{
			Budget:      getEnvDuration("SOLVER_BUDGET", 10*time.Second),
			Profile:     getEnv("SOLVER_PROFILE", ""),
			WeightsFile: getEnv("WEIGHTS_FILE", ""),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", ""),
			Port:            getEnvInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "crewroster"),
			User:            getEnv("DB_USER", "crewroster"),
			Password:        getEnv("DB_PASSWORD", ""),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("APP_LOG_LEVEL", "info"),
			Pretty: getEnvBool("APP_LOG_PRETTY", false),
		},
		RateLimit: RateLimitConfig{
			Enabled:   getEnvBool("API_RATE_LIMIT_ENABLED", true),
			PerMinute: getEnvInt("API_RATE_LIMIT", 120),
			Burst:     getEnvInt("API_RATE_LIMIT_BURST", 30),
		},
	}

	weights, err := resolveWeights(cfg.Solver)
	if err != nil {
		return nil, err
	}
	cfg.Weights = weights

	// 写超时必须长于求解预算，否则长求解的响应会被截断
	if cfg.Server.WriteTimeout < cfg.Solver.Budget+5*time.Second {
		cfg.Server.WriteTimeout = cfg.Solver.Budget + 5*time.Second
	}

	return cfg, nil
}

// resolveWeights 按预置名称取权重，再用权重文件覆盖
func resolveWeights(sc SolverConfig) (objective.Weights, error) {
	weights, err := objective.Profile(sc.Profile)
	if err != nil {
		return objective.Weights{}, err
	}

	if sc.WeightsFile == "" {
		return weights, nil
	}

	data, err := os.ReadFile(sc.WeightsFile)
	if err != nil {
		return objective.Weights{}, fmt.Errorf("读取权重文件失败: %w", err)
	}
	if err := yaml.Unmarshal(data, &weights); err != nil {
		return objective.Weights{}, fmt.Errorf("解析权重文件失败: %w", err)
	}
	if err := weights.Validate(); err != nil {
		return objective.Weights{}, fmt.Errorf("权重文件非法: %w", err)
	}

	return weights, nil
}

// IsDevelopment 检查是否为开发环境
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction 检查是否为生产环境
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// 辅助函数
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
