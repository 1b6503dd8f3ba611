// Package database 封装求解历史库的 PostgreSQL 连接
// 历史持久化是可选能力，未配置 DSN 时服务以无状态模式运行
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/crewroster/crewroster/internal/config"
	"github.com/crewroster/crewroster/pkg/logger"

	_ "github.com/lib/pq" // PostgreSQL 驱动
)

// slowQueryThreshold 超过该耗时的语句记入告警日志
const slowQueryThreshold = 100 * time.Millisecond

// DB 求解历史库连接
// 写入仅发生在求解完成后的单条插入，读取为历史查询，不需要事务封装
type DB struct {
	*sql.DB
	cfg *config.DatabaseConfig
}

// New 建立连接并验证可达性
func New(cfg *config.DatabaseConfig) (*DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("打开历史库连接失败: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("历史库连接测试失败: %w", err)
	}

	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Name).
		Msg("求解历史库连接成功")

	return &DB{DB: db, cfg: cfg}, nil
}

// Close 关闭连接
func (db *DB) Close() error {
	if db.DB == nil {
		return nil
	}
	logger.Info().Msg("关闭求解历史库连接")
	return db.DB.Close()
}

// Health 供就绪探针检查历史库可达性
func (db *DB) Health(ctx context.Context) error {
	return db.PingContext(ctx)
}

// ExecContext 执行写入语句并记录慢查询
func (db *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := db.DB.ExecContext(ctx, query, args...)
	warnSlow(query, start)
	return result, err
}

// QueryContext 执行多行查询并记录慢查询
func (db *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := db.DB.QueryContext(ctx, query, args...)
	warnSlow(query, start)
	return rows, err
}

// QueryRowContext 执行单行查询
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return db.DB.QueryRowContext(ctx, query, args...)
}

// warnSlow 记录超过阈值的慢SQL
func warnSlow(query string, start time.Time) {
	duration := time.Since(start)
	if duration <= slowQueryThreshold {
		return
	}
	if len(query) > 200 {
		query = query[:200] + "..."
	}
	logger.Warn().
		Str("query", query).
		Dur("duration", duration).
		Msg("慢SQL查询")
}
