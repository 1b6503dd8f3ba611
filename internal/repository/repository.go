// Package repository 提供数据访问层
package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// ListFilter 列表查询过滤器
type ListFilter struct {
	Status   string     `json:"status,omitempty"`
	Since    *time.Time `json:"since,omitempty"`
	Until    *time.Time `json:"until,omitempty"`
	Offset   int        `json:"offset"`
	Limit    int        `json:"limit"`
	OrderBy  string     `json:"order_by,omitempty"`
	OrderDir string     `json:"order_dir,omitempty"` // asc/desc
}

// DefaultListFilter 返回默认过滤器
func DefaultListFilter() ListFilter {
	return ListFilter{
		Offset:   0,
		Limit:    20,
		OrderBy:  "received_at",
		OrderDir: "desc",
	}
}

// WithLimit 设置限制
func (f ListFilter) WithLimit(limit int) ListFilter {
	if limit > 0 {
		f.Limit = limit
	}
	return f
}

// WithOffset 设置偏移
func (f ListFilter) WithOffset(offset int) ListFilter {
	if offset >= 0 {
		f.Offset = offset
	}
	return f
}

// WithStatus 设置状态过滤
func (f ListFilter) WithStatus(status string) ListFilter {
	f.Status = status
	return f
}

// WithTimeRange 设置接收时间范围
func (f ListFilter) WithTimeRange(since, until time.Time) ListFilter {
	if !since.IsZero() {
		f.Since = &since
	}
	if !until.IsZero() {
		f.Until = &until
	}
	return f
}

// 排序列白名单，过滤器之外的列名一律回落到接收时间
var orderColumns = map[string]bool{
	"received_at":        true,
	"status":             true,
	"total_assignments":  true,
	"solve_time_seconds": true,
}

func (f ListFilter) orderClause() string {
	col := f.OrderBy
	if !orderColumns[col] {
		col = "received_at"
	}
	dir := "DESC"
	if strings.EqualFold(f.OrderDir, "asc") {
		dir = "ASC"
	}
	return col + " " + dir
}

// DB 数据库接口
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Scanner 行扫描接口，*sql.Row 与 *sql.Rows 都满足
type Scanner interface {
	Scan(dest ...interface{}) error
}
