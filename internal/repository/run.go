package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/crewroster/crewroster/pkg/model"
)

// RunRepositoryInterface 求解历史仓储接口
type RunRepositoryInterface interface {
	EnsureSchema(ctx context.Context) error
	Create(ctx context.Context, run *model.RosterRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.RosterRun, error)
	List(ctx context.Context, filter ListFilter) ([]*model.RosterRun, int, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// RunRepository 求解历史仓储实现
type RunRepository struct {
	db DB
}

// NewRunRepository 创建求解历史仓储
func NewRunRepository(db DB) *RunRepository {
	return &RunRepository{db: db}
}

const runColumns = `id, created_at, updated_at, received_at, status, worker_count,
		site_count, day_count, total_assignments, solve_time_seconds, request, response`

// EnsureSchema 建表，幂等
func (r *RunRepository) EnsureSchema(ctx context.Context) error {
	ddl := `
		CREATE TABLE IF NOT EXISTS roster_runs (
			id UUID PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			received_at TIMESTAMPTZ NOT NULL,
			status TEXT NOT NULL,
			worker_count INT NOT NULL,
			site_count INT NOT NULL,
			day_count INT NOT NULL,
			total_assignments INT NOT NULL,
			solve_time_seconds DOUBLE PRECISION NOT NULL,
			request JSONB,
			response JSONB
		);
		CREATE INDEX IF NOT EXISTS idx_roster_runs_received_at
			ON roster_runs (received_at DESC);
	`
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("初始化求解历史表失败: %w", err)
	}
	return nil
}

// Create 写入一条求解记录
func (r *RunRepository) Create(ctx context.Context, run *model.RosterRun) error {
	if run.ID == uuid.Nil {
		run.BaseModel = model.NewBaseModel()
	}
	if run.ReceivedAt.IsZero() {
		run.ReceivedAt = run.CreatedAt
	}

	query := `
		INSERT INTO roster_runs (` + runColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		run.ID, run.CreatedAt, run.UpdatedAt, run.ReceivedAt, run.Status,
		run.WorkerCount, run.SiteCount, run.DayCount, run.TotalAssignments,
		run.SolveTimeSeconds, nullableJSON(run.Request), nullableJSON(run.Response),
	)
	if err != nil {
		return fmt.Errorf("写入求解记录失败: %w", err)
	}

	return nil
}

// GetByID 根据ID获取求解记录，不存在时返回 (nil, nil)
func (r *RunRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.RosterRun, error) {
	query := `SELECT ` + runColumns + ` FROM roster_runs WHERE id = $1`

	run, err := r.scanRun(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询求解记录失败: %w", err)
	}
	return run, nil
}

// List 按过滤器列出求解记录，返回记录与总数
func (r *RunRepository) List(ctx context.Context, filter ListFilter) ([]*model.RosterRun, int, error) {
	var conditions []string
	var args []interface{}
	argNum := 1

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argNum))
		args = append(args, filter.Status)
		argNum++
	}
	if filter.Since != nil {
		conditions = append(conditions, fmt.Sprintf("received_at >= $%d", argNum))
		args = append(args, *filter.Since)
		argNum++
	}
	if filter.Until != nil {
		conditions = append(conditions, fmt.Sprintf("received_at <= $%d", argNum))
		args = append(args, *filter.Until)
		argNum++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM roster_runs %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("统计求解记录失败: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT `+runColumns+`
		FROM roster_runs %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, whereClause, filter.orderClause(), argNum, argNum+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("查询求解记录列表失败: %w", err)
	}
	defer rows.Close()

	var runs []*model.RosterRun
	for rows.Next() {
		run, err := r.scanRun(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("扫描求解记录失败: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("遍历求解记录失败: %w", err)
	}

	return runs, total, nil
}

// DeleteOlderThan 清理早于截止时间的记录，返回删除行数
func (r *RunRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM roster_runs WHERE received_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("清理求解记录失败: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("统计清理行数失败: %w", err)
	}
	return deleted, nil
}

// scanRun 扫描单条记录，*sql.Row 与 *sql.Rows 共用
func (r *RunRepository) scanRun(s Scanner) (*model.RosterRun, error) {
	run := &model.RosterRun{}
	var request, response []byte

	err := s.Scan(
		&run.ID, &run.CreatedAt, &run.UpdatedAt, &run.ReceivedAt, &run.Status,
		&run.WorkerCount, &run.SiteCount, &run.DayCount, &run.TotalAssignments,
		&run.SolveTimeSeconds, &request, &response,
	)
	if err != nil {
		return nil, err
	}

	run.Request = json.RawMessage(request)
	run.Response = json.RawMessage(response)
	return run, nil
}

// nullableJSON 空内容落 NULL 而不是空串
func nullableJSON(raw json.RawMessage) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
