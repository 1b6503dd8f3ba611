package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/crewroster/crewroster/pkg/model"
)

// stubDB 记录 ExecContext 调用，其余方法不会被建表与写入路径触发
type stubDB struct {
	lastQuery string
	lastArgs  []interface{}
}

func (s *stubDB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	s.lastQuery = query
	s.lastArgs = args
	return stubResult{}, nil
}

func (s *stubDB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, sql.ErrConnDone
}

func (s *stubDB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

type stubResult struct{}

func (stubResult) LastInsertId() (int64, error) { return 0, nil }
func (stubResult) RowsAffected() (int64, error) { return 0, nil }

func TestRunRepository_Create_默认填充追踪字段(t *testing.T) {
	db := &stubDB{}
	repo := NewRunRepository(db)

	run := &model.RosterRun{
		Status:      "optimal",
		WorkerCount: 4,
		SiteCount:   2,
		DayCount:    5,
		Request:     json.RawMessage(`{"days":["monday"]}`),
	}
	if err := repo.Create(context.Background(), run); err != nil {
		t.Fatalf("Create() 失败: %v", err)
	}

	if run.ID == uuid.Nil {
		t.Error("未生成记录ID")
	}
	if run.CreatedAt.IsZero() || run.UpdatedAt.IsZero() {
		t.Error("未填充创建/更新时间")
	}
	if run.ReceivedAt.IsZero() {
		t.Error("未回填接收时间")
	}

	if !strings.Contains(db.lastQuery, "INSERT INTO roster_runs") {
		t.Errorf("写入语句异常: %s", db.lastQuery)
	}
	if len(db.lastArgs) != 12 {
		t.Fatalf("参数个数 = %d, 期望 12", len(db.lastArgs))
	}
	if db.lastArgs[0] != run.ID {
		t.Errorf("首个参数应为记录ID: %v", db.lastArgs[0])
	}
	if db.lastArgs[4] != "optimal" {
		t.Errorf("状态参数 = %v", db.lastArgs[4])
	}
	// 空响应落 NULL
	if db.lastArgs[11] != nil {
		t.Errorf("空响应应写入 NULL, 实际 %v", db.lastArgs[11])
	}
}

func TestRunRepository_Create_保留已有标识(t *testing.T) {
	db := &stubDB{}
	repo := NewRunRepository(db)

	existing := model.NewBaseModel()
	run := &model.RosterRun{BaseModel: existing, Status: "feasible"}
	if err := repo.Create(context.Background(), run); err != nil {
		t.Fatalf("Create() 失败: %v", err)
	}

	if run.ID != existing.ID {
		t.Errorf("已有ID被覆盖: %s -> %s", existing.ID, run.ID)
	}
}
