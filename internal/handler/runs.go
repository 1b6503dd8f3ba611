package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/crewroster/crewroster/internal/repository"
	"github.com/crewroster/crewroster/pkg/errors"
	"github.com/crewroster/crewroster/pkg/model"
)

// RunsHandler 求解历史查询处理器
type RunsHandler struct {
	runs repository.RunRepositoryInterface
}

// NewRunsHandler 创建求解历史查询处理器
// runs 为 nil 时所有查询返回404（持久化未启用）
func NewRunsHandler(runs repository.RunRepositoryInterface) *RunsHandler {
	return &RunsHandler{runs: runs}
}

// ListOutput 求解历史列表响应
type ListOutput struct {
	Runs   []*model.RosterRun `json:"runs"`
	Total  int                `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

// List 处理 GET /api/v1/runs
// 支持 limit/offset/status 查询参数
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET方法"))
		return
	}
	if h.runs == nil {
		respondError(w, errors.New(errors.CodeNotFound, "求解历史持久化未启用"))
		return
	}

	filter := repository.DefaultListFilter()
	q := r.URL.Query()
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter = filter.WithLimit(limit)
	}
	if offset, err := strconv.Atoi(q.Get("offset")); err == nil {
		filter = filter.WithOffset(offset)
	}
	if status := q.Get("status"); status != "" {
		filter = filter.WithStatus(status)
	}

	runs, total, err := h.runs.List(r.Context(), filter)
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "查询求解历史失败"))
		return
	}
	if runs == nil {
		runs = []*model.RosterRun{}
	}

	respondJSON(w, http.StatusOK, ListOutput{
		Runs:   runs,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// Get 处理 GET /api/v1/runs/{id}
func (h *RunsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET方法"))
		return
	}
	if h.runs == nil {
		respondError(w, errors.New(errors.CodeNotFound, "求解历史持久化未启用"))
		return
	}

	rawID := strings.TrimPrefix(r.URL.Path, "/api/v1/runs/")
	id, err := uuid.Parse(rawID)
	if err != nil {
		respondError(w, errors.New(errors.CodeInvalidInput, "无效的记录ID格式"))
		return
	}

	run, err := h.runs.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeDatabaseError, "查询求解记录失败"))
		return
	}
	if run == nil {
		respondError(w, errors.NotFound("求解记录", rawID))
		return
	}

	respondJSON(w, http.StatusOK, run)
}
