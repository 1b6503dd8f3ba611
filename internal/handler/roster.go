// Package handler 提供HTTP请求处理器
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/crewroster/crewroster/internal/metrics"
	"github.com/crewroster/crewroster/internal/repository"
	"github.com/crewroster/crewroster/pkg/errors"
	"github.com/crewroster/crewroster/pkg/logger"
	"github.com/crewroster/crewroster/pkg/model"
	"github.com/crewroster/crewroster/pkg/scheduler"
)

// RosterHandler 排班求解处理器
type RosterHandler struct {
	scheduler *scheduler.Scheduler
	runs      repository.RunRepositoryInterface
	budget    time.Duration
}

// NewRosterHandler 创建排班求解处理器
// runs 为 nil 时不记录求解历史
func NewRosterHandler(s *scheduler.Scheduler, runs repository.RunRepositoryInterface, budget time.Duration) *RosterHandler {
	if budget <= 0 {
		budget = 10 * time.Second
	}
	return &RosterHandler{scheduler: s, runs: runs, budget: budget}
}

// Solve 处理排班求解请求
// 请求体即 model.RosterRequest，语义校验在规范化阶段完成
func (h *RosterHandler) Solve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持POST方法"))
		return
	}

	var req model.RosterRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInvalidInput, "解析请求失败"))
		return
	}

	// 求解预算之外留出提取与编码的余量
	solveCtx, cancel := context.WithTimeout(r.Context(), h.budget+5*time.Second)
	defer cancel()

	receivedAt := time.Now()
	result, err := h.scheduler.Generate(solveCtx, &req)
	if err != nil {
		switch errors.GetCode(err) {
		case errors.CodeValidationFail, errors.CodeInvalidInput:
			metrics.RecordValidationFailure()
		case errors.CodeNoFeasibleSolution, errors.CodeEmptyRoster:
			metrics.RecordSolve("failed", time.Since(receivedAt), 0)
		}
		h.recordRun(&req, nil, receivedAt, err)
		respondAnyError(w, err)
		return
	}

	resp := result.Response
	metrics.RecordSolve(resp.Status, result.Duration, resp.Stats.TotalAssignments)

	if !result.Verification.IsValid {
		// §7：已接受的解的校验告警只记日志，不影响响应
		logger.Warn().
			Int("hard_violations", len(result.Verification.HardViolations)).
			Float64("score", result.Verification.Score).
			Msg("排班结果校验存在告警")
	}

	h.recordRun(&req, resp, receivedAt, nil)
	respondJSON(w, http.StatusOK, resp)
}

// recordRun 落库求解历史，尽力而为，失败只记日志
// 写库在响应路径之外异步进行，不影响求解语义
func (h *RosterHandler) recordRun(req *model.RosterRequest, resp *model.RosterResponse, receivedAt time.Time, solveErr error) {
	if h.runs == nil {
		return
	}

	run := &model.RosterRun{
		ReceivedAt:  receivedAt,
		Status:      "failed",
		WorkerCount: len(req.Workers),
		SiteCount:   len(req.Sites),
		DayCount:    len(req.Days),
	}
	if reqJSON, err := json.Marshal(req); err == nil {
		run.Request = reqJSON
	}
	if resp != nil {
		run.Status = resp.Status
		run.TotalAssignments = resp.Stats.TotalAssignments
		run.SolveTimeSeconds = resp.Stats.SolveTimeSeconds
		if respJSON, err := json.Marshal(resp); err == nil {
			run.Response = respJSON
		}
	} else if solveErr != nil {
		run.Status = "failed:" + string(errors.GetCode(solveErr))
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.runs.Create(ctx, run); err != nil {
			logger.WithError(err).Msg("写入求解历史失败")
		}
	}()
}

// respondJSON 返回JSON响应
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError 返回错误响应
func respondError(w http.ResponseWriter, err *errors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.HTTPStatus)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   true,
		"code":    err.Code,
		"message": err.Message,
		"details": err.Details,
	})
}

// respondAnyError 返回错误响应，非AppError按内部错误处理
func respondAnyError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		respondError(w, appErr)
		return
	}
	respondError(w, errors.Wrap(err, errors.CodeInternal, "排班求解失败"))
}
