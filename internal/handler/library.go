package handler

import (
	"net/http"

	"github.com/crewroster/crewroster/internal/constraints"
	"github.com/crewroster/crewroster/pkg/errors"
)

// ConstraintLibrary 处理 GET /api/v1/constraints
// 返回模型支持的全部硬约束与目标函数软约束项的定义
func ConstraintLibrary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, errors.New(errors.CodeInvalidInput, "仅支持GET方法"))
		return
	}
	respondJSON(w, http.StatusOK, constraints.LibraryResponse{Library: constraints.GetLibrary()})
}
