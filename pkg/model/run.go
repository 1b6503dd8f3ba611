package model

import (
	"encoding/json"
	"time"
)

// RosterRun 一次排班求解的运行记录（可选持久化）
type RosterRun struct {
	BaseModel
	Status           string          `json:"status" db:"status"`
	WorkerCount      int             `json:"worker_count" db:"worker_count"`
	SiteCount        int             `json:"site_count" db:"site_count"`
	DayCount         int             `json:"day_count" db:"day_count"`
	TotalAssignments int             `json:"total_assignments" db:"total_assignments"`
	SolveTimeSeconds float64         `json:"solve_time_seconds" db:"solve_time_seconds"`
	ReceivedAt       time.Time       `json:"received_at" db:"received_at"`
	Request          json.RawMessage `json:"request,omitempty" db:"request"`
	Response         json.RawMessage `json:"response,omitempty" db:"response"`
}
