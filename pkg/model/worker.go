package model

// Worker 保洁人员
type Worker struct {
	ID             int64             `json:"id"`
	Name           string            `json:"name"`
	Reliability    ReliabilityRating `json:"reliability"`
	AvailableDays  []DayOfWeek       `json:"available_days"`
	ExcludedRegion Region            `json:"excluded_region,omitempty"`
}

// AvailableOn 检查人员在某个工作日是否可用
func (w *Worker) AvailableOn(day DayOfWeek) bool {
	for _, d := range w.AvailableDays {
		if d == day {
			return true
		}
	}
	return false
}

// CanWorkRegion 检查人员是否可以在某区域工作
func (w *Worker) CanWorkRegion(region Region) bool {
	if w.ExcludedRegion == "" {
		return true
	}
	return w.ExcludedRegion != region
}

// Eligible 检查人员在某日能否被派往某场地
func (w *Worker) Eligible(site *Site, day DayOfWeek) bool {
	return w.AvailableOn(day) && w.CanWorkRegion(site.Region)
}
