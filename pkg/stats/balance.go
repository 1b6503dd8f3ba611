package stats

import (
	"math"
	"sort"
	"strconv"
)

// WorkerInfo 人员信息（用于统计分析）
type WorkerInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BalanceMetrics 工作量均衡指标
type BalanceMetrics struct {
	// 工时均衡性
	WorkloadGini      float64 `json:"workload_gini"`        // 工时基尼系数 (0=完全均衡, 1=完全失衡)
	WorkloadVariance  float64 `json:"workload_variance"`    // 工时方差
	WorkloadStdDev    float64 `json:"workload_std_dev"`     // 工时标准差
	AvgHoursPerWorker float64 `json:"avg_hours_per_worker"` // 人均工时
	MaxHours          float64 `json:"max_hours"`            // 最大工时
	MinHours          float64 `json:"min_hours"`            // 最小工时
	HoursRange        float64 `json:"hours_range"`          // 工时极差

	// 派工分布
	DayDistribution map[string]float64 `json:"day_distribution"` // 各日派工占比 (%)
	VisitGini       float64            `json:"visit_gini"`       // 访问次数基尼系数
	WeekendGini     float64            `json:"weekend_gini"`     // 周末派工基尼系数

	// 人员级别统计
	WorkerStats []WorkerStat `json:"worker_stats"`

	// 综合评分
	OverallBalanceScore float64 `json:"overall_balance_score"` // 综合均衡评分 (0-100)
}

// WorkerStat 单人工作量统计
type WorkerStat struct {
	WorkerID      int64   `json:"worker_id"`
	WorkerName    string  `json:"worker_name"`
	TotalHours    float64 `json:"total_hours"`
	VisitCount    int     `json:"visit_count"`
	WeekendVisits int     `json:"weekend_visits"`
	SitesVisited  int     `json:"sites_visited"`
	Deviation     float64 `json:"deviation"` // 与人均工时的偏差百分比
}

// BalanceAnalyzer 工作量均衡分析器
type BalanceAnalyzer struct {
	weekendDays map[string]bool
}

// NewBalanceAnalyzer 创建均衡分析器
func NewBalanceAnalyzer() *BalanceAnalyzer {
	return &BalanceAnalyzer{
		weekendDays: map[string]bool{
			"saturday": true,
			"sunday":   true,
		},
	}
}

// Analyze 分析排班结果的工作量均衡性
//
// 零派工的人员同样计入统计，闲置人员正是失衡的主要信号。
func (b *BalanceAnalyzer) Analyze(visits []*VisitInfo, workers []*WorkerInfo) *BalanceMetrics {
	if len(visits) == 0 || len(workers) == 0 {
		return &BalanceMetrics{
			DayDistribution:     make(map[string]float64),
			OverallBalanceScore: 100,
		}
	}

	workerStats := b.calculateWorkerStats(visits, workers)

	hours := make([]float64, len(workerStats))
	visitCounts := make([]float64, len(workerStats))
	weekendCounts := make([]float64, len(workerStats))
	for i, stat := range workerStats {
		hours[i] = stat.TotalHours
		visitCounts[i] = float64(stat.VisitCount)
		weekendCounts[i] = float64(stat.WeekendVisits)
	}

	avgHours := b.calculateMean(hours)
	variance := b.calculateVariance(hours, avgHours)
	stdDev := math.Sqrt(variance)
	maxHours, minHours := b.calculateRange(hours)

	for i := range workerStats {
		if avgHours > 0 {
			workerStats[i].Deviation = (workerStats[i].TotalHours - avgHours) / avgHours * 100
		}
	}

	workloadGini := b.calculateGini(hours)
	visitGini := b.calculateGini(visitCounts)
	weekendGini := b.calculateGini(weekendCounts)

	dayDist := b.calculateDayDistribution(visits)

	overallScore := b.calculateOverallScore(workloadGini, visitGini, weekendGini, stdDev, avgHours)

	return &BalanceMetrics{
		WorkloadGini:        workloadGini,
		WorkloadVariance:    variance,
		WorkloadStdDev:      stdDev,
		AvgHoursPerWorker:   avgHours,
		MaxHours:            maxHours,
		MinHours:            minHours,
		HoursRange:          maxHours - minHours,
		DayDistribution:     dayDist,
		VisitGini:           visitGini,
		WeekendGini:         weekendGini,
		WorkerStats:         workerStats,
		OverallBalanceScore: overallScore,
	}
}

// calculateWorkerStats 计算每名人员的工作量数据
func (b *BalanceAnalyzer) calculateWorkerStats(visits []*VisitInfo, workers []*WorkerInfo) []WorkerStat {
	statMap := make(map[int64]*WorkerStat)
	siteSets := make(map[int64]map[int64]bool)

	for _, w := range workers {
		statMap[w.ID] = &WorkerStat{
			WorkerID:   w.ID,
			WorkerName: w.Name,
		}
	}

	for _, v := range visits {
		stat, exists := statMap[v.WorkerID]
		if !exists {
			stat = &WorkerStat{
				WorkerID:   v.WorkerID,
				WorkerName: strconv.FormatInt(v.WorkerID, 10),
			}
			statMap[v.WorkerID] = stat
		}

		stat.TotalHours += float64(v.End-v.Start) / 60.0
		stat.VisitCount++
		if b.weekendDays[v.Day] {
			stat.WeekendVisits++
		}

		if siteSets[v.WorkerID] == nil {
			siteSets[v.WorkerID] = make(map[int64]bool)
		}
		siteSets[v.WorkerID][v.SiteID] = true
	}

	for id, sites := range siteSets {
		statMap[id].SitesVisited = len(sites)
	}

	result := make([]WorkerStat, 0, len(statMap))
	for _, stat := range statMap {
		result = append(result, *stat)
	}

	// 按工时降序，工时相同按 ID 保证结果稳定
	sort.Slice(result, func(i, j int) bool {
		if result[i].TotalHours != result[j].TotalHours {
			return result[i].TotalHours > result[j].TotalHours
		}
		return result[i].WorkerID < result[j].WorkerID
	})

	return result
}

// calculateDayDistribution 计算各日派工占比
func (b *BalanceAnalyzer) calculateDayDistribution(visits []*VisitInfo) map[string]float64 {
	dayCounts := make(map[string]int)
	for _, v := range visits {
		dayCounts[v.Day]++
	}

	distribution := make(map[string]float64)
	total := len(visits)
	if total > 0 {
		for day, count := range dayCounts {
			distribution[day] = float64(count) / float64(total) * 100
		}
	}

	return distribution
}

// calculateMean 计算平均值
func (b *BalanceAnalyzer) calculateMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// calculateVariance 计算方差
func (b *BalanceAnalyzer) calculateVariance(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sumSquares := 0.0
	for _, v := range values {
		diff := v - mean
		sumSquares += diff * diff
	}
	return sumSquares / float64(len(values))
}

// calculateRange 计算极值
func (b *BalanceAnalyzer) calculateRange(values []float64) (max, min float64) {
	if len(values) == 0 {
		return 0, 0
	}
	max, min = values[0], values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
		if v < min {
			min = v
		}
	}
	return
}

// calculateGini 计算基尼系数
func (b *BalanceAnalyzer) calculateGini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	if sum == 0 {
		return 0
	}

	gini := 0.0
	for i, v := range sorted {
		gini += (2*float64(i+1) - float64(n) - 1) * v
	}

	gini = gini / (float64(n) * sum)
	return math.Max(0, math.Min(1, gini))
}

// calculateOverallScore 计算综合均衡评分
func (b *BalanceAnalyzer) calculateOverallScore(workloadGini, visitGini, weekendGini, stdDev, avgHours float64) float64 {
	const (
		workloadWeight = 0.4
		visitWeight    = 0.25
		weekendWeight  = 0.25
		stdDevWeight   = 0.1
	)

	// 基尼系数转换为分数 (0=100分, 1=0分)
	workloadScore := (1 - workloadGini) * 100
	visitScore := (1 - visitGini) * 100
	weekendScore := (1 - weekendGini) * 100

	// 变异系数越低分数越高
	cvScore := 100.0
	if avgHours > 0 {
		cv := stdDev / avgHours
		cvScore = math.Max(0, 100-cv*200)
	}

	score := workloadWeight*workloadScore +
		visitWeight*visitScore +
		weekendWeight*weekendScore +
		stdDevWeight*cvScore

	return math.Max(0, math.Min(100, score))
}
