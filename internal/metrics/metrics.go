// Package metrics 以Prometheus文本格式暴露服务指标
// 指标量少且无聚合需求，直接维护注册表并在 /metrics 导出
package metrics

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Registry 指标注册表
type Registry struct {
	mu         sync.RWMutex
	counters   map[string]*Counter
	gauges     map[string]*Gauge
	histograms map[string]*Histogram
}

var (
	global *Registry
	once   sync.Once
)

// Default 返回全局注册表，首次调用时注册全部服务指标
func Default() *Registry {
	once.Do(func() {
		global = &Registry{
			counters:   make(map[string]*Counter),
			gauges:     make(map[string]*Gauge),
			histograms: make(map[string]*Histogram),
		}
		registerServiceMetrics(global)
	})
	return global
}

// registerServiceMetrics 注册HTTP层、求解层与连接池指标
func registerServiceMetrics(r *Registry) {
	r.NewCounter("roster_http_requests_total", "HTTP请求总数", []string{"method", "path", "status"})
	r.NewHistogram("roster_http_request_duration_seconds", "HTTP请求延迟",
		[]string{"method", "path"},
		[]float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0})
	r.NewGauge("roster_http_in_flight", "处理中的HTTP请求数", nil)

	r.NewCounter("roster_solve_total", "求解次数", []string{"status"})
	r.NewHistogram("roster_solve_duration_seconds", "求解耗时", nil,
		[]float64{0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0})
	r.NewCounter("roster_assignments_produced_total", "产出的派工总数", nil)
	r.NewCounter("roster_validation_failures_total", "请求校验失败次数", nil)

	r.NewGauge("roster_db_connections", "数据库连接数", []string{"state"})
}

// Counter 单调递增计数器
type Counter struct {
	name   string
	help   string
	labels []string
	mu     sync.RWMutex
	values map[string]float64
}

// Gauge 可增减的瞬时值
type Gauge struct {
	name   string
	help   string
	labels []string
	mu     sync.RWMutex
	values map[string]float64
}

// Histogram 直方图，内部按区间计数，导出时转为Prometheus累计桶
type Histogram struct {
	name    string
	help    string
	labels  []string
	buckets []float64
	mu      sync.RWMutex
	counts  map[string][]int
	sums    map[string]float64
}

// NewCounter 注册计数器
func (r *Registry) NewCounter(name, help string, labels []string) *Counter {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := &Counter{name: name, help: help, labels: labels, values: make(map[string]float64)}
	r.counters[name] = c
	return c
}

// NewGauge 注册仪表
func (r *Registry) NewGauge(name, help string, labels []string) *Gauge {
	r.mu.Lock()
	defer r.mu.Unlock()
	g := &Gauge{name: name, help: help, labels: labels, values: make(map[string]float64)}
	r.gauges[name] = g
	return g
}

// NewHistogram 注册直方图
func (r *Registry) NewHistogram(name, help string, labels []string, buckets []float64) *Histogram {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := &Histogram{
		name:    name,
		help:    help,
		labels:  labels,
		buckets: buckets,
		counts:  make(map[string][]int),
		sums:    make(map[string]float64),
	}
	r.histograms[name] = h
	return h
}

func (r *Registry) counter(name string) *Counter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.counters[name]
}

func (r *Registry) gauge(name string) *Gauge {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.gauges[name]
}

func (r *Registry) histogram(name string) *Histogram {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.histograms[name]
}

// Inc 计数加一
func (c *Counter) Inc(labelValues ...string) {
	c.Add(1, labelValues...)
}

// Add 计数增加指定值
func (c *Counter) Add(value float64, labelValues ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[labelKey(labelValues)] += value
}

// Set 设置仪表值
func (g *Gauge) Set(value float64, labelValues ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.values[labelKey(labelValues)] = value
}

// Inc 仪表加一
func (g *Gauge) Inc(labelValues ...string) {
	g.Add(1, labelValues...)
}

// Dec 仪表减一
func (g *Gauge) Dec(labelValues ...string) {
	g.Add(-1, labelValues...)
}

// Add 仪表增加指定值
func (g *Gauge) Add(value float64, labelValues ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.values[labelKey(labelValues)] += value
}

// Observe 记录观测值
// 观测值只落入第一个容得下它的区间，导出时再做累计
func (h *Histogram) Observe(value float64, labelValues ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := labelKey(labelValues)
	if _, ok := h.counts[key]; !ok {
		h.counts[key] = make([]int, len(h.buckets)+1)
	}

	for i, bucket := range h.buckets {
		if value <= bucket {
			h.counts[key][i]++
			h.sums[key] += value
			return
		}
	}
	h.counts[key][len(h.buckets)]++
	h.sums[key] += value
}

// labelKey 标签值序列化为map键
func labelKey(values []string) string {
	return strings.Join(values, ",")
}

// formatLabels 把标签键还原为 name="value" 列表
func formatLabels(names []string, key string) string {
	values := strings.Split(key, ",")
	pairs := make([]string, 0, len(names))
	for i, name := range names {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		pairs = append(pairs, fmt.Sprintf("%s=%q", name, v))
	}
	return strings.Join(pairs, ",")
}

// export 输出计数器
func (c *Counter) export(w io.Writer) {
	fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s counter\n", c.name, c.help, c.name)
	c.mu.RLock()
	defer c.mu.RUnlock()
	for key, value := range c.values {
		if key == "" {
			fmt.Fprintf(w, "%s %f\n", c.name, value)
		} else {
			fmt.Fprintf(w, "%s{%s} %f\n", c.name, formatLabels(c.labels, key), value)
		}
	}
}

// export 输出仪表
func (g *Gauge) export(w io.Writer) {
	fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s gauge\n", g.name, g.help, g.name)
	g.mu.RLock()
	defer g.mu.RUnlock()
	for key, value := range g.values {
		if key == "" {
			fmt.Fprintf(w, "%s %f\n", g.name, value)
		} else {
			fmt.Fprintf(w, "%s{%s} %f\n", g.name, formatLabels(g.labels, key), value)
		}
	}
}

// export 输出直方图的累计桶、总和与总数
func (h *Histogram) export(w io.Writer) {
	fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s histogram\n", h.name, h.help, h.name)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for key, counts := range h.counts {
		labels := ""
		if key != "" {
			labels = formatLabels(h.labels, key)
		}

		cumulative := 0
		for i, bucket := range h.buckets {
			cumulative += counts[i]
			if labels == "" {
				fmt.Fprintf(w, "%s_bucket{le=\"%f\"} %d\n", h.name, bucket, cumulative)
			} else {
				fmt.Fprintf(w, "%s_bucket{%s,le=\"%f\"} %d\n", h.name, labels, bucket, cumulative)
			}
		}
		cumulative += counts[len(h.buckets)]
		if labels == "" {
			fmt.Fprintf(w, "%s_bucket{le=\"+Inf\"} %d\n", h.name, cumulative)
			fmt.Fprintf(w, "%s_sum %f\n", h.name, h.sums[key])
			fmt.Fprintf(w, "%s_count %d\n", h.name, cumulative)
		} else {
			fmt.Fprintf(w, "%s_bucket{%s,le=\"+Inf\"} %d\n", h.name, labels, cumulative)
			fmt.Fprintf(w, "%s_sum{%s} %f\n", h.name, labels, h.sums[key])
			fmt.Fprintf(w, "%s_count{%s} %d\n", h.name, labels, cumulative)
		}
	}
}

// Handler 返回 /metrics 端点处理器
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		r := Default()
		r.mu.RLock()
		defer r.mu.RUnlock()

		for _, c := range r.counters {
			c.export(w)
		}
		for _, g := range r.gauges {
			g.export(w)
		}
		for _, h := range r.histograms {
			h.export(w)
		}
	})
}

// RecordRequestMetrics 记录一次HTTP请求
func RecordRequestMetrics(method, path string, status int, duration time.Duration) {
	r := Default()
	if c := r.counter("roster_http_requests_total"); c != nil {
		c.Inc(method, path, fmt.Sprintf("%d", status))
	}
	if h := r.histogram("roster_http_request_duration_seconds"); h != nil {
		h.Observe(duration.Seconds(), method, path)
	}
}

// IncInFlight 增加处理中请求数
func IncInFlight() {
	if g := Default().gauge("roster_http_in_flight"); g != nil {
		g.Inc()
	}
}

// DecInFlight 减少处理中请求数
func DecInFlight() {
	if g := Default().gauge("roster_http_in_flight"); g != nil {
		g.Dec()
	}
}

// RecordSolve 记录一次求解的状态、耗时与派工量
func RecordSolve(status string, duration time.Duration, assignments int) {
	r := Default()
	if c := r.counter("roster_solve_total"); c != nil {
		c.Inc(status)
	}
	if h := r.histogram("roster_solve_duration_seconds"); h != nil {
		h.Observe(duration.Seconds())
	}
	if c := r.counter("roster_assignments_produced_total"); c != nil && assignments > 0 {
		c.Add(float64(assignments))
	}
}

// RecordValidationFailure 记录一次请求校验失败
func RecordValidationFailure() {
	if c := Default().counter("roster_validation_failures_total"); c != nil {
		c.Inc()
	}
}

// SetDBConnections 上报数据库连接池状态
func SetDBConnections(open, idle, inUse int) {
	g := Default().gauge("roster_db_connections")
	if g == nil {
		return
	}
	g.Set(float64(open), "open")
	g.Set(float64(idle), "idle")
	g.Set(float64(inUse), "in_use")
}
