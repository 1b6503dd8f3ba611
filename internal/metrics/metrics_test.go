package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	Handler().ServeHTTP(rec, req)
	return rec.Body.String()
}

func TestHistogram_导出为累计桶(t *testing.T) {
	h := Default().NewHistogram("test_solve_hist_seconds", "测试直方图", nil, []float64{1, 5})

	h.Observe(0.5)
	h.Observe(3)
	h.Observe(10)

	body := scrape(t)

	for _, want := range []string{
		`test_solve_hist_seconds_bucket{le="1.000000"} 1`,
		`test_solve_hist_seconds_bucket{le="5.000000"} 2`,
		`test_solve_hist_seconds_bucket{le="+Inf"} 3`,
		"test_solve_hist_seconds_count 3",
		"test_solve_hist_seconds_sum 13.5",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("导出缺少 %q:\n%s", want, body)
		}
	}
}

func TestRecordRequestMetrics(t *testing.T) {
	RecordRequestMetrics("GET", "/api/v1/runs", 200, 12*time.Millisecond)

	body := scrape(t)

	want := `roster_http_requests_total{method="GET",path="/api/v1/runs",status="200"} 1`
	if !strings.Contains(body, want) {
		t.Errorf("导出缺少 %q", want)
	}
	if !strings.Contains(body, "# TYPE roster_http_request_duration_seconds histogram") {
		t.Error("缺少请求延迟直方图类型声明")
	}
}

func TestInFlightGauge(t *testing.T) {
	IncInFlight()
	IncInFlight()
	DecInFlight()

	body := scrape(t)

	if !strings.Contains(body, "roster_http_in_flight 1.000000") {
		t.Errorf("处理中请求数应为1:\n%s", body)
	}
}

func TestRecordSolve(t *testing.T) {
	RecordSolve("optimal", 800*time.Millisecond, 12)
	RecordSolve("failed", 100*time.Millisecond, 0)

	body := scrape(t)

	for _, want := range []string{
		`roster_solve_total{status="optimal"} 1`,
		`roster_solve_total{status="failed"} 1`,
		"roster_assignments_produced_total 12",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("导出缺少 %q", want)
		}
	}
}

func TestSetDBConnections(t *testing.T) {
	SetDBConnections(8, 5, 3)

	body := scrape(t)

	for _, want := range []string{
		`roster_db_connections{state="open"} 8`,
		`roster_db_connections{state="idle"} 5`,
		`roster_db_connections{state="in_use"} 3`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("导出缺少 %q", want)
		}
	}
}
