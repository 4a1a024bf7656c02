package telemetry

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddleware_CountsRequests(t *testing.T) {
	p := NewProvider()

	e := echo.New()
	e.Use(p.MetricsMiddleware())
	e.GET("/api/v1/patients", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/api/v1/forbidden", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusForbidden, "no")
	})

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil))
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/forbidden", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 to reach the client, got %d", rec.Code)
	}

	if got := testutil.ToFloat64(p.requests.WithLabelValues("GET", "/api/v1/patients", "200")); got != 3 {
		t.Errorf("expected 3 requests counted, got %v", got)
	}
	if got := testutil.ToFloat64(p.requests.WithLabelValues("GET", "/api/v1/forbidden", "403")); got != 1 {
		t.Errorf("expected 1 forbidden request counted, got %v", got)
	}
	if got := testutil.ToFloat64(p.activeRequests); got != 0 {
		t.Errorf("expected no active requests, got %v", got)
	}
}

func TestDomainCounters(t *testing.T) {
	p := NewProvider()

	p.RecordsWritten("checklist", 10)
	p.RecordsWritten("checklist", 0)
	p.Export(ExportOK)
	p.Export(ExportEmpty)
	p.Export(ExportEmpty)
	p.Login(LoginFailure)

	if got := testutil.ToFloat64(p.recordsWritten.WithLabelValues("checklist")); got != 10 {
		t.Errorf("expected 10 checklist rows, got %v", got)
	}
	if got := testutil.ToFloat64(p.exports.WithLabelValues(ExportEmpty)); got != 2 {
		t.Errorf("expected 2 empty exports, got %v", got)
	}
	if got := testutil.ToFloat64(p.logins.WithLabelValues(LoginFailure)); got != 1 {
		t.Errorf("expected 1 failed login, got %v", got)
	}
}

func TestNilProvider_IsSafe(t *testing.T) {
	var p *Provider
	p.RecordsWritten("patients", 1)
	p.Export(ExportOK)
	p.Login(LoginSuccess)
}

func TestPrometheusHandler_ValidFormat(t *testing.T) {
	p := NewProvider()
	p.Export(ExportOK)

	e := echo.New()
	e.Use(p.MetricsMiddleware())
	e.GET("/metrics", p.PrometheusHandler())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, name := range []string{
		"safesurgery_checklist_exports_total",
		"go_goroutines",
	} {
		if !strings.Contains(body, name) {
			t.Errorf("expected metric %s in exposition", name)
		}
	}
}
