//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ehr/safesurgery/internal/platform/db"
)

func TestMigrator_UpIsIdempotent(t *testing.T) {
	pool := newSchemaPool(t, "migrate")
	ctx := context.Background()
	m := db.NewMigrator(pool, db.Migrations())

	applied, err := m.Up(ctx)
	if err != nil {
		t.Fatalf("second Up: %v", err)
	}
	if applied != 0 {
		t.Errorf("expected no pending migrations, applied %d", applied)
	}

	statuses, err := m.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(statuses) == 0 {
		t.Fatal("expected at least one migration")
	}
	for _, s := range statuses {
		if !s.Applied || s.AppliedAt == nil {
			t.Errorf("migration %03d_%s not applied", s.Version, s.Name)
		}
	}
}

func TestHealthHandler_MigratedSchemaIsHealthy(t *testing.T) {
	pool := newSchemaPool(t, "health")
	h := db.HealthHandler("postgres", pool, db.NewMigrator(pool, db.Migrations()))

	e := echo.New()
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(httptest.NewRequest(http.MethodGet, "/health/db", nil), rec)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var report db.HealthReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Pool == nil || report.Pool.MaxConns == 0 {
		t.Errorf("expected pool stats, got %+v", report.Pool)
	}
	if report.Migrations == nil || len(report.Migrations.Pending) != 0 {
		t.Errorf("expected no pending migrations, got %+v", report.Migrations)
	}
}
