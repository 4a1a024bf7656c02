package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

const healthTimeout = 5 * time.Second

// Pinger is the part of the pool the health check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// MigrationLister reports which migrations have been applied. *Migrator
// implements it.
type MigrationLister interface {
	Status(ctx context.Context) ([]MigrationStatus, error)
}

// PoolStats represents database connection pool statistics.
type PoolStats struct {
	TotalConns      int32  `json:"total_conns"`
	IdleConns       int32  `json:"idle_conns"`
	AcquiredConns   int32  `json:"acquired_conns"`
	MaxConns        int32  `json:"max_conns"`
	AcquireDuration string `json:"acquire_duration"`
}

// GetPoolStats returns connection pool statistics.
func GetPoolStats(pool *pgxpool.Pool) *PoolStats {
	stat := pool.Stat()
	return &PoolStats{
		TotalConns:      stat.TotalConns(),
		IdleConns:       stat.IdleConns(),
		AcquiredConns:   stat.AcquiredConns(),
		MaxConns:        stat.MaxConns(),
		AcquireDuration: stat.AcquireDuration().String(),
	}
}

// MigrationSummary condenses the migration table for the health report.
type MigrationSummary struct {
	Applied int      `json:"applied"`
	Pending []string `json:"pending"`
}

// SummarizeMigrations counts applied migrations and names the pending ones.
func SummarizeMigrations(statuses []MigrationStatus) MigrationSummary {
	sum := MigrationSummary{Pending: []string{}}
	for _, s := range statuses {
		if s.Applied {
			sum.Applied++
			continue
		}
		sum.Pending = append(sum.Pending, s.Name)
	}
	return sum
}

// HealthReport is the body of GET /health/db.
type HealthReport struct {
	Status     string            `json:"status"`
	Backend    string            `json:"backend"`
	Pool       *PoolStats        `json:"pool,omitempty"`
	Migrations *MigrationSummary `json:"migrations,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// HealthHandler reports whether the database behind backend can serve the
// screens: it must answer a ping and have every shipped migration applied.
// Pending migrations answer 503 since the repositories would fail on the
// missing tables.
func HealthHandler(backend string, pool Pinger, migrations MigrationLister) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
		defer cancel()

		report := HealthReport{Status: "healthy", Backend: backend}
		if p, ok := pool.(*pgxpool.Pool); ok {
			report.Pool = GetPoolStats(p)
		}

		if err := pool.Ping(ctx); err != nil {
			report.Status = "unhealthy"
			report.Error = err.Error()
			return c.JSON(http.StatusServiceUnavailable, report)
		}

		statuses, err := migrations.Status(ctx)
		if err != nil {
			report.Status = "unhealthy"
			report.Error = "migration status: " + err.Error()
			return c.JSON(http.StatusServiceUnavailable, report)
		}
		sum := SummarizeMigrations(statuses)
		report.Migrations = &sum
		if len(sum.Pending) > 0 {
			report.Status = "migrations_pending"
			return c.JSON(http.StatusServiceUnavailable, report)
		}

		return c.JSON(http.StatusOK, report)
	}
}
