package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/ehr/safesurgery/internal/config"
	"github.com/ehr/safesurgery/internal/domain/checklist"
	"github.com/ehr/safesurgery/internal/domain/clinical"
	"github.com/ehr/safesurgery/internal/domain/identity"
	"github.com/ehr/safesurgery/internal/domain/surgery"
	"github.com/ehr/safesurgery/internal/platform/auth"
	"github.com/ehr/safesurgery/internal/platform/db"
	"github.com/ehr/safesurgery/internal/platform/menu"
	"github.com/ehr/safesurgery/internal/platform/middleware"
	"github.com/ehr/safesurgery/internal/platform/tablestore"
	"github.com/ehr/safesurgery/internal/platform/telemetry"
)

// app holds the services shared by the server and the offline commands.
type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	metrics *telemetry.Provider
	store   *tablestore.Store
	pool    *pgxpool.Pool

	patients  *identity.Service
	surgeries *surgery.Service
	notes     *clinical.Service
	checklist *checklist.Service

	creds    *auth.CredentialStore
	sessions *auth.SessionManager
	revoked  *auth.TokenRevocationStore
}

func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*app, error) {
	renderer, err := checklist.RendererFor(cfg.ExportFormat)
	if err != nil {
		return nil, err
	}
	if cfg.PDFFont != "" && renderer.Extension() == config.FormatPDF {
		if renderer, err = checklist.NewPDFRenderer(cfg.PDFFont); err != nil {
			return nil, err
		}
		logger.Info().Str("path", cfg.PDFFont).Msg("embedding PDF font")
	}
	catalog := checklist.DefaultCatalog()
	if cfg.CatalogFile != "" {
		catalog, err = checklist.LoadCatalog(cfg.CatalogFile)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("path", cfg.CatalogFile).Strs("phases", catalog.Phases()).Msg("checklist catalog loaded")
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		metrics: telemetry.NewProvider(),
		store:   tablestore.New(cfg.DataDir, logger),
	}

	var (
		patientRepo identity.PatientRepository
		surgeryRepo surgery.SurgeryRepository
		noteRepo    clinical.NoteRepository
		entryRepo   checklist.EntryRepository
	)
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, err
		}
		a.pool = pool
		patientRepo = identity.NewPatientRepoPG(pool)
		surgeryRepo = surgery.NewSurgeryRepoPG(pool)
		noteRepo = clinical.NewNoteRepoPG(pool)
		entryRepo = checklist.NewEntryRepoPG(pool)
		logger.Info().Msg("connected to database")
	case config.BackendCSV:
		patientRepo = identity.NewPatientRepoCSV(a.store)
		surgeryRepo = surgery.NewSurgeryRepoCSV(a.store)
		noteRepo = clinical.NewNoteRepoCSV(a.store)
		entryRepo = checklist.NewEntryRepoCSV(a.store)
		logger.Info().Str("data_dir", cfg.DataDir).Msg("using csv datasets")
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	a.patients = identity.NewService(patientRepo, a.metrics, logger)
	a.surgeries = surgery.NewService(surgeryRepo, a.patients, a.metrics, logger)
	a.notes = clinical.NewService(noteRepo, a.patients, a.metrics, logger)
	a.checklist = checklist.NewService(
		entryRepo, a.patients, catalog,
		checklist.NewExporter(cfg.OutputDir, renderer, logger),
		a.metrics, logger,
	)

	a.creds = auth.NewCredentialStore(a.store)
	a.sessions = auth.NewSessionManager([]byte(cfg.SessionSecret), cfg.SessionTTL)
	a.revoked = auth.NewTokenRevocationStore()
	return a, nil
}

func (a *app) Close() {
	a.revoked.Close()
	if a.pool != nil {
		a.pool.Close()
	}
}

func (a *app) router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(a.logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(a.logger))
	e.Use(middleware.SecurityHeaders(a.cfg.IsProduction()))
	e.Use(middleware.BodyLimit(a.cfg.BodyLimit))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  a.cfg.CORSOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost},
		AllowHeaders:  []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{echo.HeaderContentDisposition},
	}))
	e.Use(a.metrics.MetricsMiddleware())
	e.Use(auth.SessionMiddleware(a.sessions, a.revoked, auth.AuthSkipper))

	// Public endpoints
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "backend": a.cfg.StoreBackend})
	})
	if a.pool != nil {
		e.GET("/health/db", db.HealthHandler(a.cfg.StoreBackend, a.pool, db.NewMigrator(a.pool, db.Migrations())))
	}
	e.GET("/metrics", a.metrics.PrometheusHandler())

	rl := middleware.DefaultRateLimitConfig()
	if a.cfg.LoginRateLimit > 0 {
		rl.RequestsPerSecond = a.cfg.LoginRateLimit
	}
	auth.NewHandler(a.creds, a.sessions, a.revoked, a.metrics, a.logger).RegisterRoutes(e, middleware.RateLimit(rl))

	// Screens
	apiV1 := e.Group("/api/v1")
	menu.NewHandler().RegisterRoutes(apiV1)
	identity.NewHandler(a.patients).RegisterRoutes(apiV1)
	surgery.NewHandler(a.surgeries).RegisterRoutes(apiV1)
	clinical.NewHandler(a.notes).RegisterRoutes(apiV1)
	checklist.NewHandler(a.checklist).RegisterRoutes(apiV1)

	return e
}
