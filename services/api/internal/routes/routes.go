// Package routes configures the HTTP router and middleware.
package routes

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ibondarenko1/hipaa-saas/pkg/audit"
	"github.com/ibondarenko1/hipaa-saas/pkg/auth"
	"github.com/ibondarenko1/hipaa-saas/pkg/config"
	"github.com/ibondarenko1/hipaa-saas/pkg/database"
	"github.com/ibondarenko1/hipaa-saas/pkg/events"
	"github.com/ibondarenko1/hipaa-saas/pkg/logger"
	"github.com/ibondarenko1/hipaa-saas/pkg/reporting"
	"github.com/ibondarenko1/hipaa-saas/pkg/telemetry"
	"github.com/ibondarenko1/hipaa-saas/services/api/internal/handlers"
	"github.com/ibondarenko1/hipaa-saas/services/api/internal/middleware"
	"github.com/ibondarenko1/hipaa-saas/services/api/internal/repository"
	"github.com/ibondarenko1/hipaa-saas/services/api/internal/service"
)

// Config holds dependencies for route setup.
type Config struct {
	DB        *database.DB
	ReportDB  *sql.DB
	Tokens    *auth.TokenManager
	Publisher *events.Publisher
	Config    *config.Config
	Logger    *logger.Logger
	BuildInfo BuildInfo
}

// BuildInfo contains build information.
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// New creates a new chi router with all routes and middleware configured.
func New(cfg Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.Metrics())
	r.Use(chimiddleware.Compress(5))

	if cfg.Config.Telemetry.Enabled {
		r.Use(telemetry.HTTPMiddleware("api"))
	}

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Config.API.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Repository and service layers
	repo := repository.New(cfg.DB)
	auditLog := audit.NewLogger(cfg.DB.Pool, cfg.Logger)
	reports := reporting.NewService(cfg.ReportDB)

	assessmentSvc := service.NewAssessmentService(repo, repo, auditLog, cfg.Publisher, cfg.Logger)
	engineSvc := service.NewEngineService(repo, repo, auditLog, cfg.Publisher, cfg.Logger)

	// Handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.BuildInfo.Version, cfg.BuildInfo.GitCommit)
	assessmentHandler := handlers.NewAssessmentHandler(assessmentSvc, cfg.Logger)
	engineHandler := handlers.NewEngineHandler(engineSvc, assessmentSvc, reports, cfg.Logger)

	// Health endpoints (no auth required)
	r.Get("/healthz", healthHandler.Liveness)
	r.Get("/readyz", healthHandler.Readiness)
	r.Get("/version", healthHandler.Version)

	// Metrics endpoint
	if cfg.Config.Metrics.Enabled {
		r.Get(cfg.Config.Metrics.Path, healthHandler.Metrics)
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Tokens, cfg.Logger))
		r.Use(middleware.Tenant(cfg.Logger))

		r.Route("/assessments", func(r chi.Router) {
			r.Get("/", assessmentHandler.List)
			r.Post("/", assessmentHandler.Create)

			r.Route("/{assessmentID}", func(r chi.Router) {
				r.Get("/", assessmentHandler.Get)
				r.Post("/submit", assessmentHandler.Submit)
				r.Post("/reopen", assessmentHandler.Reopen)
				r.Get("/questions", assessmentHandler.Questions)

				r.Get("/answers", assessmentHandler.ListAnswers)
				r.Put("/answers/{questionID}", assessmentHandler.UpsertAnswer)

				r.Get("/evidence", assessmentHandler.ListEvidence)
				r.Post("/evidence", assessmentHandler.AttachEvidence)

				r.Post("/engine/run", engineHandler.Run)
				r.Get("/engine/runs/latest", engineHandler.LatestRun)

				r.Get("/results", engineHandler.Results)
				r.Get("/gaps", engineHandler.Gaps)
				r.Get("/risks", engineHandler.Risks)
				r.Get("/remediation-actions", engineHandler.Remediations)
				r.Get("/summary", engineHandler.Summary)
			})
		})
	})

	return r
}
