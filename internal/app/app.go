package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"

	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/activity"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/auth"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/catalog"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/config"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/db"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/health"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/logger"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/messaging"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/metrics"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/middleware"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/queue"
	"github.com/chikoondoj/School-Queue-System-backend-sub000/internal/user"
)

type App struct {
	config   *config.Config
	router   chi.Router
	server   *http.Server
	logger   *slog.Logger
	producer messaging.Producer
}

func New() *App {
	slogLogger := logger.NewWithServiceContext(ServiceName, Version)

	// Set as default logger so slog.Info() uses JSON format
	slog.SetDefault(slogLogger)

	slogLogger.Info("initializing application", "version", Version, "commit", GitCommit)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	slogLogger.Info("config loaded", "env", cfg.Env)

	auth.Configure(cfg.Auth)

	app := &App{
		config: cfg,
		router: chi.NewRouter(),
		logger: slogLogger,
	}

	database := db.New(cfg.Database)

	ctx := context.Background()
	if err := db.RunMigrations(ctx, database,
		(*user.User)(nil),
		(*catalog.Service)(nil),
		(*queue.Entry)(nil),
		(*queue.History)(nil),
		(*activity.Activity)(nil),
		(*auth.RefreshToken)(nil),
	); err != nil {
		log.Fatal("failed to run migrations:", err)
	}
	if err := db.ApplyIndexes(ctx, database, queue.OneActiveEntryPerUserIndex); err != nil {
		log.Fatal("failed to apply indexes:", err)
	}

	m, err := metrics.New(otel.Meter(ServiceName))
	if err != nil {
		slogLogger.Warn("failed to initialize metrics", "error", err)
		m = nil
	}
	if err := m.RegisterDB(database.DB); err != nil {
		slogLogger.Warn("failed to register db pool metrics", "error", err)
	}

	producer, err := messaging.New(cfg.Messaging, slogLogger)
	if err != nil {
		slogLogger.Warn("failed to initialize event producer", "error", err)
		producer = nil
	}
	app.producer = producer

	app.router.Use(middleware.RequestLogger(slogLogger))
	app.router.Use(middleware.CORS(cfg.Server.CORSOrigins))

	// Health endpoints (no auth required)
	healthHandler := health.NewHandler()
	healthHandler.RegisterRoutes(app.router)

	userRepo := user.NewRepository(database, m)
	serviceRepo := catalog.NewRepository(database, m)
	queueRepo := queue.NewRepository(database, m)
	activityRepo := activity.NewRepository(database, m)

	// Auth setup
	authRepo := auth.NewRepository(database, m)
	if err := authRepo.DeleteExpiredTokens(ctx); err != nil {
		slogLogger.Warn("failed to purge expired refresh tokens", "error", err)
	}
	authService := auth.NewService(authRepo, userRepo)
	authHandler := auth.NewHandler(authService, slogLogger)
	authHandler.RegisterRoutes(app.router)

	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService, slogLogger, m)

	catalogHandler := catalog.NewHandler(serviceRepo, slogLogger)

	var publisher queue.EventPublisher
	if producer != nil {
		publisher = producer
	}
	queueService := queue.NewService(queueRepo, userRepo, serviceRepo, m, publisher, slogLogger)
	queueHandler := queue.NewHandler(queueService, slogLogger)

	activityHandler := activity.NewHandler(activityRepo, slogLogger)

	// Everything under /api requires a valid session.
	app.router.Route("/api", func(r chi.Router) {
		r.Use(auth.Middleware(slogLogger))

		authHandler.RegisterProtectedRoutes(r)
		userHandler.RegisterRoutes(r)
		catalogHandler.RegisterRoutes(r)
		queueHandler.RegisterRoutes(r)
		activityHandler.RegisterRoutes(r)

		r.Group(func(staff chi.Router) {
			staff.Use(auth.RequireRole(slogLogger, user.RoleStaff, user.RoleAdmin))
			queueHandler.RegisterStaffRoutes(staff)
			catalogHandler.RegisterAdminRoutes(staff)
		})

		r.Group(func(admin chi.Router) {
			admin.Use(auth.RequireRole(slogLogger, user.RoleAdmin))
			userHandler.RegisterAdminRoutes(admin)
		})
	})

	slogLogger.Info("application initialized successfully")

	return app
}

func (a *App) Run() error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(a.config.Server.IdleTimeout) * time.Second,
	}

	a.logger.Info("server starting", "port", a.config.Server.Port)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Warn("failed to close event producer", "error", err)
		}
	}
	return a.server.Shutdown(ctx)
}
