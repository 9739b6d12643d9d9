package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/carecompanion/internal/api"
	"github.com/phrazzld/carecompanion/internal/config"
	"github.com/phrazzld/carecompanion/internal/domain/game"
	"github.com/phrazzld/carecompanion/internal/events"
	"github.com/phrazzld/carecompanion/internal/facade"
	"github.com/phrazzld/carecompanion/internal/platform/logger"
	"github.com/phrazzld/carecompanion/internal/platform/memory"
	"github.com/phrazzld/carecompanion/internal/platform/metrics"
	"github.com/phrazzld/carecompanion/internal/service/auth"
	"github.com/phrazzld/carecompanion/internal/service/play"
)

// notifier turns facade events into log lines for the notification
// channel.
type notifier struct {
	logger *slog.Logger
}

func (n *notifier) subscribe(bus *events.Bus) {
	events.On(bus, events.TypeReminderDue, n.reminderDue)
	events.On(bus, events.TypeSessionCompleted, n.gameCompleted)
	events.On(bus, events.TypeSafeZoneExited, n.safeZoneExited)
}

func (n *notifier) reminderDue(ctx context.Context, p events.ReminderDuePayload) error {
	n.logger.InfoContext(ctx, "reminder due",
		"patient_id", p.PatientID,
		"item_id", p.ItemID,
		"title", p.Title,
		"time", p.Time)
	return nil
}

func (n *notifier) gameCompleted(ctx context.Context, p events.SessionCompletedPayload) error {
	n.logger.InfoContext(ctx, "game completed",
		"patient_id", p.PatientID,
		"variant", p.Variant,
		"score", p.Score)
	return nil
}

func (n *notifier) safeZoneExited(ctx context.Context, p events.SafeZoneExitedPayload) error {
	n.logger.WarnContext(ctx, "patient outside safe zone",
		"patient_id", p.PatientID,
		"distance_meters", p.DistanceMeters,
		"radius_meters", p.RadiusMeters)
	return nil
}

// application holds the shared dependencies of the server.
type application struct {
	config *config.Config
	logger *slog.Logger

	metrics    *metrics.Collector
	emitter    *events.Bus
	facade     *facade.Facade
	jwtService auth.JWTService
}

// newApplication wires every dependency from cfg.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		metrics: metrics.NewCollector("carecompanion"),
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	catalog, err := game.LoadCatalog(cfg.Game.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load game catalog: %w", err)
	}

	app.emitter = events.NewBus(logger)
	(&notifier{logger: logger.With("component", "notifications")}).subscribe(app.emitter)

	st := memory.New(memory.WithLatency(cfg.Store.SimulatedLatency))
	app.facade = facade.New(st, facade.Options{
		Hasher:   auth.NewBcryptHasher(cfg.Auth.BCryptCost),
		Verifier: auth.NewBcryptVerifier(),
		Metrics:  app.metrics,
		Emitter:  app.emitter,
		Game: play.Config{
			Rules: game.Rules{
				MatchScore:   cfg.Game.MatchScore,
				LevelScore:   cfg.Game.LevelScore,
				UnflipDelay:  cfg.Game.UnflipDelay,
				AdvanceDelay: cfg.Game.AdvanceDelay,
			},
			Catalog: catalog,
		},
		ReminderInterval:     cfg.Reminder.Interval,
		RouteToleranceMeters: cfg.Routes.ToleranceMeters,
		SafeZoneRadiusMeters: cfg.Routes.SafeZoneRadiusMeters,
		SessionLifetime:      time.Duration(cfg.Auth.TokenLifetimeMinutes) * time.Minute,
	}, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupRouter adds the metrics and health endpoints to the API router.
func (app *application) setupRouter() http.Handler {
	r := api.NewRouter(api.RouterConfig{
		Facade:        app.facade,
		JWTService:    app.jwtService,
		TokenLifetime: time.Duration(app.config.Auth.TokenLifetimeMinutes) * time.Minute,
		Metrics:       app.metrics,
		Logger:        app.logger,
	})

	r.Handle("/metrics", app.metrics.Handler())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}

// cleanup stops background work.
func (app *application) cleanup() {
	if app.facade != nil {
		app.facade.Close()
	}
	app.logger.Info("Application shutdown completed")
}

// runServe is the serve command.
func runServe(ctx context.Context, configPath string, seed bool) error {
	cfg, err := loadAppConfig(configPath)
	if err != nil {
		return err
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	app, err := newApplication(cfg, l)
	if err != nil {
		return err
	}

	if seed || cfg.Store.SeedDemo {
		if err := app.facade.SeedDemo(ctx); err != nil {
			app.cleanup()
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return app.Run(ctx)
}

// Run serves HTTP until ctx ends or a shutdown signal arrives.
func (app *application) Run(ctx context.Context) error {
	app.facade.StartReminders()
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
