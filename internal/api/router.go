package api

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/phrazzld/carecompanion/internal/api/middleware"
	"github.com/phrazzld/carecompanion/internal/domain"
	"github.com/phrazzld/carecompanion/internal/facade"
	"github.com/phrazzld/carecompanion/internal/platform/metrics"
	"github.com/phrazzld/carecompanion/internal/service/auth"
)

// RouterConfig holds the dependencies of the HTTP API.
type RouterConfig struct {
	Facade        *facade.Facade
	JWTService    auth.JWTService
	TokenLifetime time.Duration
	Metrics       *metrics.Collector
	Logger        *slog.Logger
}

// NewRouter builds the /api routes. Everything but sign-up and sign-in
// requires a bearer token for an open session.
func NewRouter(cfg RouterConfig) chi.Router {
	f := cfg.Facade

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.NewTraceMiddleware(cfg.Logger))
	r.Use(middleware.NewMetricsMiddleware(cfg.Metrics))

	authHandler := NewAuthHandler(f, cfg.JWTService, cfg.TokenLifetime)
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTService, f, func(err error) bool {
		return facade.KindOf(err) == facade.KindNotSignedIn
	})
	patients := NewPatientHandler(f)
	recs := NewRecordHandler(f)
	sessions := NewSessionHandler(f)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Post("/auth/logout", authHandler.Logout)

			r.Get("/patients", patients.ListLinked)
			r.Route("/patients/{patientID}", func(r chi.Router) {
				r.Get("/", patients.Get)
				r.Post("/connect", patients.Connect)
				r.Get("/summary", patients.Summary)
				r.Put("/safe-zone", patients.SetSafeZone)
				r.Post("/safe-zone/status", patients.SafeZoneStatus)

				r.Get("/medications", listRecords(f.Medications))
				r.Post("/medications", addRecord(f.Medications, func(m *domain.Medication, id uuid.UUID) {
					m.PatientID = id
				}))
				r.Get("/schedule", listRecords(f.Schedule))
				r.Post("/schedule", addRecord(f.Schedule, func(s *domain.ScheduleItem, id uuid.UUID) {
					s.PatientID = id
				}))
				r.Get("/routes", listRecords(f.Routes))
				r.Post("/routes", addRecord(f.Routes, func(w *domain.WalkingRoute, id uuid.UUID) {
					w.PatientID = id
				}))
				r.Get("/photos", listRecords(f.Photos))
				r.Post("/photos", addRecord(f.Photos, func(p *domain.FamilyPhoto, id uuid.UUID) {
					p.PatientID = id
				}))
				r.Get("/games", listRecords(f.Games.Service))
				r.Post("/games", addRecord(f.Games.Service, func(g *domain.GameDefinition, id uuid.UUID) {
					g.PatientID = id
				}))
			})

			r.Get("/medications/{id}", getRecord(f.Medications))
			r.Patch("/medications/{id}", updateRecord(f.Medications))
			r.Get("/schedule/{id}", getRecord(f.Schedule))
			r.Patch("/schedule/{id}", updateRecord(f.Schedule))
			r.Post("/schedule/{id}/complete", recs.CompleteScheduleItem)
			r.Get("/routes/{id}", getRecord(f.Routes))
			r.Patch("/routes/{id}", updateRecord(f.Routes))
			r.Post("/routes/{id}/status", recs.RouteStatus)
			r.Get("/photos/{id}", getRecord(f.Photos))
			r.Patch("/photos/{id}", updateRecord(f.Photos))
			r.Get("/games/{id}", getRecord(f.Games.Service))
			r.Patch("/games/{id}", updateRecord(f.Games.Service))
			r.Delete("/games/{id}", recs.DeleteGame)

			r.Get("/reminders/due", patients.DueReminders)

			r.Post("/sessions", sessions.Start)
			r.Get("/sessions/{id}", sessions.Get)
			r.Post("/sessions/{id}/moves", sessions.Move)
			r.Delete("/sessions/{id}", sessions.End)
		})
	})

	return r
}
