/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/companies/*      Company directory, settings, assessments, risk
  /api/assessments/*    Assessment lifecycle (send, complete)

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Company directory
		r.Route("/companies", func(r chi.Router) {
			r.Get("/", h.ListCompanies)
			r.Post("/", h.CreateCompany)

			r.Route("/{companyID}", func(r chi.Router) {
				r.Get("/", h.GetCompany)

				r.Get("/sectors", h.ListSectors)
				r.Post("/sectors", h.CreateSector)
				r.Get("/roles", h.ListRoles)
				r.Post("/roles", h.CreateRole)
				r.Get("/employees", h.ListEmployees)
				r.Post("/employees", h.CreateEmployee)

				// Periodicity settings document
				r.Get("/settings", h.GetSettings)
				r.Put("/settings", h.PutSettings)

				// Scheduling
				r.Get("/assessments", h.ListAssessments)
				r.Post("/assessments", h.ScheduleAssessment)
				r.Get("/responses", h.ListResponses)

				// Collective risk
				r.Get("/risk/sectors", h.SectorRiskReport)
				r.Post("/risk/scan", h.RunRiskScan)
				r.Get("/action-plans", h.ListActionPlans)
			})
		})

		// Assessment lifecycle
		r.Route("/assessments", func(r chi.Router) {
			r.Get("/{id}", h.GetAssessment)
			r.Post("/{id}/send", h.SendAssessment)
			r.Post("/{id}/complete", h.CompleteAssessment)
		})
	})

	return r
}
