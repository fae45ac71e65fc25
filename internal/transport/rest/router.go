package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"

	"github.com/wkusuma/customs-case-management/internal/accesscontrol"
	"github.com/wkusuma/customs-case-management/internal/admin"
	"github.com/wkusuma/customs-case-management/internal/auth"
	"github.com/wkusuma/customs-case-management/internal/cases"
	"github.com/wkusuma/customs-case-management/internal/metrics"
	"github.com/wkusuma/customs-case-management/internal/template"
	"github.com/wkusuma/customs-case-management/internal/transport/middleware"
	"github.com/wkusuma/customs-case-management/internal/transport/swagger"
	"github.com/wkusuma/customs-case-management/internal/user"
)

func RegisterAllRoutes(
	router *chi.Mux,
	db *sqlx.DB,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	caseHandler *cases.Handler,
	templateHandler *template.Handler,
	moduleHandler *accesscontrol.Handler,
	adminHandler *admin.Handler,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Operational surface outside the API prefix
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())
	router.Handle("/metrics", metrics.Handler())

	// The login endpoint manages its own method and CORS semantics, so it is
	// registered for every verb.
	router.Handle("/auth/login", http.HandlerFunc(authHandler.Login))

	// One-shot database bootstrap for fresh deployments
	router.Post("/admin/db-init", adminHandler.InitDatabase)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Handle("/auth/login", http.HandlerFunc(authHandler.Login))

		// Everything below requires a valid session token
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			pr.Get("/users/me", userHandler.GetCurrentUser)
			pr.Get("/modules", moduleHandler.ListModules)

			pr.Route("/cases", func(cr chi.Router) {
				cr.Get("/", caseHandler.ListCases)
				cr.Get("/{id}", caseHandler.GetCase)

				cr.Group(func(wr chi.Router) {
					wr.Use(middleware.RequirePermissions("cases:create"))
					wr.Post("/", caseHandler.CreateCase)
				})
				cr.Group(func(wr chi.Router) {
					wr.Use(middleware.RequirePermissions("cases:modify"))
					wr.Patch("/{id}", caseHandler.UpdateCase)
				})
				// Officers have an empty assign set, so the route is gated at
				// Supervisor level before the per-case rule check runs.
				cr.Group(func(wr chi.Router) {
					wr.Use(middleware.RequirePermissions("cases:assign"))
					wr.Use(middleware.RequireHierarchyLevel(accesscontrol.LevelSupervisor))
					wr.Post("/{id}/assign", caseHandler.AssignCase)
				})
			})

			pr.Route("/templates", func(tr chi.Router) {
				tr.Get("/", templateHandler.ListTemplates)
				tr.Get("/{id}", templateHandler.GetTemplate)

				tr.Group(func(wr chi.Router) {
					wr.Use(middleware.RequirePermissions("templates:manage"))
					wr.Post("/", templateHandler.CreateTemplate)
					wr.Put("/{id}", templateHandler.UpdateTemplate)
					wr.Delete("/{id}", templateHandler.DeleteTemplate)
				})
			})
		})
	})
}
