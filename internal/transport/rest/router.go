package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/university-directory/internal"
	"github.com/frahmantamala/university-directory/internal/auth"
	"github.com/frahmantamala/university-directory/internal/scheduler"
	"github.com/frahmantamala/university-directory/internal/transport/middleware"
	"github.com/frahmantamala/university-directory/internal/transport/swagger"
	"github.com/frahmantamala/university-directory/internal/university"
	"github.com/frahmantamala/university-directory/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// RouterDeps carries everything the route table needs.
type RouterDeps struct {
	DB                *sql.DB
	AuthHandler       *auth.Handler
	UserHandler       *user.Handler
	UniversityHandler *university.Handler
	Scheduler         *scheduler.Manager
	Config            *internal.Config
	Logger            *slog.Logger
}

func RegisterAllRoutes(router *chi.Mux, deps RouterDeps) {
	healthHandler := NewHealthHandler(deps.DB)
	authorizer := auth.NewAuthorizer(deps.Logger)

	router.Use(middleware.CORS(deps.Config.Server.AllowedOrigins))
	router.Use(middleware.SecurityHeaders)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(deps.Logger))
	router.Use(middleware.LoggingMiddleware(deps.Logger))
	if deps.Config.Security.RateLimitPerSecond > 0 {
		router.Use(middleware.RateLimit(deps.Config.Security.RateLimitPerSecond, deps.Config.Security.RateLimitBurst))
	}

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/register", deps.AuthHandler.Register)
			sr.Post("/login", deps.AuthHandler.Login)
			sr.Post("/refresh", deps.AuthHandler.RefreshToken)

			sr.Group(func(pr chi.Router) {
				pr.Use(deps.AuthHandler.AuthMiddleware)
				pr.Post("/logout", deps.AuthHandler.Logout)
				pr.Get("/me", deps.AuthHandler.Me)
				pr.Post("/change-password", deps.AuthHandler.ChangePassword)
			})
		})

		// Everything below requires a valid access token.
		r.Group(func(pr chi.Router) {
			pr.Use(deps.AuthHandler.AuthMiddleware)

			// User administration is admin only, including stats.
			pr.Route("/users", func(ur chi.Router) {
				ur.Use(authorizer.RequireRoles(auth.RoleAdmin))
				ur.Get("/", deps.UserHandler.List)
				ur.Post("/", deps.UserHandler.Create)
				ur.Get("/stats", deps.UserHandler.Stats)
				ur.Get("/{id}", deps.UserHandler.Get)
				ur.Put("/{id}", deps.UserHandler.Update)
				ur.Put("/{id}/password", deps.UserHandler.UpdatePassword)
				ur.Patch("/{id}/toggle-status", deps.UserHandler.ToggleStatus)
				ur.Delete("/{id}", deps.UserHandler.Delete)
			})

			pr.Route("/universities", func(vr chi.Router) {
				vr.Group(func(rr chi.Router) {
					rr.Use(authorizer.RequireCapability(auth.CapUniversitiesRead))
					rr.Get("/", deps.UniversityHandler.List)
					rr.Get("/{id}", deps.UniversityHandler.Get)
				})
				vr.Group(func(rr chi.Router) {
					rr.Use(authorizer.RequireCapability(auth.CapStatsRead))
					rr.Get("/stats", deps.UniversityHandler.Stats)
				})
				vr.Group(func(wr chi.Router) {
					wr.Use(authorizer.RequireCapability(auth.CapUniversitiesWrite))
					wr.Post("/", deps.UniversityHandler.Create)
					wr.Put("/{id}", deps.UniversityHandler.Update)
				})
				vr.Group(func(dr chi.Router) {
					dr.Use(authorizer.RequireCapability(auth.CapUniversitiesDelete))
					dr.Delete("/{id}", deps.UniversityHandler.Delete)
				})
			})

			// Scheduler visibility for operators.
			if deps.Scheduler != nil {
				pr.Group(func(sr chi.Router) {
					sr.Use(authorizer.RequireRoles(auth.RoleAdmin))
					sr.Get("/scheduler/jobs", schedulerStatusHandler(deps.Scheduler))
				})
			}
		})
	})
}
