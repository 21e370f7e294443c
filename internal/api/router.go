package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"quizbot/internal/store"
)

// NewRouter wires the full API surface. corsOrigins is empty for LAN-only
// deployments; credentials stay enabled either way.
func NewRouter(authSvc *AuthService, users store.UserStore, corsOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	if len(corsOrigins) == 0 {
		corsOrigins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	r.Post("/auth/login", LoginHandler(authSvc))

	r.Group(func(pr chi.Router) {
		pr.Use(JWTMiddleware(authSvc))

		pr.Post("/extract", ExtractHandler())
		pr.Get("/users", ListUsersHandler(users))
		pr.Get("/allowed", ListAllowedHandler(users))
		pr.Post("/allowed/{id}", AllowUserHandler(users))
		pr.Delete("/allowed/{id}", RemoveAllowedHandler(users))
	})

	return r
}
