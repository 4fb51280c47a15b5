package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"tasklist-backend/interfaces/http/rest/handlers"
	"tasklist-backend/interfaces/http/rest/middleware"
	apperrors "tasklist-backend/pkg/errors"
	"tasklist-backend/pkg/observability"
)

// Router assembles the HTTP surface: middleware chain, public health route,
// and the authenticated API routes.
type Router struct {
	tasks   *handlers.TaskHandler
	users   *handlers.UserHandler
	auth    *middleware.Authenticator
	metrics *observability.Metrics
	errors  *apperrors.Handler
	logger  *zap.Logger
}

// NewRouter creates the router with its handlers and middleware.
func NewRouter(
	tasks *handlers.TaskHandler,
	users *handlers.UserHandler,
	auth *middleware.Authenticator,
	metrics *observability.Metrics,
	errors *apperrors.Handler,
	logger *zap.Logger,
) *Router {
	return &Router{
		tasks:   tasks,
		users:   users,
		auth:    auth,
		metrics: metrics,
		errors:  errors,
		logger:  logger,
	}
}

// Setup builds the chi handler tree.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger(rt.logger))
	r.Use(middleware.RequestMetrics(rt.metrics))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           86400,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Group(func(r chi.Router) {
		r.Use(rt.auth.Middleware)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", rt.tasks.List)
			r.Post("/", rt.tasks.Create)
			r.Get("/{itemId}", rt.tasks.Get)
			r.Put("/{itemId}", rt.tasks.Update)
			r.Delete("/{itemId}", rt.tasks.Delete)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", rt.users.List)
			r.Post("/", rt.users.Create)
			r.Get("/{userId}", rt.users.Get)
			r.Put("/{userId}", rt.users.Update)
			r.Delete("/{userId}", rt.users.Delete)
		})

		r.Get("/me", rt.users.Me)
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		rt.errors.HandleStatus(w, req, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		rt.errors.HandleStatus(w, req, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}
