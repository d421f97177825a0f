package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/leadhub/leadhub/internal/api/handler"
	"github.com/leadhub/leadhub/internal/api/middleware"
	"github.com/leadhub/leadhub/internal/api/response"
	"github.com/leadhub/leadhub/internal/auth"
	"github.com/leadhub/leadhub/internal/contact"
	"github.com/leadhub/leadhub/internal/lead"
	"github.com/leadhub/leadhub/internal/task"
	"github.com/leadhub/leadhub/internal/team"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	AuthService *auth.Service
	Tokens      *auth.TokenService
	UserRepo    auth.Repository
	TeamRepo    team.Repository
	LeadRepo    lead.Repository
	ContactRepo contact.Repository
	TaskRepo    task.Repository
	DBPinger    handler.DBPinger
	Version     string
}

// NewRouter creates and configures a Chi router with all middleware and routes.
// Every route touching lead or user data sits behind RequireAuth; there is no
// unauthenticated path to tenant-owned records.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	authHandler := handler.NewAuthHandler(deps.AuthService)
	r.Route("/auth", func(r chi.Router) {
		r.MethodNotAllowed(methodNotAllowed(http.MethodPost))
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	leadHandler := handler.NewLeadHandler(deps.LeadRepo)
	r.Route("/leads", func(r chi.Router) {
		r.Use(middleware.RequireAuth(deps.Tokens))
		r.MethodNotAllowed(methodNotAllowed(
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete))
		r.Get("/", leadHandler.List)
		r.Post("/", leadHandler.Create)
		r.Put("/", leadHandler.Update)
		r.Delete("/", leadHandler.Delete)
		r.Get("/stats", leadHandler.Stats)
	})

	userHandler := handler.NewUserHandler(deps.AuthService, deps.UserRepo)
	r.Route("/user", func(r chi.Router) {
		r.Use(middleware.RequireAuth(deps.Tokens))
		r.MethodNotAllowed(methodNotAllowed(http.MethodGet, http.MethodPut))
		r.Get("/", userHandler.Get)
		r.Put("/", userHandler.ChangePassword)
	})

	teamHandler := handler.NewTeamHandler(deps.TeamRepo)
	r.Route("/team", func(r chi.Router) {
		r.Use(middleware.RequireAuth(deps.Tokens))
		r.MethodNotAllowed(methodNotAllowed(http.MethodGet))
		r.Get("/", teamHandler.Get)
	})

	contactHandler := handler.NewContactHandler(deps.ContactRepo)
	r.Route("/contacts", func(r chi.Router) {
		r.MethodNotAllowed(methodNotAllowed(
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete))
		r.Get("/", contactHandler.List)
		r.Post("/", contactHandler.Create)
		r.Put("/", contactHandler.Update)
		r.Delete("/", contactHandler.Delete)
	})

	taskHandler := handler.NewTaskHandler(deps.TaskRepo)
	r.Route("/tasks", func(r chi.Router) {
		r.MethodNotAllowed(methodNotAllowed(http.MethodGet, http.MethodPost))
		r.Get("/", taskHandler.List)
		r.Post("/", taskHandler.Create)
	})

	return r
}

// methodNotAllowed returns a 405 handler advertising the permitted
// methods in the Allow header.
func methodNotAllowed(allowed ...string) http.HandlerFunc {
	allow := strings.Join(allowed, ", ")
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", allow)
		response.Err(w, http.StatusMethodNotAllowed, fmt.Sprintf("Method %s Not Allowed", r.Method))
	}
}
