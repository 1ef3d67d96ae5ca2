package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/upb/spaces-control-plane/app"
	"github.com/upb/spaces-control-plane/handlers"
	"github.com/upb/spaces-control-plane/internal/auth"
	"github.com/upb/spaces-control-plane/middleware"
	"github.com/upb/spaces-control-plane/models"
	"github.com/upb/spaces-control-plane/utils"
)

// route binds a chi pattern to its handler and access policy.
// The route id checked by the gate is RouteID(method, pattern).
type route struct {
	method  string
	pattern string
	policy  auth.RoutePolicy
	handler http.HandlerFunc
}

func (rt route) id() string {
	return auth.RouteID(rt.method, rt.pattern)
}

// apiRoutes lists every gated endpoint of the API
func apiRoutes(deps *app.Dependencies) []route {
	authH := handlers.NewAuthHandler(deps.AuthService, deps.Logger)
	areaH := handlers.NewAreaHandler(deps.Areas, deps.Logger)
	roomH := handlers.NewRoomHandler(deps.Rooms, deps.Logger)
	userH := handlers.NewUserHandler(deps.Users, deps.Logger)
	auditH := handlers.NewAuditHandler(deps.AuditLogs, deps.Logger)

	adminOnly := auth.RequireRoles(models.RoleAdmin)
	roomManagers := auth.RequireRoles(models.RoleAdmin, models.RoleLeader)

	return []route{
		// Session lifecycle
		{http.MethodPost, "/api/v1/auth/sign-in", auth.Public(), authH.HandleSignIn},
		{http.MethodPost, "/api/v1/auth/refresh", auth.Public(), authH.HandleRefresh},
		{http.MethodPost, "/api/v1/auth/sign-out", auth.Public(), authH.HandleSignOut},
		{http.MethodGet, "/api/v1/auth/me", auth.Authenticated(), authH.HandleMe},

		// Areas
		{http.MethodGet, "/api/v1/areas", auth.Authenticated(), areaH.HandleList},
		{http.MethodPost, "/api/v1/areas", adminOnly, areaH.HandleCreate},
		{http.MethodGet, "/api/v1/areas/{id}", auth.Authenticated(), areaH.HandleGet},
		{http.MethodDelete, "/api/v1/areas/{id}", adminOnly, areaH.HandleDelete},

		// Rooms
		{http.MethodGet, "/api/v1/rooms", auth.Authenticated(), roomH.HandleList},
		{http.MethodPost, "/api/v1/rooms", roomManagers, roomH.HandleCreate},
		{http.MethodGet, "/api/v1/rooms/{id}", auth.Authenticated(), roomH.HandleGet},
		{http.MethodDelete, "/api/v1/rooms/{id}", roomManagers, roomH.HandleDelete},

		// Identity administration
		{http.MethodGet, "/api/v1/profiles", adminOnly, userH.HandleListProfiles},
		{http.MethodPost, "/api/v1/users", adminOnly, userH.HandleCreate},

		// Audit trail
		{http.MethodGet, "/api/v1/audit/logs", adminOnly, auditH.HandleList},
	}
}

// buildPolicyTable registers every route's policy. It panics when two routes
// share an id.
func buildPolicyTable(routes []route) *auth.PolicyTable {
	builder := auth.NewPolicyTableBuilder()
	for _, rt := range routes {
		builder.Register(rt.id(), rt.policy)
	}
	return builder.Build()
}

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(middleware.RequestMeta)

	// Health check endpoints
	health := handlers.NewHealthHandler(deps.Logger, deps.HealthChecks()...)
	r.Get("/healthz", health.HandleHealth)
	r.Get("/readyz", health.HandleReadiness)

	routes := apiRoutes(deps)
	gate := auth.NewGate(buildPolicyTable(routes), deps.Verifier)
	authMW := middleware.NewAuthMiddleware(gate, deps.Logger)

	for _, rt := range routes {
		r.With(authMW.Enforce(rt.id())).Method(rt.method, rt.pattern, rt.handler)
	}

	deps.Logger.Info("routes registered")

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, "Endpoint not found")
	})

	return r
}
