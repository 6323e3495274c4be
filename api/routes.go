package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/uday132/hackhub/internal/config"
	"github.com/uday132/hackhub/internal/db"
	"github.com/uday132/hackhub/internal/repository/sqlite"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, database *db.DB, generator RoadmapGenerator) http.Handler {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)

	// Repository
	repo := sqlite.New(database, logger)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(repo, cfg.JWTSecret, cfg.TokenDuration)
	eventsHandler := NewEventsHandler(repo)
	registrationsHandler := NewRegistrationsHandler(repo, repo)
	adminHandler := NewAdminHandler(repo)
	pathfinderHandler := NewPathfinderHandler(repo, repo, generator)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")

	// Public API routes: auth and event reads. The numeric id pattern keeps
	// /events/mine out of the public matcher.
	public := r.PathPrefix("/api").Subrouter()
	public.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	public.HandleFunc("/auth/signin", authHandler.Signin).Methods("POST")
	public.HandleFunc("/events", eventsHandler.List).Methods("GET")
	public.HandleFunc("/events/{id:[0-9]+}", eventsHandler.Get).Methods("GET")

	// Authenticated routes
	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))
	protected.HandleFunc("/auth/signout", authHandler.Signout).Methods("POST")
	protected.HandleFunc("/auth/me", authHandler.Me).Methods("GET")
	protected.HandleFunc("/auth/profile", authHandler.UpdateProfile).Methods("PUT")
	protected.HandleFunc("/registrations", registrationsHandler.List).Methods("GET")
	protected.HandleFunc("/registrations", registrationsHandler.Register).Methods("POST")
	protected.HandleFunc("/pathfinder/generate", pathfinderHandler.Generate).Methods("POST")
	protected.HandleFunc("/pathfinder", pathfinderHandler.List).Methods("GET")
	protected.HandleFunc("/pathfinder/{id:[0-9]+}/topic/{topicID}", pathfinderHandler.ToggleTopic).Methods("PUT")

	// Admin routes
	admin := r.PathPrefix("/api").Subrouter()
	admin.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret), RequireAdmin)
	admin.HandleFunc("/events", eventsHandler.Create).Methods("POST")
	admin.HandleFunc("/events/mine", eventsHandler.Mine).Methods("GET")
	admin.HandleFunc("/events/{id:[0-9]+}", eventsHandler.Update).Methods("PUT")
	admin.HandleFunc("/events/{id:[0-9]+}", eventsHandler.Delete).Methods("DELETE")
	admin.HandleFunc("/admin/users", adminHandler.Users).Methods("GET")
	admin.HandleFunc("/admin/stats", adminHandler.Stats).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	})

	return c.Handler(r)
}
