package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/go-linkinbio/pkg/config"
	"github.com/wadjakorntonsri/go-linkinbio/pkg/ports"
)

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, linkService ports.LinkService, profileService ports.ProfileService, log zerolog.Logger) http.Handler {
	// Initialize Handlers
	h := NewHTTPHandler(linkService, log)
	ph := NewProfileHandler(profileService, log)
	authHandler := NewAuthHandler(cfg, log)

	// Initialize Middleware
	mw := NewMiddleware(cfg, log)

	// Setup Router
	mux := http.NewServeMux()

	// Public Routes
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})
	mux.HandleFunc("GET /u/{slug}", ph.GetPublicProfile)
	mux.HandleFunc("GET /go/{id}", h.Redirect)
	mux.HandleFunc("POST /go/{id}/track", h.Track)
	mux.HandleFunc("GET /auth/google/login", authHandler.Login)
	mux.HandleFunc("GET /auth/google/callback", authHandler.Callback)
	mux.HandleFunc("GET /auth/logout", authHandler.Logout)

	// Protected Routes
	protectedMux := http.NewServeMux()

	// Profile Routes
	protectedMux.HandleFunc("POST /api/v1/profiles", ph.CreateProfile)
	protectedMux.HandleFunc("GET /api/v1/profiles", ph.ListProfiles)
	protectedMux.HandleFunc("GET /api/v1/profiles/{id}", ph.GetProfile)
	protectedMux.HandleFunc("PUT /api/v1/profiles/{id}", ph.UpdateProfile)
	protectedMux.HandleFunc("DELETE /api/v1/profiles/{id}", ph.DeleteProfile)
	protectedMux.HandleFunc("GET /api/v1/profiles/{id}/stats", h.OwnerStats)

	// Link Routes
	protectedMux.HandleFunc("GET /api/v1/profiles/{id}/links", h.List)
	protectedMux.HandleFunc("POST /api/v1/profiles/{id}/links", h.Create)
	protectedMux.HandleFunc("PUT /api/v1/profiles/{id}/links/order", h.Reorder)
	protectedMux.HandleFunc("PATCH /api/v1/links/{id}", h.Update)
	protectedMux.HandleFunc("DELETE /api/v1/links/{id}", h.Delete)
	protectedMux.HandleFunc("PUT /api/v1/links/{id}/enabled", h.Toggle)
	protectedMux.HandleFunc("GET /api/v1/links/{id}/stats", h.Stats)

	mux.Handle("/api/v1/", mw.AuthMiddleware(protectedMux))

	return mw.RequestLogger(mux)
}
