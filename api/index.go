package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/go-linkinbio/pkg/adapters/handler"
	"github.com/wadjakorntonsri/go-linkinbio/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/go-linkinbio/pkg/config"
	"github.com/wadjakorntonsri/go-linkinbio/pkg/core/services"
	"github.com/wadjakorntonsri/go-linkinbio/pkg/logger"
)

var mux http.Handler

func init() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.AppEnv)

	// Note: On Vercel, db.sqlite is ephemeral unless using a remote SQL/Turso URL in DATABASE_URL
	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	linkService := services.NewLinkService(repo, repo, cfg.IPHashSalt)
	profileService := services.NewProfileService(repo, linkService)
	mux = handler.NewRouter(cfg, linkService, profileService, log)
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
