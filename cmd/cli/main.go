// Command linkbio manages link-in-bio profiles from the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wadjakorntonsri/go-linkinbio/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/go-linkinbio/pkg/config"
	"github.com/wadjakorntonsri/go-linkinbio/pkg/core/services"
	"github.com/wadjakorntonsri/go-linkinbio/pkg/logger"
)

var (
	// databaseURL overrides DATABASE_URL when set by --db.
	databaseURL string

	// jsonOutput is set by the --json flag.
	jsonOutput bool

	// linkbio is initialized on startup.
	linkbio *app
)

type app struct {
	repo     *sqlite.SQLiteRepository
	links    *services.LinkService
	profiles *services.ProfileService
	log      zerolog.Logger
}

func newApp(dbURL, salt string, log zerolog.Logger) (*app, error) {
	repo, err := sqlite.NewSQLiteRepository(dbURL)
	if err != nil {
		return nil, err
	}
	links := services.NewLinkService(repo, repo, salt)
	return &app{
		repo:     repo,
		links:    links,
		profiles: services.NewProfileService(repo, links),
		log:      log,
	}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "linkbio",
	Short: "linkbio manages link-in-bio profiles",
	Long: `linkbio manages the ordered link collections behind link-in-bio pages.
It talks to the same database as the server (DATABASE_URL or --db).`,
	SilenceUsage:      true,
	PersistentPreRunE: initApp,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if linkbio != nil {
			return linkbio.repo.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "db", "", "database URL (default: DATABASE_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON output")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(linksCmd)
}

func initApp(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if databaseURL != "" {
		cfg.DatabaseURL = databaseURL
	}

	// stdout carries command output
	log := logger.NewWithWriter(os.Stderr, cfg.LogLevel, cfg.AppEnv)

	a, err := newApp(cfg.DatabaseURL, cfg.IPHashSalt, log)
	if err != nil {
		return errors.Wrap(err, "open database")
	}
	linkbio = a
	return nil
}
