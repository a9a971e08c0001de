// Package main provides the starrate binary: a terminal star-rating picker
// backed by sqlite, plus scriptable subcommands over the same store.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/starrate/internal/config"
	"github.com/jask/starrate/internal/database"
	"github.com/jask/starrate/internal/database/repository"
	"github.com/jask/starrate/internal/logging"
	"github.com/jask/starrate/internal/service"
	"github.com/jask/starrate/rating"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "starrate"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globals are the persistent flags shared by every subcommand.
type globals struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	g := &globals{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Rate things with stars",
		Long: `Starrate keeps star ratings for a list of subjects in a local sqlite
database. Run it without arguments for the interactive picker, or use the
subcommands to rate, inspect and export from scripts.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), g)
		},
	}

	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Config file path (TOML)")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		tuiCmd(g),
		rateCmd(g),
		showCmd(g),
		listCmd(g),
		importCmd(g),
		exportCmd(g),
		resetCmd(g),
		versionCmd(),
	)
	return cmd
}

// env is everything a subcommand needs, opened from the resolved config.
type env struct {
	cfgPath     string
	cfg         config.Config
	logger      *zap.Logger
	db          *sql.DB
	ratings     *service.RatingService
	ingest      *service.IngestService
	maintenance *service.MaintenanceService
}

func (e *env) Close() {
	_ = e.logger.Sync()
	if e.db != nil {
		_ = e.db.Close()
	}
}

func openEnv(ctx context.Context, g *globals) (*env, error) {
	path := g.configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Path)
	if err != nil {
		return nil, err
	}
	rating.SetLogger(logger.Named("rating"))

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(cfg.Database.Path); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	defaults := cfg.Rating.Widget()
	if err := database.SeedDefaults(ctx, db, defaults.Max, defaults.AllowHalf); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seed defaults: %w", err)
	}

	ratings := &service.RatingService{
		Subjects: repository.NewSubjectRepo(db),
		Ratings:  repository.NewRatingRepo(db),
		Defaults: defaults,
		Logger:   logger.Named("service"),
	}
	logger.Debug("environment ready", zap.String("config", path), zap.String("db", cfg.Database.Path))
	return &env{
		cfgPath:     path,
		cfg:         cfg,
		logger:      logger,
		db:          db,
		ratings:     ratings,
		ingest:      &service.IngestService{Ratings: ratings},
		maintenance: &service.MaintenanceService{DB: db},
	}, nil
}
