package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mtomcal/videotitan-server/internal/docstore"
	"github.com/mtomcal/videotitan-server/internal/importer"
	"github.com/mtomcal/videotitan-server/internal/platform"
	"github.com/mtomcal/videotitan-server/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner carries the wired application services for all CLI commands.
//
// Services are built lazily on first use so commands like `init` work without
// credentials or a reachable store.
type Runner struct {
	config *shared.Config
	logger *log.Logger

	db      *sql.DB
	store   docstore.Store
	dir     platform.Directory
	engine  *importer.Engine
	sources *importer.SourceService
}

// RunnerConfig contains the Runner's constructor dependencies.
type RunnerConfig struct {
	Config *shared.Config
	Logger *log.Logger
}

// NewRunner creates a Runner.
func NewRunner(cfg RunnerConfig) *Runner {
	return &Runner{
		config: cfg.Config,
		logger: cfg.Logger,
	}
}

// SetLogger swaps the Runner's logger, rewiring dependent services.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	if r.dir != nil && r.store != nil {
		pub := importer.NewStagedPublisher(r.store)
		r.engine = importer.NewEngine(r.dir, pub, r.logger, r.config.Importer.Workers)
	}
}

// setup wires the store, directory client, and engine from configuration.
func (r *Runner) setup() error {
	if r.engine != nil {
		return nil
	}

	switch r.config.Store.Backend {
	case "", "sqlite":
		db, err := shared.NewDatabase(r.config.Store.Path)
		if err != nil {
			return err
		}
		shared.ConfigureDatabase(db, 4, 2)

		store, err := docstore.NewSQLite(db, nil)
		if err != nil {
			db.Close()
			return err
		}
		r.db = db
		r.store = store

	case "firebase":
		if r.config.Store.URL == "" {
			return fmt.Errorf("%w: store.url is required for the firebase backend", shared.ErrInvalidConfig)
		}
		r.store = docstore.NewFirebase(r.config.Store.URL, r.config.Store.Secret)

	default:
		return fmt.Errorf("%w: unknown store backend %q", shared.ErrInvalidConfig, r.config.Store.Backend)
	}

	if r.config.Credentials.YouTube.APIKey == "" {
		r.logger.Warn("no YouTube API key configured; upstream requests will be rejected")
	}

	r.dir = platform.NewYouTube(platform.YouTubeOpts{
		BaseURL:   r.config.Credentials.YouTube.BaseURL,
		APIKey:    r.config.Credentials.YouTube.APIKey,
		PageSize:  r.config.Importer.PageSize,
		RateLimit: r.config.Importer.RateLimit,
	})

	pub := importer.NewStagedPublisher(r.store)
	r.engine = importer.NewEngine(r.dir, pub, r.logger, r.config.Importer.Workers)
	r.sources = importer.NewSourceService(r.store)

	return nil
}

// Close releases resources held by the Runner.
func (r *Runner) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// register builds the CLI command tree.
func (r *Runner) register() []*cli.Command {
	return []*cli.Command{
		initCommand(r),
		serveCommand(r),
		importCommand(r),
		sourcesCommand(r),
	}
}

func initCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write a starter config.toml in the current directory",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := shared.CreateConfigFile("config.toml"); err != nil {
				return err
			}
			r.logger.Info("wrote config.toml")
			return nil
		},
	}
}
