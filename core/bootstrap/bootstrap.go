// Package bootstrap initializes shared infrastructure in a fixed order:
// logger first, then database connection and migrations.
package bootstrap

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/dkotenko/budgetbot/core/config"
	coredatabase "github.com/dkotenko/budgetbot/core/database"
	"github.com/dkotenko/budgetbot/core/logger"
)

// Options control the bootstrap pipeline. The function fields exist for
// tests; nil selects the real implementation.
type Options struct {
	Config *coreconfig.Config

	LoggerInit     func(logger.Options) error
	Connect        func(coredatabase.Config) (*sqlx.DB, error)
	Migrate        func(coredatabase.Config) error
	SkipMigrations bool
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
type Result struct {
	DB *sqlx.DB
}

// Run initializes the logger, connects to the database, and applies
// migrations.
func Run(opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.Init
	}
	logCfg := opts.Config.Logging
	if err := loggerInit(logger.Options{
		Level:     logCfg.Level,
		Format:    logCfg.Format,
		KeysOrder: logCfg.KeysOrder,
		Dir:       logCfg.Dir,
		File:      logCfg.BotFile,
		Profile:   logCfg.Profile,
	}); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	connect := opts.Connect
	if connect == nil {
		connect = coredatabase.Connect
	}
	db, err := connect(opts.Config.Database)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: database initialization failed: %w", err)
	}

	if !opts.SkipMigrations {
		migrate := opts.Migrate
		if migrate == nil {
			migrate = coredatabase.RunMigrations
		}
		if err := migrate(opts.Config.Database); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("bootstrap: migrations failed: %w", err)
		}
	}

	return &Result{DB: db}, nil
}
