package cli

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dkotenko/budgetbot/core/bootstrap"
	coreconfig "github.com/dkotenko/budgetbot/core/config"
	"github.com/dkotenko/budgetbot/core/logger"
	"github.com/dkotenko/budgetbot/internal/ledger"
	"github.com/dkotenko/budgetbot/internal/session"
	"github.com/dkotenko/budgetbot/internal/telegram"
)

// NewRunCommand builds the command that serves the bot.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	var skipMigrations bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the bot and serve Telegram updates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBot(rootOpts, skipMigrations)
		},
	}
	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply database migrations on start")
	return cmd
}

func runBot(rootOpts *RootOptions, skipMigrations bool) error {
	cfg, err := coreconfig.Load(rootOpts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config %s: %w", rootOpts.ConfigPath, err)
	}

	startedAt := time.Now()
	infra, err := bootstrap.Run(bootstrap.Options{
		Config:         cfg,
		SkipMigrations: skipMigrations,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()
	defer func() {
		_ = infra.DB.Close()
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sessions := session.NewStore(cfg.Budget.SessionTTL())
	sessions.StartEvictor(ctx)

	logger.Info(ctx, "app", "ready",
		slog.Duration("startup_duration", logger.RoundMS(time.Since(startedAt))),
	)

	err = telegram.Run(ctx, telegram.Options{
		Config:   cfg,
		Store:    ledger.NewPG(infra.DB),
		Sessions: sessions,
	})
	logger.Info(ctx, "app", "shutdown")
	return err
}
