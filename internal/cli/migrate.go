package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	coreconfig "github.com/dkotenko/budgetbot/core/config"
	coredatabase "github.com/dkotenko/budgetbot/core/database"
	"github.com/dkotenko/budgetbot/core/logger"
)

// NewMigrateCommand builds the command that applies pending schema
// migrations without starting the bot.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := coreconfig.Load(rootOpts.ConfigPath)
			if err != nil {
				return fmt.Errorf("load config %s: %w", rootOpts.ConfigPath, err)
			}
			if err := logger.Init(logger.Options{
				Level:   cfg.Logging.Level,
				Format:  cfg.Logging.Format,
				Profile: cfg.Logging.Profile,
			}); err != nil {
				return err
			}
			return coredatabase.RunMigrations(cfg.Database)
		},
	}
}
