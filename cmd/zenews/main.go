package main

import (
	"fmt"
	"os"

	"github.com/ze-news/internal/app"
	"github.com/ze-news/internal/config"
	"github.com/ze-news/internal/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var version = "dev"

var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "zenews",
	Short:         "ZE News 管理命令",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(createAdminCmd)
	rootCmd.AddCommand(policiesCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "执行数据库自动迁移",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := app.OpenDatabase(cfg, true); err != nil {
			return err
		}
		logger.Infow("cli_migrate_done", "driver", cfg.Database.Driver)
		fmt.Fprintln(cmd.OutOrStdout(), "migration finished")
		return nil
	},
}

func openMigrated() (*gorm.DB, error) {
	return app.OpenDatabase(cfg, true)
}
