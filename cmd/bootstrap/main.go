package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kuomat/penn-labs/config"
	"github.com/kuomat/penn-labs/internal/bootstrap"
	"github.com/kuomat/penn-labs/pkg/database"
	applogger "github.com/kuomat/penn-labs/pkg/logger"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		configPath string
		reset      bool
		opts       bootstrap.Options
	)

	cmd := &cobra.Command{
		Use:           "bootstrap",
		Short:         "Populate the Penn Club Review database",
		Long:          "Create tables, the seed user, clubs scraped from the club directory and clubs listed in clubs.json.",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			logger, err := applogger.NewLogger(&cfg.Log)
			if err != nil {
				return fmt.Errorf("初始化日志失败: %w", err)
			}
			defer logger.Sync()

			if reset {
				if err := resetDatabase(cfg, logger); err != nil {
					return err
				}
			}

			db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
			if err != nil {
				return fmt.Errorf("数据库连接失败: %w", err)
			}
			defer func() {
				if sqlDB, err := db.DB(); err == nil {
					sqlDB.Close()
				}
			}()

			_, err = bootstrap.NewLoader(cfg, db, logger).Run(context.Background(), opts)
			return err
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file (default is ./config/config.yaml)")
	cmd.Flags().BoolVar(&reset, "reset", false, "delete the existing sqlite database file first")
	cmd.Flags().BoolVar(&opts.SkipScrape, "skip-scrape", false, "do not scrape the club directory")
	cmd.Flags().StringVar(&opts.ClubsFile, "clubs-file", "", "clubs JSON file (default from bootstrap.clubs_file)")

	return cmd
}

// resetDatabase 删除已有的 sqlite 数据库文件；postgres 不做处理
func resetDatabase(cfg *config.Config, logger *zap.Logger) error {
	if cfg.Database.Driver != config.DriverSQLite {
		logger.Warn("--reset 仅对 sqlite 生效", zap.String("driver", cfg.Database.Driver))
		return nil
	}
	err := os.Remove(cfg.Database.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("删除数据库文件失败: %w", err)
	}
	if err == nil {
		logger.Info("已删除旧数据库文件", zap.String("path", cfg.Database.Path))
	}
	return nil
}
