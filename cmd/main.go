package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "mixing-service/docs"
	"mixing-service/internal/config"
	"mixing-service/internal/logging"
	"mixing-service/internal/models"
)

// @title Mixing Service API
// @version 1.0
// @description Mixing projects, track uploads paid with track credits, and the staff work queue.
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Bearer <token>

var configFile string

func main() {
	root := &cobra.Command{
		Use:           "mixing",
		Short:         "Mixing project service",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "optional config file (yaml, json or toml)")
	root.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newUserCommand(),
		newCreditCommand(),
		newQueueCommand(),
	)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// runtime is what every command needs: configuration, a logger and the database.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
}

func bootstrap() (*runtime, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		return nil, err
	}
	return &runtime{cfg: cfg, logger: logger, db: db}, nil
}

func (r *runtime) close() {
	if sqlDB, err := r.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = r.logger.Sync()
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.close()
			if err := migrate(rt.db); err != nil {
				return err
			}
			rt.logger.Info("database migrated")
			return nil
		},
	}
}
