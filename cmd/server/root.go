package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"track_swiftly/internal/config"
	"track_swiftly/internal/logger"
)

var (
	cfgFile   string
	cfg       *config.Config
	logOutput io.Writer = os.Stdout
)

var rootCmd = &cobra.Command{
	Use:   "track-swiftly",
	Short: "Package tracking backend",
	Long:  `Track Swiftly records packages and their delivery history and serves them over a role-scoped HTTP API.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		logOutput = logger.Setup(cfg.Logging)
		return nil
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Error("command failed")
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, cleanupCmd)
}

// openDatabase connects using the loaded configuration.
func openDatabase() (*gorm.DB, func(), error) {
	db, err := config.OpenDB(cfg.Database, logger.GormLogger())
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, closeFn, nil
}
