package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"track_swiftly/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, closeDB, err := openDatabase()
		if err != nil {
			return err
		}
		defer closeDB()

		if err := config.Migrate(db); err != nil {
			return err
		}
		logrus.Info("database migrated")
		return nil
	},
}
