package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"track_swiftly/internal/repository"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete every package and its history, keeping accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, closeDB, err := openDatabase()
		if err != nil {
			return err
		}
		defer closeDB()

		history, packages, err := repository.NewPackageRepository(db).Purge(cmd.Context())
		if err != nil {
			return fmt.Errorf("cleanup failed: %w", err)
		}
		logrus.WithFields(logrus.Fields{
			"package_history": history,
			"packages":        packages,
		}).Info("cleanup complete")
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted package_history: %d\nDeleted packages: %d\n", history, packages)
		return nil
	},
}
