package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"track_swiftly/internal/auth"
	"track_swiftly/internal/config"
	"track_swiftly/internal/repository"
	"track_swiftly/internal/services"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the sample admin, customer and delivery accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, closeDB, err := openDatabase()
		if err != nil {
			return err
		}
		defer closeDB()
		if err := config.Migrate(db); err != nil {
			return err
		}

		svc := services.NewAuthService(
			repository.NewUserRepository(db),
			auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn),
		)
		created, err := svc.Seed(cmd.Context(), services.DefaultAccounts)
		if err != nil {
			return fmt.Errorf("seeding accounts: %w", err)
		}
		logrus.WithField("created", created).Info("database seeded")

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Sample accounts:")
		fmt.Fprintln(out, "  Admin:          admin@cloudtrack.com / admin123")
		fmt.Fprintln(out, "  Customer:       customer@example.com / password123")
		fmt.Fprintln(out, "  Delivery Staff: delivery@cloudtrack.com / password123")
		return nil
	},
}
