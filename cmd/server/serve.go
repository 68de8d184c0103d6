package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"track_swiftly/internal/cache"
	"track_swiftly/internal/config"
	"track_swiftly/internal/routes"
	"track_swiftly/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate the schema and start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	db, closeDB, err := openDatabase()
	if err != nil {
		return err
	}
	defer closeDB()
	if err := config.Migrate(db); err != nil {
		return err
	}

	store, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		return err
	}
	defer store.Close()

	nrApp, err := telemetry.NewApplication(cfg.NewRelic)
	if err != nil {
		return err
	}
	defer telemetry.Shutdown(nrApp, cfg.Server.ShutdownTimeout)

	deps := routes.NewDependencies(db, cfg, cache.NewTrackingCache(store))
	deps.NewRelic = nrApp
	deps.AccessLog = logOutput
	router, err := routes.SetupRouter(deps)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithFields(logrus.Fields{
			"port":  cfg.Server.Port,
			"env":   cfg.Server.Env,
			"cache": store.Enabled(),
		}).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case sig := <-quit:
		logrus.WithField("signal", sig.String()).Info("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("server forced to shutdown")
		return err
	}
	logrus.Info("server exited properly")
	return nil
}
