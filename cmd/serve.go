package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"leavereason/internal/apihandlers"
	"leavereason/internal/services"
)

const shutdownTimeout = 10 * time.Second

var (
	serveAddr     string // Listen address
	servePort     int    // Listen port
	serveNoReload bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve predictions over HTTP",
	Long: `Starts an HTTP server exposing the reason classifier:

  POST /api/v1/predict   {"reason": "..."} -> {"category": "..."}
  GET  /api/v1/labels
  GET  /api/v1/model
  GET  /api/v1/history
  GET  /health

The artifact is reloaded automatically when a trainer replaces it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		cfg := appInstance.Config
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr = serveAddr
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// A missing artifact is not fatal: predict answers 503 until one appears.
		if err := appInstance.Predictions.Reload(ctx); err != nil {
			log.WithError(err).Warn("No usable artifact yet, predictions unavailable until one is trained")
		}

		if !serveNoReload {
			reloader, err := services.NewArtifactReloader(appInstance.Predictions)
			if err != nil {
				return fmt.Errorf("failed to watch artifact: %w", err)
			}
			defer reloader.Close()
			reloader.Start(ctx)
		}

		if !log.IsLevelEnabled(log.DebugLevel) {
			gin.SetMode(gin.ReleaseMode)
		}
		router := apihandlers.NewRouter(apihandlers.NewAPIHandler(appInstance))

		srv := &http.Server{
			Addr:              cfg.ListenAddress(),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Infof("Starting leave reason API server on http://%s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("failed to run API server: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down API server: %w", err)
		}
		log.Info("Leave reason API server stopped.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Add flags for server configuration
	serveCmd.Flags().StringVar(&serveAddr, "addr", "localhost", "Address to listen on (e.g., '0.0.0.0' for all interfaces)")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().BoolVar(&serveNoReload, "no-reload", false, "Do not reload the artifact when it changes on disk")
}
