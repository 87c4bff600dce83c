package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"leavereason/internal/app"
	"leavereason/internal/config"
	"leavereason/internal/logging"
)

var (
	cfgFile      string
	artifactPath string
	logLevel     string
)

// closers are released after every command, in reverse order.
var closers []io.Closer

var rootCmd = &cobra.Command{
	Use:   "leavereason",
	Short: "Leave reason classifier",
	Long: `leavereason trains a small text classifier that maps a free-text leave
reason to one of seven categories (Medical, Family, Travel, Personal,
Academic, Holiday, Emergency) and serves its predictions from the CLI or
over HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is given, print help.
		cmd.Help()
	},
	// PersistentPreRunE runs before any subcommand's RunE
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd == cmd.Root() {
			return nil
		}

		cfg, err := config.LoadConfig(cfgFile, cmd.Flags())
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		logCloser, err := logging.Init(logging.Options{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
			File:   cfg.Log.File,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		closers = append(closers, logCloser)

		appInstance, err := app.NewApp(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}
		closers = append(closers, appInstance)

		// Store the app instance in the command's context
		ctx := context.WithValue(cmd.Context(), appKey, appInstance)
		cmd.SetContext(ctx)
		return nil
	},
}

// Execute runs the root command and exits non-zero on any error.
func Execute() {
	err := rootCmd.ExecuteContext(context.Background())
	closeAll()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func closeAll() {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			log.WithError(err).Warn("Cleanup failed")
		}
	}
	closers = nil
}

// Define a custom type for the context key to avoid collisions.
type contextKey string

const appKey contextKey = "app"

// GetAppFromContext retrieves the app instance stored by PersistentPreRunE.
func GetAppFromContext(ctx context.Context) (*app.App, error) {
	if ctx == nil {
		return nil, errors.New("application instance not found in context")
	}
	appInstance, ok := ctx.Value(appKey).(*app.App)
	if !ok || appInstance == nil {
		return nil, errors.New("application instance not found in context")
	}
	return appInstance, nil
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default is ./config.yaml)")
	pf.StringVar(&artifactPath, "artifact", "", "Path of the trained classifier artifact (default reason_classifier.json)")
	pf.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the classifier artifact and history database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to get app instance: %w", err)
		}

		fmt.Fprintf(out, "Checking artifact %s...\n", appInstance.Config.Artifact.Path)
		info, err := appInstance.Predictions.Info(ctx)
		if err != nil {
			return fmt.Errorf("artifact check failed: %w", err)
		}
		fmt.Fprintf(out, "Artifact OK: model %s, %d terms, %d labels, trained %s.\n",
			info.ModelID, info.VocabularySize, len(info.Labels), info.TrainedAt.Format("2006-01-02 15:04:05"))

		if appInstance.Config.History.Driver == "" {
			fmt.Fprintln(out, "Prediction history disabled.")
			return nil
		}
		fmt.Fprintln(out, "Checking history database connectivity...")
		if err := appInstance.History.Ping(ctx); err != nil {
			return fmt.Errorf("history ping failed: %w", err)
		}
		fmt.Fprintln(out, "History database connection successful.")
		return nil
	},
}
