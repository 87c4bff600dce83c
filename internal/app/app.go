package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"leavereason/internal/config"
	"leavereason/internal/services"
	"leavereason/internal/store"
	"leavereason/internal/store/primary"
	"leavereason/pkg/logreg"
)

type App struct {
	Config *config.Config

	History store.HistoryStore

	// --- Initialized Services ---
	Training    *services.TrainingService
	Predictions *services.PredictionService
}

// NewApp wires the stores and services described by cfg. Nothing is read
// from the artifact here; the prediction service loads it on first use so
// that training works before any artifact exists.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	app.initHistoryStore(ctx)
	if err := app.initServices(); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// --- Private Helper Methods ---

// initHistoryStore opens the configured history database. History is
// auxiliary, so an unreachable database degrades to the no-op store.
func (a *App) initHistoryStore(ctx context.Context) {
	a.History = store.NoopHistoryStore{}
	if a.Config.History.Driver == "" {
		return
	}
	hs, err := primary.NewPrimaryStore(ctx, a.Config.History.Driver, a.Config.History.DSN)
	if err != nil {
		log.WithError(err).WithField("driver", a.Config.History.Driver).
			Warn("Prediction history unavailable, predictions will not be recorded")
		return
	}
	a.History = hs
}

func (a *App) initServices() error {
	a.Training = services.NewTrainingService(a.Config.Artifact.Path, a.trainingOptions())

	ps, err := services.NewPredictionService(a.Config.Artifact.Path, a.History, a.Config.Cache.Size)
	if err != nil {
		return fmt.Errorf("init prediction service: %w", err)
	}
	a.Predictions = ps
	return nil
}

func (a *App) trainingOptions() logreg.Options {
	opts := logreg.DefaultOptions()
	if a.Config.Training.MaxIter > 0 {
		opts.MaxIter = a.Config.Training.MaxIter
	}
	if a.Config.Training.C > 0 {
		opts.C = a.Config.Training.C
	}
	return opts
}

// Close releases the history database.
func (a *App) Close() error {
	if a.History == nil {
		return nil
	}
	if err := a.History.Close(); err != nil {
		return fmt.Errorf("close history store: %w", err)
	}
	return nil
}
