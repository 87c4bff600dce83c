package store

import (
	"context"

	"github.com/google/uuid"

	"leavereason/internal/models"
)

// ListOptions filters and pages a history listing. Results are newest first.
type ListOptions struct {
	Limit      int
	Offset     int
	Categories []models.Label // empty means every category
}

// HistoryStore records predictions made by the CLI or the HTTP API.
type HistoryStore interface {
	RecordPrediction(ctx context.Context, p *models.Prediction) error
	GetPrediction(ctx context.Context, id uuid.UUID) (*models.Prediction, error)
	ListPredictions(ctx context.Context, opts ListOptions) ([]*models.Prediction, error)
	CountByCategory(ctx context.Context) (map[models.Label]int, error)

	Ping(ctx context.Context) error
	Close() error
}
