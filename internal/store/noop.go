package store

import (
	"context"

	"github.com/google/uuid"

	"leavereason/internal/models"
)

// NoopHistoryStore is used when history.driver is empty. Writes are dropped
// and reads report that history is not configured.
type NoopHistoryStore struct{}

var _ HistoryStore = NoopHistoryStore{}

func (NoopHistoryStore) RecordPrediction(context.Context, *models.Prediction) error { return nil }

func (NoopHistoryStore) GetPrediction(context.Context, uuid.UUID) (*models.Prediction, error) {
	return nil, ErrHistoryOffline
}

func (NoopHistoryStore) ListPredictions(context.Context, ListOptions) ([]*models.Prediction, error) {
	return nil, ErrHistoryOffline
}

func (NoopHistoryStore) CountByCategory(context.Context) (map[models.Label]int, error) {
	return nil, ErrHistoryOffline
}

func (NoopHistoryStore) Ping(context.Context) error { return nil }

func (NoopHistoryStore) Close() error { return nil }
