package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"leavereason/internal/models"
)

func TestNoopHistoryStore(t *testing.T) {
	ctx := context.Background()
	var s HistoryStore = NoopHistoryStore{}

	assert.NoError(t, s.RecordPrediction(ctx, &models.Prediction{Reason: "flu"}))
	assert.NoError(t, s.Ping(ctx))

	_, err := s.ListPredictions(ctx, ListOptions{Limit: 5})
	assert.ErrorIs(t, err, ErrHistoryOffline)
	_, err = s.GetPrediction(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrHistoryOffline)
	_, err = s.CountByCategory(ctx)
	assert.ErrorIs(t, err, ErrHistoryOffline)

	assert.NoError(t, s.Close())
}
