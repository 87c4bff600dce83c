// Package mock_store holds testify mocks for the store interfaces.
package mock_store

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"leavereason/internal/models"
	"leavereason/internal/store"
)

// HistoryStore is a mock of store.HistoryStore.
type HistoryStore struct {
	mock.Mock
}

var _ store.HistoryStore = (*HistoryStore)(nil)

func (m *HistoryStore) RecordPrediction(ctx context.Context, p *models.Prediction) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *HistoryStore) GetPrediction(ctx context.Context, id uuid.UUID) (*models.Prediction, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.Prediction)
	return p, args.Error(1)
}

func (m *HistoryStore) ListPredictions(ctx context.Context, opts store.ListOptions) ([]*models.Prediction, error) {
	args := m.Called(ctx, opts)
	ps, _ := args.Get(0).([]*models.Prediction)
	return ps, args.Error(1)
}

func (m *HistoryStore) CountByCategory(ctx context.Context) (map[models.Label]int, error) {
	args := m.Called(ctx)
	counts, _ := args.Get(0).(map[models.Label]int)
	return counts, args.Error(1)
}

func (m *HistoryStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *HistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
