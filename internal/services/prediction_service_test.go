package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"leavereason/internal/artifact"
	"leavereason/internal/models"
	mock_store "leavereason/internal/tests/mocks/store"
	"leavereason/pkg/categorizer"
	"leavereason/pkg/logreg"
)

// trainTo writes a fresh artifact to path.
func trainTo(t *testing.T, path string) *artifact.Artifact {
	t.Helper()
	res, err := NewTrainingService(path, logreg.DefaultOptions()).Train(context.Background())
	require.NoError(t, err)
	return res.Artifact
}

func TestPredictionService_LazyLoadAndPredict(t *testing.T) {
	path := filepath.Join(t.TempDir(), artifact.DefaultPath)
	trained := trainTo(t, path)

	svc, err := NewPredictionService(path, nil, 16)
	require.NoError(t, err)

	tests := map[string]models.Label{
		"sick leave":          models.LabelMedical,
		"flight cancellation": models.LabelTravel,
		"college event":       models.LabelAcademic,
	}
	for reason, want := range tests {
		got, err := svc.Predict(context.Background(), reason)
		require.NoError(t, err)
		assert.Equal(t, want, got, reason)
	}

	info, err := svc.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, trained.ModelID, info.ModelID)
	assert.Equal(t, path, info.Path)
	assert.Positive(t, info.VocabularySize)
	assert.Len(t, info.Labels, len(models.AllLabels()))
}

func TestPredictionService_EmptyReason(t *testing.T) {
	path := filepath.Join(t.TempDir(), artifact.DefaultPath)
	trainTo(t, path)
	svc, err := NewPredictionService(path, nil, 0)
	require.NoError(t, err)

	got, err := svc.Predict(context.Background(), "")
	require.NoError(t, err)
	assert.Contains(t, models.AllLabels(), got)
}

func TestPredictionService_CleansTypographicInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), artifact.DefaultPath)
	trainTo(t, path)
	svc, err := NewPredictionService(path, nil, 0)
	require.NoError(t, err)

	plain, err := svc.Predict(context.Background(), "mother's surgery")
	require.NoError(t, err)
	curly, err := svc.Predict(context.Background(), "mother’s surgery")
	require.NoError(t, err)
	assert.Equal(t, plain, curly)
}

func TestPredictionService_MissingArtifact(t *testing.T) {
	svc, err := NewPredictionService(filepath.Join(t.TempDir(), "absent.json"), nil, 16)
	require.NoError(t, err)

	_, err = svc.Predict(context.Background(), "sick leave")
	assert.ErrorIs(t, err, ErrModelUnavailable)
	assert.ErrorIs(t, err, artifact.ErrNotFound)
}

func TestPredictionService_FailedReloadKeepsModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), artifact.DefaultPath)
	trained := trainTo(t, path)
	svc, err := NewPredictionService(path, nil, 16)
	require.NoError(t, err)
	require.NoError(t, svc.Reload(context.Background()))

	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))
	err = svc.Reload(context.Background())
	assert.ErrorIs(t, err, artifact.ErrCorrupt)

	a, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, trained.ModelID, a.ModelID)
	got, err := svc.Predict(context.Background(), "sick leave")
	require.NoError(t, err)
	assert.Equal(t, models.LabelMedical, got)
}

func TestPredictionService_ReloadPurgesCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), artifact.DefaultPath)
	trainTo(t, path)
	svc, err := NewPredictionService(path, nil, 16)
	require.NoError(t, err)

	_, err = svc.Predict(context.Background(), "sick leave")
	require.NoError(t, err)
	assert.Equal(t, 1, svc.cache.Len())

	second := trainTo(t, path)
	require.NoError(t, svc.Reload(context.Background()))
	assert.Zero(t, svc.cache.Len())

	a, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, second.ModelID, a.ModelID)
}

func TestPredictionService_ConcurrentPredict(t *testing.T) {
	path := filepath.Join(t.TempDir(), artifact.DefaultPath)
	trainTo(t, path)
	svc, err := NewPredictionService(path, nil, 4)
	require.NoError(t, err)

	reasons := []string{"sick leave", "flight cancellation", "college event", "sister wedding", "holiday"}
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Predict(context.Background(), reasons[i%len(reasons)])
			assert.NoError(t, err)
		}(i)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, svc.Reload(context.Background()))
	}()
	wg.Wait()
}

func TestPredictionService_RecordUsesHistoryStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), artifact.DefaultPath)
	trained := trainTo(t, path)

	history := new(mock_store.HistoryStore)
	history.On("RecordPrediction", mock.Anything, mock.MatchedBy(func(p *models.Prediction) bool {
		return p.Reason == "sick leave" &&
			p.Category == models.LabelMedical &&
			p.ModelID == trained.ModelID &&
			!p.CreatedAt.IsZero()
	})).Return(nil).Once()

	svc, err := NewPredictionService(path, history, 0)
	require.NoError(t, err)
	label, err := svc.Predict(context.Background(), "sick leave")
	require.NoError(t, err)

	p, err := svc.Record(context.Background(), "sick leave", label)
	require.NoError(t, err)
	assert.Equal(t, models.LabelMedical, p.Category)
	history.AssertExpectations(t)
}

func TestPredictionService_RecordError(t *testing.T) {
	history := new(mock_store.HistoryStore)
	history.On("RecordPrediction", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

	svc, err := NewPredictionService("unused.json", history, 0)
	require.NoError(t, err)
	_, err = svc.Record(context.Background(), "flu", models.LabelMedical)
	assert.ErrorContains(t, err, "disk full")
	history.AssertExpectations(t)
}

func TestPredictionService_Categorize(t *testing.T) {
	path := filepath.Join(t.TempDir(), artifact.DefaultPath)
	trainTo(t, path)
	svc, err := NewPredictionService(path, nil, 0)
	require.NoError(t, err)

	var c categorizer.ReasonCategorizer = svc
	res, err := c.Categorize(context.Background(), categorizer.CategorizationRequest{Reason: "road accident"})
	require.NoError(t, err)
	assert.Equal(t, string(models.LabelEmergency), res.Category)
}
