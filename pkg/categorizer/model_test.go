package categorizer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leavereason/internal/dataset"
	"leavereason/internal/models"
	"leavereason/pkg/logreg"
	"leavereason/pkg/textfeatures"
)

func trainDefault(t *testing.T) *Model {
	t.Helper()
	m, report, err := Train(dataset.Examples(), logreg.DefaultOptions())
	require.NoError(t, err)
	assert.LessOrEqual(t, report.Iterations, logreg.DefaultMaxIter)
	return m
}

func TestTrain_SampleReasons(t *testing.T) {
	m := trainDefault(t)

	tests := []struct {
		reason string
		want   models.Label
	}{
		{"fever and cold", models.LabelMedical},
		{"sick leave", models.LabelMedical},
		{"flight cancellation", models.LabelTravel},
		{"college event", models.LabelAcademic},
	}
	for _, tt := range tests {
		got, err := m.Predict(tt.reason)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "Predict(%q)", tt.reason)
	}
}

func TestTrain_LabelsCoverDataset(t *testing.T) {
	m := trainDefault(t)
	assert.ElementsMatch(t, models.AllLabels(), m.Labels())
}

func TestPredict_EmptyInputStillReturnsLabel(t *testing.T) {
	m := trainDefault(t)
	got, err := m.Predict("")
	require.NoError(t, err)
	assert.Contains(t, models.AllLabels(), got)
}

func TestPredict_Deterministic(t *testing.T) {
	m := trainDefault(t)
	first, err := m.Predict("urgent work at home")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := m.Predict("urgent work at home")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestCategorize(t *testing.T) {
	m := trainDefault(t)
	res, err := m.Categorize(context.Background(), CategorizationRequest{Reason: "sister wedding"})
	require.NoError(t, err)
	assert.Equal(t, string(models.LabelFamily), res.Category)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = m.Categorize(ctx, CategorizationRequest{Reason: "sister wedding"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_RejectsDimensionMismatch(t *testing.T) {
	extractor := textfeatures.NewVectorizer()
	require.NoError(t, extractor.Fit([]string{"sick leave", "flight delay"}))

	classifier := &logreg.Model{
		Classes:    []string{"Medical", "Travel"},
		Weights:    [][]float64{{1, 2}, {3, 4}},
		Intercepts: []float64{0, 0},
	}
	_, err := New(extractor, classifier)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestNew_RejectsUnknownLabel(t *testing.T) {
	extractor := textfeatures.NewVectorizer()
	require.NoError(t, extractor.Fit([]string{"sick"}))

	classifier := &logreg.Model{
		Classes:    []string{"Medical", "Vacation"},
		Weights:    [][]float64{{1}, {2}},
		Intercepts: []float64{0, 0},
	}
	_, err := New(extractor, classifier)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestValidate_Incomplete(t *testing.T) {
	assert.ErrorIs(t, (&Model{}).Validate(), ErrIncompleteModel)
}
