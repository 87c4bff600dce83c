package artifact

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leavereason/internal/dataset"
	"leavereason/pkg/categorizer"
	"leavereason/pkg/logreg"
)

func trained(t *testing.T) *Artifact {
	t.Helper()
	exs := dataset.Examples()
	m, report, err := categorizer.Train(exs, logreg.DefaultOptions())
	require.NoError(t, err)
	return New(m, len(exs), report)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	a := trained(t)
	path := filepath.Join(t.TempDir(), "nested", DefaultPath)

	require.NoError(t, Save(path, a))
	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, a.ModelID, loaded.ModelID)
	assert.NotEqual(t, uuid.Nil, loaded.ModelID)
	assert.Equal(t, SchemaVersion, loaded.SchemaVersion)
	assert.Equal(t, len(dataset.Examples()), loaded.ExampleCount)
	assert.True(t, a.TrainedAt.Equal(loaded.TrainedAt))
	assert.Equal(t, a.Fit, loaded.Fit)

	for _, ex := range dataset.Examples() {
		want, err := a.Model.Predict(ex.Text)
		require.NoError(t, err)
		got, err := loaded.Model.Predict(ex.Text)
		require.NoError(t, err)
		assert.Equal(t, want, got, "prediction for %q changed after reload", ex.Text)
	}
}

func TestSave_OverwritesAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultPath)

	first := trained(t)
	require.NoError(t, Save(path, first))
	second := trained(t)
	require.NoError(t, Save(path, second))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, second.ModelID, loaded.ModelID)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSave_RejectsIncompleteModel(t *testing.T) {
	err := Save(filepath.Join(t.TempDir(), "x.json"), &Artifact{Model: &categorizer.Model{}})
	assert.ErrorIs(t, err, categorizer.ErrIncompleteModel)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoad_NotJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestDecode_UnsupportedSchema(t *testing.T) {
	_, err := Decode([]byte(`{"schema_version": 99}`))
	assert.ErrorIs(t, err, ErrUnsupportedSchema)

	_, err = Decode([]byte(`{}`))
	assert.ErrorIs(t, err, ErrUnsupportedSchema)
}

func TestDecode_DimensionMismatch(t *testing.T) {
	a := trained(t)
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, Save(path, a))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	raw["extractor"] = json.RawMessage(`{"stop_words": true, "terms": ["sick"], "idf": [1.5]}`)
	tampered, err := json.Marshal(raw)
	require.NoError(t, err)

	_, err = Decode(tampered)
	assert.ErrorIs(t, err, ErrCorrupt)
	assert.ErrorIs(t, err, categorizer.ErrDimensionMismatch)
}
