package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leavereason/internal/artifact"
)

func TestArtifactReloader_PicksUpRetrainedArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), artifact.DefaultPath)
	first := trainTo(t, path)

	svc, err := NewPredictionService(path, nil, 16)
	require.NoError(t, err)
	require.NoError(t, svc.Reload(context.Background()))

	r, err := NewArtifactReloader(svc)
	require.NoError(t, err)
	r.debounce = 20 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Start(ctx)
	defer r.Close()

	second := trainTo(t, path)
	require.NotEqual(t, first.ModelID, second.ModelID)

	assert.Eventually(t, func() bool {
		a, err := svc.Current(context.Background())
		return err == nil && a.ModelID == second.ModelID
	}, 5*time.Second, 20*time.Millisecond)
}

func TestArtifactReloader_IgnoresOtherFilesAndKeepsModelOnBadWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, artifact.DefaultPath)
	first := trainTo(t, path)

	svc, err := NewPredictionService(path, nil, 16)
	require.NoError(t, err)
	require.NoError(t, svc.Reload(context.Background()))

	r, err := NewArtifactReloader(svc)
	require.NoError(t, err)
	r.debounce = 20 * time.Millisecond
	attempts := make(chan error, 10)
	r.OnReload = func(err error) { attempts <- err }
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Start(ctx)
	defer r.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	select {
	case err := <-attempts:
		assert.ErrorIs(t, err, artifact.ErrCorrupt)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload attempt observed")
	}

	a, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.ModelID, a.ModelID)
}

func TestArtifactReloader_StopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), artifact.DefaultPath)
	svc, err := NewPredictionService(path, nil, 0)
	require.NoError(t, err)

	r, err := NewArtifactReloader(svc)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)
	cancel()

	select {
	case <-r.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("reloader did not stop")
	}
	assert.NoError(t, r.Close())
}
