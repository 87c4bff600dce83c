package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	log "github.com/sirupsen/logrus"

	"leavereason/internal/artifact"
	"leavereason/internal/models"
	"leavereason/internal/store"
	"leavereason/internal/util"
	"leavereason/pkg/categorizer"
)

var ErrModelUnavailable = errors.New("reason classifier model is unavailable")

// PredictionService serves predictions from the artifact at a fixed path.
// The artifact is loaded on first use and can be swapped with Reload; a
// loaded model is never mutated, so concurrent Predict calls are safe.
type PredictionService struct {
	artifactPath string
	history      store.HistoryStore

	mu      sync.RWMutex
	current *artifact.Artifact

	cache *lru.Cache[string, models.Label] // nil when caching is disabled
}

var _ categorizer.ReasonCategorizer = (*PredictionService)(nil)

// NewPredictionService builds a service reading artifactPath. A cacheSize of
// zero disables memoization. history may be nil.
func NewPredictionService(artifactPath string, history store.HistoryStore, cacheSize int) (*PredictionService, error) {
	if history == nil {
		history = store.NoopHistoryStore{}
	}
	s := &PredictionService{artifactPath: artifactPath, history: history}
	if cacheSize > 0 {
		cache, err := lru.New[string, models.Label](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("create prediction cache: %w", err)
		}
		s.cache = cache
	}
	return s, nil
}

// ArtifactPath returns the path the service loads from.
func (s *PredictionService) ArtifactPath() string { return s.artifactPath }

// Reload reads the artifact again and swaps it in. On failure the previously
// loaded model, if any, stays in service.
func (s *PredictionService) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a, err := artifact.Load(s.artifactPath)
	if err != nil {
		return err
	}

	s.mu.Lock()
	previous := s.current
	s.current = a
	if s.cache != nil {
		s.cache.Purge()
	}
	s.mu.Unlock()

	entry := log.WithFields(log.Fields{"path": s.artifactPath, "model_id": a.ModelID})
	if previous == nil {
		entry.Debug("Reason classifier loaded")
		return nil
	}
	entry.WithField("previous_model_id", previous.ModelID).Info("Reason classifier reloaded")
	return nil
}

// Current returns the loaded artifact, loading it on first use.
func (s *PredictionService) Current(ctx context.Context) (*artifact.Artifact, error) {
	s.mu.RLock()
	a := s.current
	s.mu.RUnlock()
	if a != nil {
		return a, nil
	}

	if err := s.Reload(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, nil
}

// Predict returns the single most likely label for reason.
func (s *PredictionService) Predict(ctx context.Context, reason string) (models.Label, error) {
	a, err := s.Current(ctx)
	if err != nil {
		return "", err
	}
	text := util.CleanReason(reason)

	if s.cache != nil {
		if label, ok := s.cache.Get(text); ok {
			return label, nil
		}
	}

	res, err := a.Model.Categorize(ctx, categorizer.CategorizationRequest{Reason: text})
	if err != nil {
		return "", fmt.Errorf("categorize reason: %w", err)
	}
	label := models.Label(res.Category)

	// A concurrent reload may have swapped the model; only cache results of
	// the model still in service.
	if s.cache != nil {
		s.mu.RLock()
		if s.current == a {
			s.cache.Add(text, label)
		}
		s.mu.RUnlock()
	}
	return label, nil
}

// Categorize implements categorizer.ReasonCategorizer.
func (s *PredictionService) Categorize(ctx context.Context, req categorizer.CategorizationRequest) (categorizer.CategorizationResult, error) {
	label, err := s.Predict(ctx, req.Reason)
	if err != nil {
		return categorizer.CategorizationResult{}, err
	}
	return categorizer.CategorizationResult{Category: string(label)}, nil
}

// Record stores a prediction in the history store. Callers treat failures
// as warnings.
func (s *PredictionService) Record(ctx context.Context, reason string, label models.Label) (*models.Prediction, error) {
	p := &models.Prediction{
		Reason:    reason,
		Category:  label,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.RLock()
	if s.current != nil {
		p.ModelID = s.current.ModelID
	}
	s.mu.RUnlock()

	if err := s.history.RecordPrediction(ctx, p); err != nil {
		return nil, fmt.Errorf("record prediction: %w", err)
	}
	return p, nil
}

// ModelInfo is the public description of the loaded artifact.
type ModelInfo struct {
	artifact.Metadata
	VocabularySize int            `json:"vocabulary_size"`
	Labels         []models.Label `json:"labels"`
	Path           string         `json:"path"`
}

// Info describes the loaded model, loading it if needed.
func (s *PredictionService) Info(ctx context.Context) (*ModelInfo, error) {
	a, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	return &ModelInfo{
		Metadata:       a.Metadata,
		VocabularySize: a.Model.Extractor.Dimension(),
		Labels:         a.Model.Labels(),
		Path:           s.artifactPath,
	}, nil
}
