package services

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"leavereason/internal/artifact"
	"leavereason/internal/dataset"
	"leavereason/internal/models"
	"leavereason/pkg/categorizer"
	"leavereason/pkg/logreg"
)

// TrainingService fits the reason classifier on the embedded dataset and
// evaluates saved artifacts against it.
type TrainingService struct {
	artifactPath string
	opts         logreg.Options
	examples     func() []models.Example
}

func NewTrainingService(artifactPath string, opts logreg.Options) *TrainingService {
	return &TrainingService{
		artifactPath: artifactPath,
		opts:         opts,
		examples:     dataset.Examples,
	}
}

// TrainResult describes a completed training run.
type TrainResult struct {
	Artifact *artifact.Artifact
	Path     string
	Examples int
}

// Train fits the extractor and classifier on every example and overwrites
// the artifact. Hitting the iteration cap is logged, not returned.
func (s *TrainingService) Train(ctx context.Context) (*TrainResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	examples := s.examples()
	log.WithFields(log.Fields{
		"examples": len(examples),
		"max_iter": s.opts.MaxIter,
		"c":        s.opts.C,
	}).Debug("Training reason classifier")

	model, report, err := categorizer.Train(examples, s.opts)
	if err != nil {
		return nil, fmt.Errorf("train reason classifier: %w", err)
	}

	fields := log.Fields{
		"iterations": report.Iterations,
		"loss":       report.Loss,
		"vocabulary": model.Extractor.Dimension(),
	}
	if !report.Converged {
		log.WithFields(fields).WithField("status", report.Status).
			Warn("Classifier did not converge within the iteration limit")
	} else {
		log.WithFields(fields).Info("Classifier converged")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a := artifact.New(model, len(examples), report)
	if err := artifact.Save(s.artifactPath, a); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"path": s.artifactPath, "model_id": a.ModelID}).Info("Artifact saved")

	return &TrainResult{Artifact: a, Path: s.artifactPath, Examples: len(examples)}, nil
}

// LabelMetrics holds per-label evaluation counts.
type LabelMetrics struct {
	Label     models.Label
	Support   int // examples whose true label is Label
	Predicted int // examples predicted as Label
	Correct   int
	Precision float64
	Recall    float64
}

// Evaluation summarizes how an artifact scores on the embedded dataset.
type Evaluation struct {
	ModelID  string
	Total    int
	Correct  int
	Accuracy float64
	PerLabel []LabelMetrics
	Misses   []Miss
}

// Miss is an example the model labels incorrectly.
type Miss struct {
	Text      string
	Expected  models.Label
	Predicted models.Label
}

// Evaluate loads the configured artifact and scores it on the training
// examples. There is no held-out split, so these are resubstitution figures.
func (s *TrainingService) Evaluate(ctx context.Context) (*Evaluation, error) {
	a, err := artifact.Load(s.artifactPath)
	if err != nil {
		return nil, err
	}
	ev, err := EvaluateModel(ctx, a.Model, s.examples())
	if err != nil {
		return nil, err
	}
	ev.ModelID = a.ModelID.String()
	return ev, nil
}

// EvaluateModel scores model against examples.
func EvaluateModel(ctx context.Context, model *categorizer.Model, examples []models.Example) (*Evaluation, error) {
	labels := models.AllLabels()
	byLabel := make(map[models.Label]*LabelMetrics, len(labels))
	ev := &Evaluation{Total: len(examples), PerLabel: make([]LabelMetrics, len(labels))}
	for i, l := range labels {
		ev.PerLabel[i].Label = l
		byLabel[l] = &ev.PerLabel[i]
	}

	for _, ex := range examples {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		got, err := model.Predict(ex.Text)
		if err != nil {
			return nil, fmt.Errorf("predict %q: %w", ex.Text, err)
		}
		if m, ok := byLabel[ex.Label]; ok {
			m.Support++
		}
		if m, ok := byLabel[got]; ok {
			m.Predicted++
		}
		if got == ex.Label {
			ev.Correct++
			if m, ok := byLabel[got]; ok {
				m.Correct++
			}
		} else {
			ev.Misses = append(ev.Misses, Miss{Text: ex.Text, Expected: ex.Label, Predicted: got})
		}
	}

	if ev.Total > 0 {
		ev.Accuracy = float64(ev.Correct) / float64(ev.Total)
	}
	for i := range ev.PerLabel {
		m := &ev.PerLabel[i]
		if m.Predicted > 0 {
			m.Precision = float64(m.Correct) / float64(m.Predicted)
		}
		if m.Support > 0 {
			m.Recall = float64(m.Correct) / float64(m.Support)
		}
	}
	return ev, nil
}
