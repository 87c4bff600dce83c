package categorizer

import (
	"context"
	"errors"
	"fmt"

	"leavereason/internal/dataset"
	"leavereason/internal/models"
	"leavereason/pkg/logreg"
	"leavereason/pkg/textfeatures"
)

var (
	ErrDimensionMismatch = errors.New("categorizer: classifier and extractor feature spaces differ")
	ErrIncompleteModel   = errors.New("categorizer: extractor or classifier missing")
)

// Model bundles a fitted feature extractor with the classifier trained on
// its output. The two are only ever constructed and persisted together.
type Model struct {
	Extractor  *textfeatures.Vectorizer `json:"extractor"`
	Classifier *logreg.Model            `json:"classifier"`
}

var _ ReasonCategorizer = (*Model)(nil)

// New bundles an extractor and classifier after checking they agree.
func New(extractor *textfeatures.Vectorizer, classifier *logreg.Model) (*Model, error) {
	m := &Model{Extractor: extractor, Classifier: classifier}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Train fits the extractor on every example text and the classifier on the
// resulting vectors.
func Train(examples []models.Example, opts logreg.Options) (*Model, logreg.FitReport, error) {
	texts, labels := dataset.Split(examples)

	extractor := textfeatures.NewVectorizer()
	vectors, err := extractor.FitTransform(texts)
	if err != nil {
		return nil, logreg.FitReport{}, fmt.Errorf("fit extractor: %w", err)
	}

	classes := make([]string, len(labels))
	for i, l := range labels {
		classes[i] = string(l)
	}
	classifier, report, err := logreg.Fit(vectors, classes, extractor.Dimension(), opts)
	if err != nil {
		return nil, report, fmt.Errorf("fit classifier: %w", err)
	}

	m, err := New(extractor, classifier)
	if err != nil {
		return nil, report, err
	}
	return m, report, nil
}

// Validate checks the invariant that the classifier consumes exactly the
// extractor's feature space and only emits known labels.
func (m *Model) Validate() error {
	if m == nil || m.Extractor == nil || m.Classifier == nil {
		return ErrIncompleteModel
	}
	if !m.Extractor.Fitted() {
		return fmt.Errorf("%w: extractor not fitted", ErrIncompleteModel)
	}
	if err := m.Classifier.Validate(); err != nil {
		return err
	}
	if got, want := m.Classifier.Dimension(), m.Extractor.Dimension(); got != want {
		return fmt.Errorf("%w: classifier expects %d features, vocabulary has %d", ErrDimensionMismatch, got, want)
	}
	for _, c := range m.Classifier.Classes {
		l, err := models.ParseLabel(c)
		if err != nil {
			return fmt.Errorf("categorizer: %w", err)
		}
		if string(l) != c {
			return fmt.Errorf("categorizer: %w: label %q is not canonical", models.ErrValidation, c)
		}
	}
	return nil
}

// Extract maps text into the frozen feature space.
func (m *Model) Extract(text string) textfeatures.SparseVector {
	return m.Extractor.Transform(text)
}

// Classify returns the most probable label for an extracted vector.
func (m *Model) Classify(vec textfeatures.SparseVector) (models.Label, error) {
	class, err := m.Classifier.Predict(vec)
	if err != nil {
		return "", err
	}
	return models.Label(class), nil
}

// Predict extracts and classifies text. Empty or entirely unknown text maps
// to the zero vector and still yields a label.
func (m *Model) Predict(text string) (models.Label, error) {
	return m.Classify(m.Extract(text))
}

// Categorize implements ReasonCategorizer.
func (m *Model) Categorize(ctx context.Context, req CategorizationRequest) (CategorizationResult, error) {
	if err := ctx.Err(); err != nil {
		return CategorizationResult{}, err
	}
	label, err := m.Predict(req.Reason)
	if err != nil {
		return CategorizationResult{}, err
	}
	return CategorizationResult{Category: string(label)}, nil
}

// Labels returns the classes the model can emit, in classifier order.
func (m *Model) Labels() []models.Label {
	out := make([]models.Label, len(m.Classifier.Classes))
	for i, c := range m.Classifier.Classes {
		out[i] = models.Label(c)
	}
	return out
}
