// Package artifact persists a trained categorizer.Model as a single versioned
// JSON document. The extractor and classifier are always written and read
// together so they cannot drift apart.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"leavereason/pkg/categorizer"
	"leavereason/pkg/logreg"
	"leavereason/pkg/textfeatures"
)

// SchemaVersion is bumped whenever the on-disk layout changes.
const SchemaVersion = 1

// DefaultPath is used when no artifact path is configured.
const DefaultPath = "reason_classifier.json"

var (
	ErrNotFound          = errors.New("artifact not found")
	ErrUnsupportedSchema = errors.New("unsupported artifact schema version")
	ErrCorrupt           = errors.New("artifact is corrupt")
)

// FitSummary records how the classifier fit ended.
type FitSummary struct {
	Iterations int     `json:"iterations"`
	Converged  bool    `json:"converged"`
	Loss       float64 `json:"loss"`
}

// Metadata describes a trained artifact without its parameters.
type Metadata struct {
	SchemaVersion int        `json:"schema_version"`
	ModelID       uuid.UUID  `json:"model_id"`
	TrainedAt     time.Time  `json:"trained_at"`
	ExampleCount  int        `json:"example_count"`
	Fit           FitSummary `json:"fit"`
}

// Artifact is a loaded model together with its metadata.
type Artifact struct {
	Metadata
	Model *categorizer.Model
}

type document struct {
	Metadata
	Extractor  *textfeatures.Vectorizer `json:"extractor"`
	Classifier *logreg.Model            `json:"classifier"`
}

// New wraps a freshly trained model with a new identity.
func New(model *categorizer.Model, exampleCount int, report logreg.FitReport) *Artifact {
	return &Artifact{
		Metadata: Metadata{
			SchemaVersion: SchemaVersion,
			ModelID:       uuid.New(),
			TrainedAt:     time.Now().UTC(),
			ExampleCount:  exampleCount,
			Fit: FitSummary{
				Iterations: report.Iterations,
				Converged:  report.Converged,
				Loss:       report.Loss,
			},
		},
		Model: model,
	}
}

// Save writes the artifact to path, replacing any existing file. The document
// is written to a temporary file in the same directory and renamed into place.
func Save(path string, a *Artifact) error {
	if a == nil || a.Model == nil {
		return fmt.Errorf("save artifact: %w", categorizer.ErrIncompleteModel)
	}
	if err := a.Model.Validate(); err != nil {
		return fmt.Errorf("save artifact: %w", err)
	}

	doc := document{
		Metadata:   a.Metadata,
		Extractor:  a.Model.Extractor,
		Classifier: a.Model.Classifier,
	}
	doc.SchemaVersion = SchemaVersion
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create artifact directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod artifact: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace artifact: %w", err)
	}
	return nil
}

// Load reads and validates the artifact at path.
func Load(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read artifact %s: %w", path, err)
	}
	return Decode(data)
}

// Decode parses an artifact document.
func Decode(data []byte) (*Artifact, error) {
	var probe struct {
		SchemaVersion int `json:"schema_version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if probe.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrUnsupportedSchema, probe.SchemaVersion, SchemaVersion)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	model, err := categorizer.New(doc.Extractor, doc.Classifier)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return &Artifact{Metadata: doc.Metadata, Model: model}, nil
}
