package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Label is the category a leave reason is classified into.
type Label string

const (
	LabelMedical   Label = "Medical"
	LabelFamily    Label = "Family"
	LabelTravel    Label = "Travel"
	LabelPersonal  Label = "Personal"
	LabelAcademic  Label = "Academic"
	LabelHoliday   Label = "Holiday"
	LabelEmergency Label = "Emergency"
)

var allLabels = []Label{
	LabelMedical,
	LabelFamily,
	LabelTravel,
	LabelPersonal,
	LabelAcademic,
	LabelHoliday,
	LabelEmergency,
}

// AllLabels returns the seven categories in dataset order.
func AllLabels() []Label {
	out := make([]Label, len(allLabels))
	copy(out, allLabels)
	return out
}

// ParseLabel matches s against the known categories, ignoring case and surrounding space.
func ParseLabel(s string) (Label, error) {
	trimmed := strings.TrimSpace(s)
	for _, l := range allLabels {
		if strings.EqualFold(string(l), trimmed) {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: unknown label %q", ErrValidation, s)
}

func (l Label) String() string { return string(l) }

// Example is one row of the training table.
type Example struct {
	Text  string
	Label Label
}

// Prediction is a recorded predictor invocation.
type Prediction struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Reason    string    `db:"reason" json:"reason"`
	Category  Label     `db:"category" json:"category"`
	ModelID   uuid.UUID `db:"model_id" json:"model_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
