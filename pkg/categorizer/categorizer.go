package categorizer

import "context"

// CategorizationRequest holds the free-text leave reason to classify.
type CategorizationRequest struct {
	Reason string
}

// CategorizationResult holds the single predicted category.
type CategorizationResult struct {
	Category string
}

// ReasonCategorizer categorizes leave reasons.
type ReasonCategorizer interface {
	Categorize(ctx context.Context, req CategorizationRequest) (CategorizationResult, error)
}
