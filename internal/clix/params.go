package clix

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"leavereason/internal/models"
)

const defaultLimit = 20

type PaginationParams struct {
	Limit  int
	Offset int
}

func ParsePagination(flags *pflag.FlagSet) (PaginationParams, error) {
	limit, _ := flags.GetInt("limit")
	offset, _ := flags.GetInt("offset")
	if limit <= 0 {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return PaginationParams{Limit: limit, Offset: offset}, nil
}

// ParseLabels reads a comma-separated --label flag. Unknown labels are an
// error; an absent or empty flag yields nil.
func ParseLabels(flags *pflag.FlagSet) ([]models.Label, error) {
	raw, _ := flags.GetString("label")
	var labels []models.Label
	for _, part := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		l, err := models.ParseLabel(trimmed)
		if err != nil {
			return nil, fmt.Errorf("--label: %w", err)
		}
		labels = append(labels, l)
	}
	return labels, nil
}
