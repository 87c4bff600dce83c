package primary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"leavereason/internal/models"
	"leavereason/internal/store"
)

const predictionsTable = "predictions"

var predictionColumns = []string{"id", "reason", "category", "model_id", "created_at"}

// RecordPrediction inserts p, assigning an ID and timestamp when unset.
func (s *StoreImpl) RecordPrediction(ctx context.Context, p *models.Prediction) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	p.CreatedAt = p.CreatedAt.UTC()

	query, args, err := s.psql.Insert(predictionsTable).
		Columns(predictionColumns...).
		Values(p.ID.String(), p.Reason, string(p.Category), p.ModelID.String(), p.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to record prediction: %w", err)
	}
	return nil
}

// GetPrediction fetches a single prediction by ID.
func (s *StoreImpl) GetPrediction(ctx context.Context, id uuid.UUID) (*models.Prediction, error) {
	query, args, err := s.psql.Select(predictionColumns...).
		From(predictionsTable).
		Where(sq.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	p, err := scanPrediction(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("prediction %s: %w", id, store.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}
	return p, nil
}

// ListPredictions returns predictions newest first.
func (s *StoreImpl) ListPredictions(ctx context.Context, opts store.ListOptions) ([]*models.Prediction, error) {
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	builder := s.psql.Select(predictionColumns...).
		From(predictionsTable).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(opts.Limit)).
		Offset(uint64(opts.Offset))
	if len(opts.Categories) > 0 {
		cats := make([]string, len(opts.Categories))
		for i, c := range opts.Categories {
			cats[i] = string(c)
		}
		builder = builder.Where(sq.Eq{"category": cats})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	defer rows.Close()

	predictions := []*models.Prediction{}
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction row: %w", err)
		}
		predictions = append(predictions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating prediction rows: %w", err)
	}
	return predictions, nil
}

// CountByCategory returns how many predictions were recorded per category.
func (s *StoreImpl) CountByCategory(ctx context.Context) (map[models.Label]int, error) {
	query, args, err := s.psql.Select("category", "COUNT(*)").
		From(predictionsTable).
		GroupBy("category").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build count: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count predictions: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Label]int)
	for rows.Next() {
		var (
			category string
			n        int
		)
		if err := rows.Scan(&category, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		counts[models.Label(category)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating count rows: %w", err)
	}
	return counts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPrediction(row rowScanner) (*models.Prediction, error) {
	var (
		p        models.Prediction
		id       string
		category string
		modelID  string
	)
	if err := row.Scan(&id, &p.Reason, &category, &modelID, &p.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	if p.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid prediction id %q: %w", id, err)
	}
	if p.ModelID, err = uuid.Parse(modelID); err != nil {
		return nil, fmt.Errorf("invalid model id %q: %w", modelID, err)
	}
	p.Category = models.Label(category)
	p.CreatedAt = p.CreatedAt.UTC()
	return &p, nil
}

var _ store.HistoryStore = (*StoreImpl)(nil)
