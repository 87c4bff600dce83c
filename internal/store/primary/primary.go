package primary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"leavereason/internal/store"
)

// Supported values for history.driver.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// StoreImpl implements store.HistoryStore over database/sql. SQLite is
// reached through mattn/go-sqlite3 and Postgres through the pgx stdlib driver.
type StoreImpl struct {
	db     *sql.DB
	driver string
	psql   sq.StatementBuilderType
}

// NewPrimaryStore opens the history database, verifies the connection and
// creates the schema when it is missing.
func NewPrimaryStore(ctx context.Context, driver, dsn string) (*StoreImpl, error) {
	if dsn == "" {
		return nil, errors.New("database DSN cannot be empty")
	}

	var sqlDriver string
	builder := sq.StatementBuilder
	switch driver {
	case DriverSQLite:
		sqlDriver = "sqlite3"
		builder = builder.PlaceholderFormat(sq.Question)
	case DriverPostgres:
		sqlDriver = "pgx"
		builder = builder.PlaceholderFormat(sq.Dollar)
	default:
		return nil, fmt.Errorf("%w: %q", store.ErrUnknownDriver, driver)
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s database: %w", driver, err)
	}
	if driver == DriverSQLite {
		// A single connection keeps ":memory:" databases shared across queries.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	s := &StoreImpl{db: db, driver: driver, psql: builder}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS predictions (
		id TEXT PRIMARY KEY,
		reason TEXT NOT NULL,
		category TEXT NOT NULL,
		model_id TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_predictions_created_at ON predictions (created_at)`,
}

func (s *StoreImpl) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create history schema: %w", err)
		}
	}
	return nil
}

// Ping checks the database connection.
func (s *StoreImpl) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database handle.
func (s *StoreImpl) Close() error {
	return s.db.Close()
}
