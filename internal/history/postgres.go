package history

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// PostgresStoreConfig controls the Postgres connection pool used for key rows.
type PostgresStoreConfig struct {
	DSN             string
	Table           string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type dbPool interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	Close()
}

// PostgresStore implements opportunity.HistoryStore on Postgres.
type PostgresStore struct {
	pool  dbPool
	table string
}

// NewPostgresStore creates a Postgres-backed history store using the provided config.
func NewPostgresStore(ctx context.Context, cfg PostgresStoreConfig) (*PostgresStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	table := cfg.Table
	if table == "" {
		table = "opportunity_keys"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &PostgresStore{pool: pool, table: table}, nil
}

// NewPostgresStoreWithPool constructs a store from an existing pool (primarily for testing).
func NewPostgresStoreWithPool(pool dbPool, table string) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if table == "" {
		table = "opportunity_keys"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &PostgresStore{pool: pool, table: table}, nil
}

// Close releases the underlying pool resources.
func (s *PostgresStore) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// LoadKeys returns every canonical key recorded by prior runs.
func (s *PostgresStore) LoadKeys(ctx context.Context) ([]string, error) {
	if s == nil || s.pool == nil {
		return nil, fmt.Errorf("history store is not configured")
	}
	query := fmt.Sprintf(`SELECT canonical_key FROM %s ORDER BY first_seen_at`, s.table)
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keys: %w", err)
	}
	return keys, nil
}

// AppendKeys records the canonical keys admitted by one scan run.
// Re-inserting a known key is a no-op so runs stay idempotent.
func (s *PostgresStore) AppendKeys(ctx context.Context, runID string, keys []string) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("history store is not configured")
	}
	if runID == "" {
		return fmt.Errorf("run id is required")
	}
	query := fmt.Sprintf(`
INSERT INTO %s (canonical_key, run_id, first_seen_at)
VALUES ($1, $2, NOW())
ON CONFLICT (canonical_key) DO NOTHING`, s.table)

	for _, key := range keys {
		if key == "" {
			continue
		}
		if _, err := s.pool.Exec(ctx, query, key, runID); err != nil {
			return fmt.Errorf("insert key: %w", err)
		}
	}
	return nil
}
