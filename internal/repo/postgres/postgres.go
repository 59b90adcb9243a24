package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/hamed0406/pagewatch/internal/repo"
)

var (
	_ repo.PageDirectory = (*Store)(nil)
	_ repo.LogStore      = (*Store)(nil)
	_ repo.StatusStore   = (*Store)(nil)
)

type Store struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func New(ctx context.Context, dsn string, log *zap.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Store{pool: pool, log: log}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Migrate creates the schema if it does not exist. The pages and
// owner_settings tables are owned by the page directory; they are created
// here too so a fresh database is usable end to end.
func (s *Store) Migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS pages (
	id       TEXT PRIMARY KEY,
	url      TEXT NOT NULL,
	owner_id TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS owner_settings (
	owner_id    TEXT PRIMARY KEY,
	premium     BOOLEAN NOT NULL DEFAULT FALSE,
	webhook_url TEXT
);

CREATE TABLE IF NOT EXISTS check_logs (
	page_id     TEXT NOT NULL,
	checked_at  TIMESTAMPTZ NOT NULL,
	status_code INTEGER,
	error       TEXT
);
CREATE INDEX IF NOT EXISTS idx_check_logs_page_checked ON check_logs (page_id, checked_at);

CREATE TABLE IF NOT EXISTS daily_status (
	page_id  TEXT NOT NULL,
	day      TEXT NOT NULL,
	timezone TEXT NOT NULL,
	status   TEXT NOT NULL,
	PRIMARY KEY (page_id, day, timezone)
);
`
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
