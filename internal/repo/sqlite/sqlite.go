// Package sqlite is a single-file adapter for all three ports, for
// deployments that don't want to run PostgreSQL.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hamed0406/pagewatch/internal/domain"
	"github.com/hamed0406/pagewatch/internal/repo"
)

var (
	_ repo.PageDirectory = (*Store)(nil)
	_ repo.LogStore      = (*Store)(nil)
	_ repo.StatusStore   = (*Store)(nil)
)

type Store struct {
	db *sql.DB
}

// New opens (or creates) the database file and ensures the schema.
func New(ctx context.Context, dataSourceName string) (*Store, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("%s?_journal_mode=WAL", dataSourceName))
	if err != nil {
		return nil, fmt.Errorf("unable to open sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS pages (
	id       TEXT PRIMARY KEY,
	url      TEXT NOT NULL,
	owner_id TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS owner_settings (
	owner_id    TEXT PRIMARY KEY,
	premium     INTEGER NOT NULL DEFAULT 0,
	webhook_url TEXT
);

CREATE TABLE IF NOT EXISTS check_logs (
	page_id     TEXT NOT NULL,
	checked_at  TEXT NOT NULL,
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
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// timeLayout is fixed-width: every timestamp is UTC with a full
// nine-digit fractional part, so lexical range predicates over the
// checked_at column match chronological order. RFC3339Nano would trim
// trailing zeros and break that ("...00:00:00Z" sorts after
// "...00:00:00.5Z").
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func encodeTime(t time.Time) string { return t.UTC().Format(timeLayout) }

// ---- PageDirectory ----

func (s *Store) ListPages(ctx context.Context) ([]domain.Page, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, url, owner_id FROM pages ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	var out []domain.Page
	for rows.Next() {
		var p domain.Page
		if err := rows.Scan(&p.ID, &p.URL, &p.OwnerID); err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) SettingsFor(ctx context.Context, owners []domain.UserID) (map[domain.UserID]domain.OwnerSettings, error) {
	out := make(map[domain.UserID]domain.OwnerSettings, len(owners))
	if len(owners) == 0 {
		return out, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(owners)), ",")
	args := make([]any, len(owners))
	for i, id := range owners {
		args[i] = string(id)
	}

	query := fmt.Sprintf(
		`SELECT owner_id, premium, webhook_url FROM owner_settings WHERE owner_id IN (%s)`,
		placeholders)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load owner settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			st      domain.OwnerSettings
			webhook sql.NullString
		)
		if err := rows.Scan(&st.OwnerID, &st.Premium, &webhook); err != nil {
			return nil, fmt.Errorf("scan owner settings: %w", err)
		}
		if webhook.Valid {
			st.WebhookURL = webhook.String
		}
		out[st.OwnerID] = st
	}
	return out, rows.Err()
}

// ---- seed helpers for local/dev databases ----

func (s *Store) AddPage(ctx context.Context, p domain.Page) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pages (id, url, owner_id) VALUES (?,?,?)
		 ON CONFLICT(id) DO UPDATE SET url=excluded.url, owner_id=excluded.owner_id`,
		string(p.ID), p.URL, string(p.OwnerID))
	return err
}

func (s *Store) SetSettings(ctx context.Context, st domain.OwnerSettings) error {
	var webhook any
	if st.WebhookURL != "" {
		webhook = st.WebhookURL
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO owner_settings (owner_id, premium, webhook_url) VALUES (?,?,?)
		 ON CONFLICT(owner_id) DO UPDATE SET premium=excluded.premium, webhook_url=excluded.webhook_url`,
		string(st.OwnerID), st.Premium, webhook)
	return err
}

// ---- LogStore ----

func (s *Store) InsertBatch(ctx context.Context, results []domain.CheckResult) error {
	if len(results) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO check_logs (page_id, checked_at, status_code, error) VALUES (?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		var status, errText any
		if r.StatusCode != nil {
			status = *r.StatusCode
		}
		if r.Error != nil {
			errText = *r.Error
		}
		if _, err := stmt.ExecContext(ctx, string(r.PageID), encodeTime(r.CheckedAt), status, errText); err != nil {
			return fmt.Errorf("insert check log: %w", err)
		}
	}
	return tx.Commit()
}

func (s *Store) ListRange(ctx context.Context, page domain.PageID, from, to time.Time) ([]domain.CheckResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT page_id, checked_at, status_code, error
		   FROM check_logs
		  WHERE page_id = ? AND checked_at >= ? AND checked_at < ?
		  ORDER BY checked_at`,
		string(page), encodeTime(from), encodeTime(to))
	if err != nil {
		return nil, fmt.Errorf("list check logs: %w", err)
	}
	defer rows.Close()

	var out []domain.CheckResult
	for rows.Next() {
		var (
			r         domain.CheckResult
			checkedAt string
			status    sql.NullInt64
			errText   sql.NullString
		)
		if err := rows.Scan(&r.PageID, &checkedAt, &status, &errText); err != nil {
			return nil, fmt.Errorf("scan check log: %w", err)
		}
		ts, err := time.Parse(timeLayout, checkedAt)
		if err != nil {
			return nil, fmt.Errorf("parse checked_at: %w", err)
		}
		r.CheckedAt = ts
		if status.Valid {
			v := int(status.Int64)
			r.StatusCode = &v
		}
		if errText.Valid {
			v := errText.String
			r.Error = &v
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) DeleteRange(ctx context.Context, page domain.PageID, from, to time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM check_logs WHERE page_id = ? AND checked_at >= ? AND checked_at < ?`,
		string(page), encodeTime(from), encodeTime(to))
	if err != nil {
		return fmt.Errorf("delete check logs: %w", err)
	}
	return nil
}

// ---- StatusStore ----

func (s *Store) Upsert(ctx context.Context, st domain.DailyStatus) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO daily_status (page_id, day, timezone, status) VALUES (?,?,?,?)
		 ON CONFLICT(page_id, day, timezone) DO UPDATE SET status=excluded.status`,
		string(st.PageID), st.Day, st.Zone, string(st.Status))
	if err != nil {
		return fmt.Errorf("upsert daily status: %w", err)
	}
	return nil
}
