package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hamed0406/pagewatch/internal/domain"
)

// InsertBatch persists one cycle's results in a single round trip.
func (s *Store) InsertBatch(ctx context.Context, results []domain.CheckResult) error {
	if len(results) == 0 {
		return nil
	}
	b := &pgx.Batch{}
	for _, r := range results {
		b.Queue(
			`INSERT INTO check_logs (page_id, checked_at, status_code, error)
			 VALUES ($1, $2, $3, $4)`,
			string(r.PageID), r.CheckedAt, r.StatusCode, r.Error,
		)
	}
	br := s.pool.SendBatch(ctx, b)
	defer br.Close()
	for range results {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert check log: %w", err)
		}
	}
	return nil
}

func (s *Store) ListRange(ctx context.Context, page domain.PageID, from, to time.Time) ([]domain.CheckResult, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT page_id, checked_at, status_code, error
		   FROM check_logs
		  WHERE page_id = $1 AND checked_at >= $2 AND checked_at < $3
		  ORDER BY checked_at`,
		string(page), from, to)
	if err != nil {
		return nil, fmt.Errorf("list check logs: %w", err)
	}
	defer rows.Close()

	var out []domain.CheckResult
	for rows.Next() {
		var (
			r       domain.CheckResult
			status  sql.NullInt32
			errText sql.NullString
		)
		if err := rows.Scan(&r.PageID, &r.CheckedAt, &status, &errText); err != nil {
			return nil, fmt.Errorf("scan check log: %w", err)
		}
		// Build pointers with per-row copies
		if status.Valid {
			v := int(status.Int32)
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
	_, err := s.pool.Exec(ctx,
		`DELETE FROM check_logs
		  WHERE page_id = $1 AND checked_at >= $2 AND checked_at < $3`,
		string(page), from, to)
	if err != nil {
		return fmt.Errorf("delete check logs: %w", err)
	}
	return nil
}
