package postgres

import (
	"context"
	"fmt"

	"github.com/hamed0406/pagewatch/internal/domain"
)

func (s *Store) Upsert(ctx context.Context, st domain.DailyStatus) error {
	const q = `
		INSERT INTO daily_status (page_id, day, timezone, status)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (page_id, day, timezone)
		DO UPDATE SET status=EXCLUDED.status
	`
	_, err := s.pool.Exec(ctx, q, string(st.PageID), st.Day, st.Zone, string(st.Status))
	if err != nil {
		return fmt.Errorf("upsert daily status: %w", err)
	}
	return nil
}
