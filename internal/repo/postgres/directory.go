package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hamed0406/pagewatch/internal/domain"
)

func (s *Store) ListPages(ctx context.Context) ([]domain.Page, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, url, owner_id
		   FROM pages
		  ORDER BY id`)
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
	ids := make([]string, len(owners))
	for i, id := range owners {
		ids[i] = string(id)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT owner_id, premium, webhook_url
		   FROM owner_settings
		  WHERE owner_id = ANY($1)`, ids)
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
