package repo

import (
	"context"
	"time"

	"github.com/hamed0406/pagewatch/internal/domain"
)

// Ports (interfaces) — swap in any DB adapter later.

// PageDirectory supplies the monitored pages and their owners' settings.
// Read-only for this service.
type PageDirectory interface {
	ListPages(ctx context.Context) ([]domain.Page, error)
	// SettingsFor loads settings for a set of owners in one batch. Owners
	// with no settings row are simply absent from the result.
	SettingsFor(ctx context.Context, owners []domain.UserID) (map[domain.UserID]domain.OwnerSettings, error)
}

// LogStore is the append-only store of raw check results.
type LogStore interface {
	InsertBatch(ctx context.Context, results []domain.CheckResult) error
	// ListRange returns a page's results with CheckedAt in [from, to).
	ListRange(ctx context.Context, page domain.PageID, from, to time.Time) ([]domain.CheckResult, error)
	DeleteRange(ctx context.Context, page domain.PageID, from, to time.Time) error
}

// StatusStore keeps one row per (page, day, zone); Upsert overwrites on
// key conflict so re-running a day is idempotent.
type StatusStore interface {
	Upsert(ctx context.Context, st domain.DailyStatus) error
}
