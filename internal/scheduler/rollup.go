package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/pagewatch/internal/domain"
	"github.com/hamed0406/pagewatch/internal/repo"
)

// Rollup classifies yesterday's logs into a per-page daily status, once
// for the UTC calendar day and once for a fixed local zone, then prunes
// the UTC window's logs when that day came out fully healthy. Runs once
// per day; re-runs are idempotent as long as the logs are still there.
type Rollup struct {
	Logger       *zap.Logger
	Directory    repo.PageDirectory
	Logs         repo.LogStore
	Statuses     repo.StatusStore
	LocalZone    *time.Location
	RedThreshold int
}

func NewRollup(
	logger *zap.Logger,
	dir repo.PageDirectory,
	logs repo.LogStore,
	statuses repo.StatusStore,
	localZone *time.Location,
	redThreshold int,
) *Rollup {
	if localZone == nil {
		localZone = time.UTC
	}
	if redThreshold < 1 {
		redThreshold = 12
	}
	return &Rollup{
		Logger:       logger,
		Directory:    dir,
		Logs:         logs,
		Statuses:     statuses,
		LocalZone:    localZone,
		RedThreshold: redThreshold,
	}
}

// Run processes every page for yesterday relative to now. The first
// persistence failure aborts the whole job: the next run recomputes
// everything, and a broken store must not leave some pages a day behind
// silently.
func (r *Rollup) Run(ctx context.Context, now time.Time) error {
	pages, err := r.Directory.ListPages(ctx)
	if err != nil {
		return fmt.Errorf("load pages: %w", err)
	}

	utcStart, utcEnd := dayWindow(now, time.UTC, -1)
	locStart, locEnd := dayWindow(now, r.LocalZone, -1)

	for _, p := range pages {
		if err := r.rollupPage(ctx, p.ID, utcStart, utcEnd, locStart, locEnd); err != nil {
			return err
		}
	}
	r.Logger.Info("rollup_done",
		zap.Int("pages", len(pages)),
		zap.String("utc_day", utcStart.Format("2006-01-02")),
		zap.String("local_day", locStart.Format("2006-01-02")),
		zap.String("local_zone", r.LocalZone.String()),
	)
	return nil
}

func (r *Rollup) rollupPage(ctx context.Context, id domain.PageID, utcStart, utcEnd, locStart, locEnd time.Time) error {
	utcLogs, err := r.Logs.ListRange(ctx, id, utcStart, utcEnd)
	if err != nil {
		return fmt.Errorf("list UTC logs for %s: %w", id, err)
	}
	utcStatus := domain.Classify(utcLogs, r.RedThreshold)
	if err := r.Statuses.Upsert(ctx, domain.DailyStatus{
		PageID: id,
		Day:    utcStart.Format("2006-01-02"),
		Zone:   "UTC",
		Status: utcStatus,
	}); err != nil {
		return fmt.Errorf("upsert UTC status for %s: %w", id, err)
	}

	locLogs, err := r.Logs.ListRange(ctx, id, locStart, locEnd)
	if err != nil {
		return fmt.Errorf("list local logs for %s: %w", id, err)
	}
	if err := r.Statuses.Upsert(ctx, domain.DailyStatus{
		PageID: id,
		Day:    locStart.Format("2006-01-02"),
		Zone:   r.LocalZone.String(),
		Status: domain.Classify(locLogs, r.RedThreshold),
	}); err != nil {
		return fmt.Errorf("upsert local status for %s: %w", id, err)
	}

	// Prune only after both zone passes, and only the UTC window: the
	// local window overlaps the rows just classified above.
	if utcStatus == domain.StatusGreen && len(utcLogs) > 0 {
		if err := r.Logs.DeleteRange(ctx, id, utcStart, utcEnd); err != nil {
			return fmt.Errorf("delete UTC logs for %s: %w", id, err)
		}
		r.Logger.Debug("rollup_pruned",
			zap.String("page_id", string(id)),
			zap.Int("logs", len(utcLogs)),
		)
	}
	return nil
}

// dayWindow returns the [start, end) instants of the calendar day that is
// offset days away from now in loc. AddDate in the zone keeps the window
// correct across DST shifts (a local day may be 23 or 25 hours long).
func dayWindow(now time.Time, loc *time.Location, offset int) (time.Time, time.Time) {
	n := now.In(loc)
	start := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, offset)
	return start, start.AddDate(0, 0, 1)
}
