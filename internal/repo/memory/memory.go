package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hamed0406/pagewatch/internal/domain"
	"github.com/hamed0406/pagewatch/internal/repo"
)

var (
	_ repo.PageDirectory = (*Store)(nil)
	_ repo.LogStore      = (*Store)(nil)
	_ repo.StatusStore   = (*Store)(nil)
)

// Store is an in-memory adapter for all three ports, used in dev mode
// and tests.
type Store struct {
	mu       sync.RWMutex
	pages    []domain.Page
	settings map[domain.UserID]domain.OwnerSettings
	logs     []domain.CheckResult
	statuses map[statusKey]domain.DailyStatus
}

type statusKey struct {
	page domain.PageID
	day  string
	zone string
}

func New() *Store {
	return &Store{
		settings: make(map[domain.UserID]domain.OwnerSettings),
		statuses: make(map[statusKey]domain.DailyStatus),
	}
}

// ---- seed helpers (the directory is external in production) ----

func (m *Store) AddPage(p domain.Page) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages = append(m.pages, p)
}

func (m *Store) SetSettings(s domain.OwnerSettings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[s.OwnerID] = s
}

// ---- PageDirectory ----

func (m *Store) ListPages(ctx context.Context) ([]domain.Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Page, len(m.pages))
	copy(out, m.pages)
	return out, nil
}

func (m *Store) SettingsFor(ctx context.Context, owners []domain.UserID) (map[domain.UserID]domain.OwnerSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[domain.UserID]domain.OwnerSettings, len(owners))
	for _, id := range owners {
		if s, ok := m.settings[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

// ---- LogStore ----

func (m *Store) InsertBatch(ctx context.Context, results []domain.CheckResult) error {
	if len(results) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, results...)
	return nil
}

func (m *Store) ListRange(ctx context.Context, page domain.PageID, from, to time.Time) ([]domain.CheckResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.CheckResult
	for _, r := range m.logs {
		if r.PageID == page && !r.CheckedAt.Before(from) && r.CheckedAt.Before(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *Store) DeleteRange(ctx context.Context, page domain.PageID, from, to time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.logs[:0]
	for _, r := range m.logs {
		if r.PageID == page && !r.CheckedAt.Before(from) && r.CheckedAt.Before(to) {
			continue
		}
		kept = append(kept, r)
	}
	m.logs = kept
	return nil
}

// ---- StatusStore ----

func (m *Store) Upsert(ctx context.Context, st domain.DailyStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[statusKey{st.PageID, st.Day, st.Zone}] = st
	return nil
}

// Status reads back an upserted row; handy for dev endpoints and tests.
func (m *Store) Status(page domain.PageID, day, zone string) (domain.DailyStatus, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.statuses[statusKey{page, day, zone}]
	return st, ok
}
