package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/pagewatch/internal/domain"
	apimw "github.com/hamed0406/pagewatch/internal/httpapi/middleware"
	"github.com/hamed0406/pagewatch/internal/probe"
	"github.com/hamed0406/pagewatch/internal/repo/memory"
	"github.com/hamed0406/pagewatch/internal/scheduler"
)

// ---- test helpers ----

type okProber struct{}

func (okProber) Check(_ context.Context, _ string) probe.Outcome {
	code := 200
	return probe.Outcome{StatusCode: &code}
}

type noopNotifier struct{}

func (noopNotifier) Send(_ context.Context, _, _ string) error { return nil }

func setupServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()
	log := zap.NewNop()
	store := memory.New()
	store.AddPage(domain.Page{ID: "P1", URL: "https://example.com", OwnerID: "u1"})
	store.SetSettings(domain.OwnerSettings{OwnerID: "u1", Premium: true})

	cycle := scheduler.NewCycle(log, store, store, okProber{}, noopNotifier{}, 10, time.Second)
	rollup := scheduler.NewRollup(log, store, store, store, time.UTC, 12)
	srv := NewServer(log, cycle, rollup, store)

	keys := apimw.Keys{Public: []string{"pub_test"}, Admin: []string{"adm_test"}}
	ts := httptest.NewServer(srv.Router(keys, 10_000, 10_000))
	t.Cleanup(ts.Close)
	return ts, store
}

func doPost(t *testing.T, url, key string) (*http.Response, string) {
	t.Helper()
	req, _ := http.NewRequest(http.MethodPost, url, nil)
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	return resp, string(body)
}

// ---- tests ----

func TestCheckCycle_OKAndMinuteValidation(t *testing.T) {
	ts, store := setupServer(t)

	resp, body := doPost(t, ts.URL+"/tasks/check-cycle?minute=0", "adm_test")
	if resp.StatusCode != http.StatusOK || body != "OK" {
		t.Fatalf("want 200 OK, got %d %q", resp.StatusCode, body)
	}
	day := time.Now().UTC()
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	logs, _ := store.ListRange(context.Background(), "P1", from, from.AddDate(0, 0, 1))
	if len(logs) != 1 {
		t.Fatalf("expected one persisted result, got %d", len(logs))
	}

	// minute 7: premium page not due, still 200 OK
	resp, _ = doPost(t, ts.URL+"/tasks/check-cycle?minute=7", "adm_test")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200 on idle cycle, got %d", resp.StatusCode)
	}

	for _, bad := range []string{"99", "-1", "abc"} {
		resp, _ = doPost(t, ts.URL+"/tasks/check-cycle?minute="+bad, "adm_test")
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("minute=%s: want 400, got %d", bad, resp.StatusCode)
		}
	}
}

func TestCheckCycle_RequiresAdminKey(t *testing.T) {
	ts, _ := setupServer(t)

	resp, _ := doPost(t, ts.URL+"/tasks/check-cycle?minute=0", "pub_test")
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("public key on a trigger: want 403, got %d", resp.StatusCode)
	}
	resp, _ = doPost(t, ts.URL+"/tasks/check-cycle?minute=0", "")
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("no key on a trigger: want 403, got %d", resp.StatusCode)
	}
}

func TestDailyRollup_OK(t *testing.T) {
	ts, _ := setupServer(t)

	resp, body := doPost(t, ts.URL+"/tasks/daily-rollup", "adm_test")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d %q", resp.StatusCode, body)
	}
	if body == "" {
		t.Fatalf("want confirmation message")
	}
}

func TestHealthzAndListPages(t *testing.T) {
	ts, _ := setupServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz: %v %d", err, resp.StatusCode)
	}
	resp.Body.Close()

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/pages", nil)
	req.Header.Set("X-API-Key", "pub_test")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET pages: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if len(body) == 0 || body[0] != '[' {
		t.Fatalf("want JSON array, got %q", body)
	}
}

type brokenDirectory struct{}

func (brokenDirectory) ListPages(context.Context) ([]domain.Page, error) {
	return nil, errors.New("directory unavailable")
}

func (brokenDirectory) SettingsFor(context.Context, []domain.UserID) (map[domain.UserID]domain.OwnerSettings, error) {
	return nil, errors.New("directory unavailable")
}

func TestCheckCycle_DirectoryFailureIs500(t *testing.T) {
	log := zap.NewNop()
	store := memory.New()
	cycle := scheduler.NewCycle(log, brokenDirectory{}, store, okProber{}, noopNotifier{}, 10, time.Second)
	rollup := scheduler.NewRollup(log, brokenDirectory{}, store, store, time.UTC, 12)
	srv := NewServer(log, cycle, rollup, brokenDirectory{})

	ts := httptest.NewServer(srv.Router(apimw.Keys{}, 0, 0))
	defer ts.Close()

	resp, body := doPost(t, ts.URL+"/tasks/check-cycle?minute=0", "")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("want 500, got %d", resp.StatusCode)
	}
	if body == "" {
		t.Fatalf("want descriptive error body")
	}

	resp, _ = doPost(t, ts.URL+"/tasks/daily-rollup", "")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("rollup: want 500, got %d", resp.StatusCode)
	}
}
