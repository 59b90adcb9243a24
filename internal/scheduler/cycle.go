package scheduler

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hamed0406/pagewatch/internal/cadence"
	"github.com/hamed0406/pagewatch/internal/domain"
	"github.com/hamed0406/pagewatch/internal/notify"
	"github.com/hamed0406/pagewatch/internal/probe"
	"github.com/hamed0406/pagewatch/internal/repo"
)

// Cycle runs one check pass: filter pages by cadence, probe the due ones
// in fixed-size waves, persist every result as one batch, then fire
// alerts for the failing ones without waiting on delivery.
type Cycle struct {
	Logger       *zap.Logger
	Directory    repo.PageDirectory
	Logs         repo.LogStore
	Prober       probe.Prober
	Notifier     notify.Notifier
	WaveSize     int
	ProbeTimeout time.Duration

	// classifyDNS enriches probe-failure logs; swapped out in tests to
	// keep them off the network.
	classifyDNS func(ctx context.Context, host string) string

	alerts sync.WaitGroup
}

func NewCycle(
	logger *zap.Logger,
	dir repo.PageDirectory,
	logs repo.LogStore,
	prober probe.Prober,
	notifier notify.Notifier,
	waveSize int,
	probeTimeout time.Duration,
) *Cycle {
	if waveSize < 1 {
		waveSize = 10
	}
	if probeTimeout <= 0 {
		probeTimeout = 10 * time.Second
	}
	return &Cycle{
		Logger:       logger,
		Directory:    dir,
		Logs:         logs,
		Prober:       prober,
		Notifier:     notifier,
		WaveSize:     waveSize,
		ProbeTimeout: probeTimeout,
		classifyDNS:  probe.ClassifyDNS,
	}
}

// Run executes one cycle for the given minute of the hour. A directory
// load failure or a batch-persist failure aborts the cycle; individual
// probe failures are recorded as data, never as faults.
func (c *Cycle) Run(ctx context.Context, minute int) error {
	pages, err := c.Directory.ListPages(ctx)
	if err != nil {
		return fmt.Errorf("load pages: %w", err)
	}

	seen := make(map[domain.UserID]struct{}, len(pages))
	owners := make([]domain.UserID, 0, len(pages))
	for _, p := range pages {
		if _, ok := seen[p.OwnerID]; !ok {
			seen[p.OwnerID] = struct{}{}
			owners = append(owners, p.OwnerID)
		}
	}
	settings, err := c.Directory.SettingsFor(ctx, owners)
	if err != nil {
		return fmt.Errorf("load owner settings: %w", err)
	}

	// Pages whose owner has no settings row are skipped, not failed.
	var due []domain.Page
	for _, p := range pages {
		s, ok := settings[p.OwnerID]
		if !ok {
			continue
		}
		if cadence.Due(minute, s.Premium) {
			due = append(due, p)
		}
	}
	if len(due) == 0 {
		c.Logger.Info("cycle_nothing_due", zap.Int("minute", minute), zap.Int("pages", len(pages)))
		return nil
	}

	results := c.probeWaves(ctx, due)

	if err := c.Logs.InsertBatch(ctx, results); err != nil {
		return fmt.Errorf("persist check logs: %w", err)
	}

	dispatched := 0
	for i, r := range results {
		if !r.Failing() {
			continue
		}
		s := settings[due[i].OwnerID]
		if s.WebhookURL == "" {
			continue
		}
		c.dispatchAlert(due[i].URL, s.WebhookURL, r)
		dispatched++
	}

	c.Logger.Info("cycle_done",
		zap.Int("minute", minute),
		zap.Int("due", len(due)),
		zap.Int("results", len(results)),
		zap.Int("alerts", dispatched),
	)
	return nil
}

// probeWaves checks due pages in waves of WaveSize. Wave k+1 starts only
// after every probe in wave k has resolved; the slowest probe in a wave
// gates the rest, which is acceptable at minute granularity. results[i]
// always corresponds to due[i].
func (c *Cycle) probeWaves(ctx context.Context, due []domain.Page) []domain.CheckResult {
	results := make([]domain.CheckResult, len(due))
	for start := 0; start < len(due); start += c.WaveSize {
		end := start + c.WaveSize
		if end > len(due) {
			end = len(due)
		}
		g := new(errgroup.Group)
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				results[i] = c.probeOne(ctx, due[i])
				return nil
			})
		}
		_ = g.Wait() // probes never error; failures are data
	}
	return results
}

func (c *Cycle) probeOne(ctx context.Context, p domain.Page) domain.CheckResult {
	pctx, cancel := context.WithTimeout(ctx, c.ProbeTimeout)
	defer cancel()

	out := c.Prober.Check(pctx, p.URL)
	r := domain.CheckResult{
		PageID:     p.ID,
		CheckedAt:  time.Now().UTC(),
		StatusCode: out.StatusCode,
	}
	if out.StatusCode == nil {
		msg := out.Err
		r.Error = &msg
		c.Logger.Info("probe_failed",
			zap.String("page_id", string(p.ID)),
			zap.String("url", p.URL),
			zap.String("error", msg),
			zap.String("dns_class", c.classifyDNS(ctx, extractHost(p.URL))),
		)
	} else {
		c.Logger.Debug("probe_ok",
			zap.String("page_id", string(p.ID)),
			zap.String("url", p.URL),
			zap.Int("status", *out.StatusCode),
		)
	}
	return r
}

// dispatchAlert sends in the background and returns immediately. The send
// runs under its own context so a finished HTTP request doesn't cancel it.
func (c *Cycle) dispatchAlert(pageURL, webhookURL string, r domain.CheckResult) {
	msg := notify.DownMessage(pageURL, r.StatusCode, r.Error)
	c.alerts.Add(1)
	go func() {
		defer c.alerts.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := c.Notifier.Send(ctx, webhookURL, msg); err != nil {
			c.Logger.Debug("alert_send_failed", zap.String("url", pageURL), zap.Error(err))
		}
	}()
}

// WaitAlerts blocks until in-flight alert sends finish. The request path
// never calls this; shutdown and tests do.
func (c *Cycle) WaitAlerts() { c.alerts.Wait() }

// extractHost pulls the hostname from a URL string
func extractHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	return u.Hostname()
}
