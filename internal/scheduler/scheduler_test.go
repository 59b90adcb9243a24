package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hamed0406/pagewatch/internal/domain"
	"github.com/hamed0406/pagewatch/internal/probe"
	"github.com/hamed0406/pagewatch/internal/repo/memory"
)

// failingEveryProbe always reports a transport error.
type failingEveryProbe struct{}

func (failingEveryProbe) Check(_ context.Context, _ string) probe.Outcome {
	return probe.Outcome{Err: "dial tcp: connection refused"}
}

// Full path through the engine on one shared store: cycles write raw
// logs, the rollup the morning after classifies them and leaves the
// evidence in place because the day was unhealthy.
func TestCycleThenRollup_BadDayStaysOnRecord(t *testing.T) {
	store := memory.New()
	store.AddPage(domain.Page{ID: "P1", URL: "https://down.example", OwnerID: "u1"})
	store.SetSettings(domain.OwnerSettings{OwnerID: "u1", Premium: true})

	c := NewCycle(zap.NewNop(), store, store, failingEveryProbe{}, &fakeNotifier{}, 10, time.Second)
	c.classifyDNS = func(context.Context, string) string { return "NXDOMAIN" }

	// Twelve failing cycles during "today" make a red day.
	for i := 0; i < 12; i++ {
		require.NoError(t, c.Run(context.Background(), 0))
	}

	// The cycle stamps results with the real wall clock, so roll up
	// "tomorrow" relative to that.
	now := time.Now().UTC()
	rollup := NewRollup(zap.NewNop(), store, store, store, time.UTC, 12)
	require.NoError(t, rollup.Run(context.Background(), now.AddDate(0, 0, 1)))

	st, ok := store.Status("P1", now.Format("2006-01-02"), "UTC")
	require.True(t, ok)
	require.Equal(t, domain.StatusRed, st.Status)

	// Red days keep their logs.
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	logs, err := store.ListRange(context.Background(), "P1", from, from.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, logs, 12)
}
