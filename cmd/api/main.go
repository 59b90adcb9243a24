package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/pagewatch/internal/config"
	"github.com/hamed0406/pagewatch/internal/httpapi"
	apimw "github.com/hamed0406/pagewatch/internal/httpapi/middleware"
	"github.com/hamed0406/pagewatch/internal/logging"
	"github.com/hamed0406/pagewatch/internal/notify"
	"github.com/hamed0406/pagewatch/internal/probe"
	"github.com/hamed0406/pagewatch/internal/repo"
	"github.com/hamed0406/pagewatch/internal/repo/memory"
	"github.com/hamed0406/pagewatch/internal/repo/postgres"
	"github.com/hamed0406/pagewatch/internal/repo/sqlite"
	"github.com/hamed0406/pagewatch/internal/scheduler"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx := context.Background()

	var (
		dir      repo.PageDirectory
		logStore repo.LogStore
		statuses repo.StatusStore
	)
	switch cfg.DatabaseDriver {
	case "postgres":
		st, err := postgres.New(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			log.Fatal(err)
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			log.Fatal(err)
		}
		dir, logStore, statuses = st, st, st
	case "sqlite":
		st, err := sqlite.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer st.Close()
		dir, logStore, statuses = st, st, st
	default:
		st := memory.New()
		dir, logStore, statuses = st, st, st
	}

	zone, err := time.LoadLocation(cfg.LocalZone)
	if err != nil {
		log.Fatalf("invalid LOCAL_ZONE %q: %v", cfg.LocalZone, err)
	}

	cycle := scheduler.NewCycle(
		logger, dir, logStore,
		probe.NewHTTPChecker(cfg.ProbeTimeout),
		notify.NewWebhook(),
		cfg.WaveSize, cfg.ProbeTimeout,
	)
	rollup := scheduler.NewRollup(logger, dir, logStore, statuses, zone, cfg.RedThreshold)

	api := httpapi.NewServer(logger, cycle, rollup, dir)
	keys := apimw.Keys{Public: cfg.PublicAPIKeys, Admin: cfg.AdminAPIKeys}

	logger.Info("api_listen",
		zap.String("addr", cfg.Addr),
		zap.String("driver", cfg.DatabaseDriver),
		zap.String("local_zone", cfg.LocalZone),
	)
	if err := http.ListenAndServe(cfg.Addr, api.Router(keys, cfg.PublicRPM, cfg.PublicBurst)); err != nil {
		log.Fatal(err)
	}
}
