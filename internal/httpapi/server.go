package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	apimw "github.com/hamed0406/pagewatch/internal/httpapi/middleware"
	"github.com/hamed0406/pagewatch/internal/repo"
	"github.com/hamed0406/pagewatch/internal/scheduler"
)

// Server exposes the two job triggers and a thin read surface. The
// triggers are meant to be hit by an external scheduler (cron, Cloud
// Scheduler, systemd timer) roughly once per minute / once per day.
type Server struct {
	Logger    *zap.Logger
	Cycle     *scheduler.Cycle
	Rollup    *scheduler.Rollup
	Directory repo.PageDirectory
}

func NewServer(l *zap.Logger, cycle *scheduler.Cycle, rollup *scheduler.Rollup, dir repo.PageDirectory) *Server {
	return &Server{Logger: l, Cycle: cycle, Rollup: rollup, Directory: dir}
}

func (s *Server) Router(keys apimw.Keys, publicRPM, publicBurst int) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(g chi.Router) {
		g.Use(apimw.RequireAdmin(keys))
		g.Post("/tasks/check-cycle", s.handleCheckCycle)
		g.Post("/tasks/daily-rollup", s.handleDailyRollup)
	})

	r.Group(func(g chi.Router) {
		g.Use(apimw.RequireAny(keys))
		g.Use(apimw.RateLimit(publicRPM, publicBurst))
		g.Get("/api/pages", s.handleListPages)
	})

	return r
}

// handleCheckCycle runs one check cycle. The minute defaults to the wall
// clock and can be overridden for replay/testing.
func (s *Server) handleCheckCycle(w http.ResponseWriter, r *http.Request) {
	minute := time.Now().Minute()
	if v := r.URL.Query().Get("minute"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 59 {
			http.Error(w, "minute must be an integer 0-59", http.StatusBadRequest)
			return
		}
		minute = n
	}

	if err := s.Cycle.Run(r.Context(), minute); err != nil {
		s.Logger.Error("check_cycle_failed", zap.Int("minute", minute), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleDailyRollup(w http.ResponseWriter, r *http.Request) {
	if err := s.Rollup.Run(r.Context(), time.Now()); err != nil {
		s.Logger.Error("daily_rollup_failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("daily statuses updated for yesterday (UTC and local); healthy UTC logs pruned"))
}

func (s *Server) handleListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := s.Directory.ListPages(r.Context())
	if err != nil {
		http.Error(w, "list error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(pages)
}
