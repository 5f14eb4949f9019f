package serverapp

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"crescita/internal/challenge"
	"crescita/internal/clock"
	"crescita/internal/config"
	"crescita/internal/httpmw"
	"crescita/internal/ops"
	"crescita/internal/quote"
	"crescita/internal/store"
	"crescita/internal/telemetry"
	"crescita/internal/tracker"
)

type Options struct {
	Config  *config.Config
	DataDir string
	Logger  *log.Logger
	Clock   clock.Clock
}

// NewHandler wires the full API surface: habits and reflections through the
// tracker, challenges, quotes, export/import, and telemetry.
func NewHandler(opts Options) (http.Handler, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if strings.TrimSpace(opts.DataDir) == "" {
		opts.DataDir = opts.Config.Storage.DataDir
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}

	st, err := store.Open(opts.DataDir, opts.Logger)
	if err != nil {
		return nil, err
	}

	events := telemetry.NewMemoryRepository(opts.Clock)

	trackerSvc := tracker.NewService(st, opts.Config, opts.Clock, events, opts.Logger)
	if err := trackerSvc.Reconcile(); err != nil {
		return nil, err
	}

	mux := http.NewServeMux()

	trackerHandler := tracker.NewHandler(trackerSvc)
	mux.HandleFunc("/api/habits", trackerHandler.HabitsRoot)
	mux.HandleFunc("/api/habits/", trackerHandler.HabitsSub)
	mux.HandleFunc("/api/reflections", trackerHandler.ReflectionsRoot)
	mux.HandleFunc("/api/reflections/", trackerHandler.ReflectionsSub)
	mux.HandleFunc("/api/status", trackerHandler.Status)
	mux.HandleFunc("/api/stats", trackerHandler.Stats)
	mux.HandleFunc("/api/calendar", trackerHandler.Calendar)

	challengeHandler := challenge.NewHandler(challenge.NewEngine(st, opts.Config, opts.Clock, events))
	mux.HandleFunc("/api/challenges", challengeHandler.ChallengesRoot)
	mux.HandleFunc("/api/challenges/", challengeHandler.ChallengesSub)

	quoteHandler := quote.NewHandler(quote.NewService(st, opts.Config, opts.Clock))
	mux.HandleFunc("/api/quotes/daily", quoteHandler.Daily)
	mux.HandleFunc("/api/quotes/favorites", quoteHandler.FavoritesRoot)
	mux.HandleFunc("/api/quotes/favorites/", quoteHandler.FavoritesSub)

	opsHandler := ops.NewHandler(st, trackerSvc, opts.Clock, events)
	mux.HandleFunc("/api/export", opsHandler.Export)
	mux.HandleFunc("/api/import", opsHandler.Import)

	mux.HandleFunc("/api/telemetry/stats", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		since := clock.Today(opts.Clock).AddDate(0, 0, -30)
		writeJSON(w, http.StatusOK, telemetry.CalculateStats(events.Events(since), since))
	})

	mux.HandleFunc("/api/config", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(opts.Config); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "crescita",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		// The store loaded at startup; a snapshot proves it is serving.
		_ = st.Snapshot()
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "crescita",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	return httpmw.Chain(
		mux,
		httpmw.WithAccessLog(opts.Logger),
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
	), nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
