package ops

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"crescita/internal/clock"
	"crescita/internal/store"
	"crescita/internal/telemetry"
)

// maxImportBytes caps the import payload; a lifetime of habit data stays
// far below this.
const maxImportBytes = 16 << 20

// Reconciler refreshes derived state after the document is replaced.
type Reconciler interface {
	Reconcile() error
}

type Handler struct {
	store      *store.Store
	reconciler Reconciler
	clk        clock.Clock
	events     telemetry.Recorder
}

func NewHandler(st *store.Store, rec Reconciler, clk clock.Clock, events telemetry.Recorder) *Handler {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if events == nil {
		events = telemetry.NopRecorder{}
	}
	return &Handler{store: st, reconciler: rec, clk: clk, events: events}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

// /api/export
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, 405, "method not allowed")
		return
	}

	now := h.clk.Now()
	b, err := Export(h.store.Snapshot(), now)
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+ExportName(now)+`"`)
	w.WriteHeader(200)
	_, _ = w.Write(b)
}

// /api/import
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, 405, "method not allowed")
		return
	}

	b, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		writeErr(w, 400, "read body: "+err.Error())
		return
	}

	doc, err := Parse(b)
	if errors.Is(err, ErrBackupVersion) {
		writeErr(w, 400, err.Error())
		return
	}
	if err != nil {
		writeErr(w, 400, err.Error())
		return
	}

	if err := h.store.Replace(doc); err != nil {
		writeErr(w, 500, err.Error())
		return
	}
	if h.reconciler != nil {
		if err := h.reconciler.Reconcile(); err != nil {
			writeErr(w, 500, err.Error())
			return
		}
	}
	h.events.Record(telemetry.EventBackupImported, telemetry.Metadata{
		"habits":      len(doc.Habits),
		"reflections": len(doc.Reflections),
	})

	writeJSON(w, 200, map[string]any{
		"ok":          true,
		"habits":      len(doc.Habits),
		"reflections": len(doc.Reflections),
	})
}
