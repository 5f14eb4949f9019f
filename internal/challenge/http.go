package challenge

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrUnknownChallenge):
		return http.StatusNotFound
	case errors.Is(err, ErrNoActiveRun), errors.Is(err, ErrDayOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// /api/challenges  (catalogue)
func (h *Handler) ChallengesRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, 405, "method not allowed")
		return
	}
	writeJSON(w, 200, h.engine.List())
}

// /api/challenges/{slug}/toggle and /api/challenges/{slug}/day
func (h *Handler) ChallengesSub(w http.ResponseWriter, r *http.Request) {
	tail := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/challenges/"), "/")
	parts := strings.Split(tail, "/")
	if len(parts) != 2 {
		writeErr(w, 404, "not found")
		return
	}
	slug := parts[0]

	switch parts[1] {
	case "toggle":
		if r.Method != http.MethodPost {
			writeErr(w, 405, "method not allowed")
			return
		}
		v, err := h.engine.Toggle(slug)
		if err != nil {
			writeErr(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, 200, v)

	case "day":
		if r.Method != http.MethodPut {
			writeErr(w, 405, "method not allowed")
			return
		}
		var in struct {
			Day  *int  `json:"day"`
			Done *bool `json:"done"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		if in.Day == nil || in.Done == nil {
			writeErr(w, 400, `fields "day" and "done" are required`)
			return
		}
		v, err := h.engine.SetDay(slug, *in.Day, *in.Done)
		if err != nil {
			writeErr(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, 200, v)

	default:
		writeErr(w, 404, "not found")
	}
}
