package tracker

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"crescita/internal/model"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrHabitNotFound), errors.Is(err, ErrReflectionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEmptyName), errors.Is(err, ErrEmptyText),
		errors.Is(err, ErrFutureDate), errors.Is(err, ErrBeforeStart),
		errors.Is(err, ErrBadStartDate), errors.Is(err, ErrBadColor),
		errors.Is(err, ErrFutureStart):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// /api/habits  (collection)
func (h *Handler) HabitsRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, 200, h.svc.ListHabits())
		return

	case http.MethodPost:
		var in HabitUpsert
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		created, out, err := h.svc.CreateHabit(in)
		if err != nil {
			writeErr(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, 201, map[string]any{"habit": created, "outcome": out})
		return

	default:
		writeErr(w, 405, "method not allowed")
		return
	}
}

// /api/habits/{id} and /api/habits/{id}/toggle
func (h *Handler) HabitsSub(w http.ResponseWriter, r *http.Request) {
	tail := strings.TrimPrefix(r.URL.Path, "/api/habits/")
	tail = strings.Trim(tail, "/")
	if tail == "" {
		writeErr(w, 404, "not found")
		return
	}

	parts := strings.Split(tail, "/")
	id := model.HabitID(parts[0])

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			hv, err := h.svc.GetHabit(id)
			if err != nil {
				writeErr(w, statusFor(err), err.Error())
				return
			}
			writeJSON(w, 200, hv)
			return

		case http.MethodPatch:
			var p HabitPatch
			if err := decodeJSON(r, &p); err != nil {
				writeErr(w, 400, "bad json")
				return
			}
			updated, err := h.svc.UpdateHabit(id, p)
			if err != nil {
				writeErr(w, statusFor(err), err.Error())
				return
			}
			writeJSON(w, 200, updated)
			return

		case http.MethodDelete:
			out, err := h.svc.DeleteHabit(id)
			if err != nil {
				writeErr(w, statusFor(err), err.Error())
				return
			}
			writeJSON(w, 200, map[string]any{"ok": true, "outcome": out})
			return

		default:
			writeErr(w, 405, "method not allowed")
			return
		}
	}

	if len(parts) == 2 && parts[1] == "toggle" {
		if r.Method != http.MethodPost {
			writeErr(w, 405, "method not allowed")
			return
		}
		var in struct {
			Date string `json:"date"`
		}
		if r.Body != nil {
			_ = decodeJSON(r, &in)
		}
		res, err := h.svc.ToggleCompletion(id, in.Date)
		if err != nil {
			writeErr(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, 200, res)
		return
	}

	writeErr(w, 404, "not found")
}

// /api/reflections  (collection)
func (h *Handler) ReflectionsRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, 200, h.svc.Reflections())
		return

	case http.MethodPost:
		var in struct {
			Text string `json:"text"`
		}
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		created, out, err := h.svc.SaveReflection(in.Text)
		if err != nil {
			writeErr(w, statusFor(err), err.Error())
			return
		}
		writeJSON(w, 201, map[string]any{"reflection": created, "outcome": out})
		return

	default:
		writeErr(w, 405, "method not allowed")
		return
	}
}

// /api/reflections/{id}
func (h *Handler) ReflectionsSub(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/reflections/"), "/")
	if id == "" {
		writeErr(w, 404, "not found")
		return
	}
	if r.Method != http.MethodDelete {
		writeErr(w, 405, "method not allowed")
		return
	}
	out, err := h.svc.DeleteReflection(model.ReflectionID(id))
	if err != nil {
		writeErr(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true, "outcome": out})
}

// /api/status
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, 405, "method not allowed")
		return
	}
	writeJSON(w, 200, h.svc.Status())
}

// /api/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, 405, "method not allowed")
		return
	}
	writeJSON(w, 200, h.svc.Stats())
}

// /api/calendar?year=2024&month=5
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, 405, "method not allowed")
		return
	}
	q := r.URL.Query()
	year, _ := strconv.Atoi(q.Get("year"))
	month, _ := strconv.Atoi(q.Get("month"))
	if month < 0 || month > 12 {
		writeErr(w, 400, "month out of range")
		return
	}
	writeJSON(w, 200, h.svc.Calendar(year, time.Month(month)))
}
