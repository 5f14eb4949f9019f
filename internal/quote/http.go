package quote

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

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

// /api/quotes/daily
func (h *Handler) Daily(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, 405, "method not allowed")
		return
	}
	writeJSON(w, 200, h.svc.Daily())
}

// /api/quotes/favorites  (collection)
func (h *Handler) FavoritesRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, 200, h.svc.Favorites())

	case http.MethodPost:
		var in struct {
			Text   string `json:"text"`
			Author string `json:"author"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		fq, err := h.svc.AddFavorite(in.Text, in.Author)
		if errors.Is(err, ErrDuplicateQuote) {
			writeErr(w, 409, err.Error())
			return
		}
		if errors.Is(err, ErrEmptyQuote) {
			writeErr(w, 400, err.Error())
			return
		}
		if err != nil {
			writeErr(w, 500, err.Error())
			return
		}
		writeJSON(w, 201, fq)

	default:
		writeErr(w, 405, "method not allowed")
	}
}

// /api/quotes/favorites/{id}
func (h *Handler) FavoritesSub(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/quotes/favorites/"), "/")
	if id == "" {
		writeErr(w, 404, "not found")
		return
	}
	if r.Method != http.MethodDelete {
		writeErr(w, 405, "method not allowed")
		return
	}
	if err := h.svc.RemoveFavorite(model.QuoteID(id)); err != nil {
		if errors.Is(err, ErrQuoteNotFound) {
			writeErr(w, 404, err.Error())
			return
		}
		writeErr(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
}
