// Package handlers provides HTTP handlers for daily review operations.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/aristath/limitup/internal/domain"
	"github.com/aristath/limitup/internal/modules/review"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles daily review HTTP requests
type Handler struct {
	service *review.Service
	loc     *time.Location
	log     zerolog.Logger
}

// NewHandler creates a new review handler
func NewHandler(service *review.Service, loc *time.Location, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		loc:     loc,
		log:     log.With().Str("handler", "review").Logger(),
	}
}

// HandleGetReview handles GET /api/reviews/{date}
func (h *Handler) HandleGetReview(w http.ResponseWriter, r *http.Request) {
	date, ok := h.dateParam(w, r)
	if !ok {
		return
	}

	rv, err := h.service.Review(r.Context(), date)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, rv, nil)
}

// HandleGetGroups handles GET /api/reviews/{date}/groups
func (h *Handler) HandleGetGroups(w http.ResponseWriter, r *http.Request) {
	date, ok := h.dateParam(w, r)
	if !ok {
		return
	}

	groups, err := h.service.Groups(r.Context(), date)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, groups, map[string]interface{}{"trade_date": domain.DateKey(date), "count": len(groups)})
}

// HandleGetReasons handles GET /api/reviews/{date}/reasons
func (h *Handler) HandleGetReasons(w http.ResponseWriter, r *http.Request) {
	date, ok := h.dateParam(w, r)
	if !ok {
		return
	}

	reasons, err := h.service.Reasons(r.Context(), date)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, reasons, map[string]interface{}{"trade_date": domain.DateKey(date), "count": len(reasons)})
}

// HandleGetHistory handles GET /api/reviews/history?limit=N
func (h *Handler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	limit := 30
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "Invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	history, err := h.service.History(r.Context(), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, history, map[string]interface{}{"count": len(history)})
}

// HandleGetArchived handles GET /api/reviews/history/{date}
func (h *Handler) HandleGetArchived(w http.ResponseWriter, r *http.Request) {
	date, ok := h.dateParam(w, r)
	if !ok {
		return
	}

	rv, err := h.service.Archived(r.Context(), date)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeData(w, rv, nil)
}

func (h *Handler) dateParam(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	date, err := domain.ParseDate(chi.URLParam(r, "date"), h.loc)
	if err != nil {
		http.Error(w, "Invalid date", http.StatusBadRequest)
		return time.Time{}, false
	}
	return date, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSnapshotNotFound), errors.Is(err, review.ErrNotArchived):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrCalendarLookup):
		h.log.Warn().Err(err).Msg("Calendar lookup failed")
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		h.log.Error().Err(err).Msg("Review request failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeData(w http.ResponseWriter, data interface{}, meta map[string]interface{}) {
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["timestamp"] = time.Now().Format(time.RFC3339)
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":     data,
		"metadata": meta,
	})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
