// Package handlers provides HTTP handlers for trading calendar operations.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/aristath/limitup/internal/domain"
	"github.com/aristath/limitup/internal/modules/calendar"
	"github.com/rs/zerolog"
)

// Handler handles trading calendar HTTP requests
type Handler struct {
	service *calendar.Service
	log     zerolog.Logger
}

// NewHandler creates a new calendar handler
func NewHandler(service *calendar.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "calendar").Logger(),
	}
}

// HandleGetPrevious handles GET /api/calendar/previous?date=YYYY-MM-DD
// Defaults to today in the exchange time zone
func (h *Handler) HandleGetPrevious(w http.ResponseWriter, r *http.Request) {
	date, ok := h.dateParam(w, r)
	if !ok {
		return
	}

	prev, err := h.service.PreviousTradingDay(date)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"date":     domain.DateKey(date),
			"previous": domain.DateKey(prev),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleGetTradingDay handles GET /api/calendar/trading-day?date=YYYY-MM-DD
func (h *Handler) HandleGetTradingDay(w http.ResponseWriter, r *http.Request) {
	date, ok := h.dateParam(w, r)
	if !ok {
		return
	}

	td, err := h.service.TradingDate(date)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"date":           domain.DateKey(td.Date),
			"is_workday":     td.IsWorkday,
			"is_holiday":     td.IsHoliday,
			"is_trading_day": td.IsTradingDay(),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleGetHolidays handles GET /api/calendar/holidays?year=YYYY
// Defaults to the current year
func (h *Handler) HandleGetHolidays(w http.ResponseWriter, r *http.Request) {
	year := h.service.Today().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "Invalid year parameter", http.StatusBadRequest)
			return
		}
		year = parsed
	}

	holidays, err := h.service.Holidays(year)
	if err != nil {
		h.writeError(w, err)
		return
	}

	dates := make([]string, len(holidays))
	for i, d := range holidays {
		dates[i] = domain.DateKey(d)
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"year":     year,
			"holidays": dates,
		},
		"metadata": map[string]interface{}{
			"timestamp":     time.Now().Format(time.RFC3339),
			"covered_years": h.service.Years(),
		},
	})
}

func (h *Handler) dateParam(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return h.service.Today(), true
	}
	date, err := domain.ParseDate(raw, h.service.Location())
	if err != nil {
		http.Error(w, "Invalid date parameter", http.StatusBadRequest)
		return time.Time{}, false
	}
	return date, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrCalendarLookup) {
		h.log.Warn().Err(err).Msg("Calendar lookup failed")
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	h.log.Error().Err(err).Msg("Calendar request failed")
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
