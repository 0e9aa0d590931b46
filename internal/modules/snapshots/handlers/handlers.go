// Package handlers provides HTTP handlers for limit-up snapshot operations.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/aristath/limitup/internal/domain"
	"github.com/aristath/limitup/internal/modules/snapshots"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// maxUploadBytes caps snapshot uploads
const maxUploadBytes = 16 << 20

// Handler handles snapshot HTTP requests
type Handler struct {
	service *snapshots.Service
	loc     *time.Location
	log     zerolog.Logger
}

// NewHandler creates a new snapshot handler
func NewHandler(service *snapshots.Service, loc *time.Location, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		loc:     loc,
		log:     log.With().Str("handler", "snapshots").Logger(),
	}
}

// HandleList handles GET /api/snapshots
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, "Invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	imports, err := h.service.List(r.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list snapshots")
		http.Error(w, "Failed to list snapshots", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": imports,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
			"count":     len(imports),
		},
	})
}

// HandleGet handles GET /api/snapshots/{date}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	date, err := domain.ParseDate(chi.URLParam(r, "date"), h.loc)
	if err != nil {
		http.Error(w, "Invalid date", http.StatusBadRequest)
		return
	}

	set, err := h.service.Fetch(r.Context(), date)
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Str("date", domain.DateKey(date)).Msg("Failed to fetch snapshot")
		http.Error(w, "Failed to fetch snapshot", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"trade_date": domain.DateKey(set.TradeDate),
			"records":    set.Records,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
			"count":     set.Len(),
		},
	})
}

// HandleUpload handles POST /api/snapshots/{date} with a multipart "file" field
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	date, err := domain.ParseDate(chi.URLParam(r, "date"), h.loc)
	if err != nil {
		http.Error(w, "Invalid date", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Failed to read upload", http.StatusBadRequest)
		return
	}

	summary, err := h.service.Import(r.Context(), date, header.Filename, content)
	if err != nil {
		if errors.Is(err, snapshots.ErrInvalidSnapshot) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.log.Error().Err(err).Str("date", domain.DateKey(date)).Msg("Failed to import snapshot")
		http.Error(w, "Failed to import snapshot", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"data": summary,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
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
