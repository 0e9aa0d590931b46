package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all review routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reviews", func(r chi.Router) {
		r.Get("/history", h.HandleGetHistory)
		r.Get("/history/{date}", h.HandleGetArchived)
		r.Get("/{date}", h.HandleGetReview)
		r.Get("/{date}/groups", h.HandleGetGroups)
		r.Get("/{date}/reasons", h.HandleGetReasons)
	})
}
