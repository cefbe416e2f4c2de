package search

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"rentalhub/internal/logger"
	"rentalhub/internal/rest"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the search endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/search", h.handleSearch)
	r.Get("/stays/validate", h.handleValidateStay)
	r.Get("/categories", h.handleCategories)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Search(r.Context(), ParseQuery(r.URL.Query()))
	if err != nil {
		logger.FromContext(r.Context()).Error("Search failed", err, nil)
		rest.WriteJSONError(w, http.StatusInternalServerError, "search is unavailable")
		return
	}
	rest.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleValidateStay(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result := h.service.ValidateStay(r.Context(), DateRange{
		From: rest.ParseDate(q, "checkIn"),
		To:   rest.ParseDate(q, "checkOut"),
	})
	rest.RespondWithJSON(w, http.StatusOK, result)
}

func (h *Handler) handleCategories(w http.ResponseWriter, r *http.Request) {
	rest.RespondWithJSON(w, http.StatusOK, map[string][]string{"categories": h.service.Categories()})
}
