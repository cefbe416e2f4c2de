package listing

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"rentalhub/internal/logger"
	"rentalhub/internal/rest"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the listing endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/listings", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/{id}", h.handleGet)
		r.Put("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleRemove)
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	d, ok := h.decodeDraft(w, r)
	if !ok {
		return
	}

	l, err := h.service.CreateListing(r.Context(), d)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rest.RespondWithJSON(w, http.StatusCreated, l)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	listings, err := h.service.ListListings(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if listings == nil {
		listings = []Listing{}
	}
	rest.RespondWithJSON(w, http.StatusOK, listings)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	l, err := h.service.GetListing(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rest.RespondWithJSON(w, http.StatusOK, l)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	d, ok := h.decodeDraft(w, r)
	if !ok {
		return
	}

	l, err := h.service.UpdateListing(r.Context(), id, d)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rest.RespondWithJSON(w, http.StatusOK, l)
}

func (h *Handler) handleRemove(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.RemoveListing(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeDraft(w http.ResponseWriter, r *http.Request) (Draft, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		rest.WriteJSONError(w, http.StatusBadRequest, "could not read request body")
		return Draft{}, false
	}

	d, err := DecodeDraft(body)
	if err != nil {
		var fe FieldErrors
		if errors.As(err, &fe) {
			rest.WriteFieldErrors(w, "listing payload does not match schema", fe)
			return Draft{}, false
		}
		rest.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return Draft{}, false
	}
	return d, true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var fe FieldErrors
	switch {
	case errors.As(err, &fe):
		rest.WriteFieldErrors(w, "listing is invalid", fe)
	case errors.Is(err, ErrNotFound):
		rest.WriteJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrVersionChanged):
		rest.WriteJSONError(w, http.StatusConflict, err.Error())
	default:
		logger.FromContext(r.Context()).Error("Listing request failed", err, nil)
		rest.WriteJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		rest.WriteJSONError(w, http.StatusBadRequest, "invalid listing ID")
		return uuid.Nil, false
	}
	return id, true
}
