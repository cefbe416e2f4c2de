package booking

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"rentalhub/internal/logger"
	"rentalhub/internal/rest"
	"rentalhub/internal/search"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the booking endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/reservations", h.handleReserve)
	r.Get("/reservations/{id}", h.handleGet)
	r.Post("/reservations/{id}/cancel", h.handleCancel)
	r.Get("/listings/{id}/reservations", h.handleListForListing)
}

type reservationPayload struct {
	ListingID  uuid.UUID `json:"listing_id"`
	GuestName  string    `json:"guest_name"`
	GuestEmail string    `json:"guest_email"`
	Guests     int       `json:"guests"`
	CheckIn    string    `json:"check_in"`
	CheckOut   string    `json:"check_out"`
}

func (h *Handler) handleReserve(w http.ResponseWriter, r *http.Request) {
	var p reservationPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		rest.WriteJSONError(w, http.StatusBadRequest, "invalid reservation body")
		return
	}

	req := Request{
		ListingID:  p.ListingID,
		GuestName:  p.GuestName,
		GuestEmail: p.GuestEmail,
		Guests:     p.Guests,
	}
	dateErrs := map[string]string{}
	req.CheckIn = parseDate(p.CheckIn, search.ErrKeyCheckIn, dateErrs)
	req.CheckOut = parseDate(p.CheckOut, search.ErrKeyCheckOut, dateErrs)
	if len(dateErrs) > 0 {
		rest.WriteFieldErrors(w, "stay dates are invalid", dateErrs)
		return
	}

	res, err := h.service.Reserve(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rest.RespondWithJSON(w, http.StatusCreated, res)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "invalid reservation ID")
	if !ok {
		return
	}
	res, err := h.service.GetReservation(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rest.RespondWithJSON(w, http.StatusOK, res)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "invalid reservation ID")
	if !ok {
		return
	}
	res, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	rest.RespondWithJSON(w, http.StatusOK, res)
}

func (h *Handler) handleListForListing(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "invalid listing ID")
	if !ok {
		return
	}
	rs, err := h.service.ListForListing(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if rs == nil {
		rs = []Reservation{}
	}
	rest.RespondWithJSON(w, http.StatusOK, rs)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		stayErr *StayError
		fe      FieldErrors
	)
	switch {
	case errors.As(err, &stayErr):
		rest.WriteFieldErrors(w, "stay dates are invalid", stayErr.Errors)
	case errors.As(err, &fe):
		rest.WriteFieldErrors(w, "reservation request is invalid", fe)
	case errors.Is(err, ErrRateLimited):
		rest.WriteJSONError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, ErrListingUnavailable), errors.Is(err, ErrNotFound):
		rest.WriteJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDatesTaken), errors.Is(err, ErrAlreadyCancelled):
		rest.WriteJSONError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrCapacityExceeded):
		rest.WriteJSONError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		logger.FromContext(r.Context()).Error("Booking request failed", err, nil)
		rest.WriteJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}

func parseDate(raw, key string, errs map[string]string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(rest.DateLayout, raw)
	if err != nil {
		errs[key] = "Dates must use the YYYY-MM-DD format"
		return time.Time{}
	}
	return t
}

func parseID(w http.ResponseWriter, r *http.Request, msg string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		rest.WriteJSONError(w, http.StatusBadRequest, msg)
		return uuid.Nil, false
	}
	return id, true
}
