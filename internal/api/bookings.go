package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/erazemk/izposoja/internal/model"
	"github.com/erazemk/izposoja/internal/service"
)

// BookingsHandler handles booking endpoints.
type BookingsHandler struct {
	Svc *service.Service
	V   *validator.Validate
}

type createBookingRequest struct {
	ItemID int64     `json:"item_id" validate:"required,gt=0"`
	Start  time.Time `json:"start" validate:"required"`
	End    time.Time `json:"end" validate:"required"`
}

// Create handles POST /bookings.
func (h *BookingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.V.Struct(req); err != nil {
		jsonError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	now := h.Svc.Now()
	if !req.Start.After(now) || !req.End.After(now) {
		jsonError(w, http.StatusBadRequest, "start and end must be in the future")
		return
	}

	bookerID := GetUserID(r.Context())
	booking, err := h.Svc.CreateBooking(r.Context(), bookerID, model.NewBooking{
		ItemID: req.ItemID,
		Start:  req.Start,
		End:    req.End,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("booking created", "booking", booking.ID, "item", booking.ItemID, "booker", bookerID)
	jsonResponse(w, http.StatusOK, booking)
}

// Decide handles PATCH /bookings/{id}?approved=true|false.
func (h *BookingsHandler) Decide(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	approved, err := strconv.ParseBool(r.URL.Query().Get("approved"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "approved must be true or false")
		return
	}

	ownerID := GetUserID(r.Context())
	booking, err := h.Svc.DecideBooking(r.Context(), ownerID, id, approved)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("booking decided", "booking", booking.ID, "status", booking.Status, "owner", ownerID)
	jsonResponse(w, http.StatusOK, booking)
}

// Get handles GET /bookings/{id}.
func (h *BookingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	booking, err := h.Svc.GetBooking(r.Context(), GetUserID(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, booking)
}

// ListBooked handles GET /bookings: bookings made by the caller.
func (h *BookingsHandler) ListBooked(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, model.PerspectiveBooker)
}

// ListOwned handles GET /bookings/owner: bookings of the caller's items.
func (h *BookingsHandler) ListOwned(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, model.PerspectiveOwner)
}

func (h *BookingsHandler) list(w http.ResponseWriter, r *http.Request, perspective model.Perspective) {
	state, err := model.ParseState(r.URL.Query().Get("state"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "Unknown state: "+r.URL.Query().Get("state"))
		return
	}
	page, err := pageParams(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	bookings, err := h.Svc.ListBookings(r.Context(), GetUserID(r.Context()), state, page, perspective)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, bookings)
}
