package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/parkwise/parking-reservation/internal/model"
	"github.com/parkwise/parking-reservation/internal/reconcile"
	"github.com/parkwise/parking-reservation/internal/repository"
	"github.com/parkwise/parking-reservation/internal/workflow"
)

// CustomerBookingHandler serves the user-facing booking endpoints.
// List endpoints return the merged view: the database snapshot with
// locally recorded terminal outcomes layered on top, so a user who
// just got confirmed sees CONFIRMED even when reading a lagging
// replica.
type CustomerBookingHandler struct {
	Flow      *workflow.Workflow
	Users     *repository.UserRepo
	Bookings  *repository.BookingRepo
	Overrides *reconcile.OverrideStore
}

func NewCustomerBookingHandler(flow *workflow.Workflow, users *repository.UserRepo, bookings *repository.BookingRepo, overrides *reconcile.OverrideStore) *CustomerBookingHandler {
	return &CustomerBookingHandler{Flow: flow, Users: users, Bookings: bookings, Overrides: overrides}
}

type createBookingReq struct {
	LotID       uint64 `json:"lot_id"`
	ReserveDate string `json:"reserve_date"`
	TimeIn      string `json:"time_in"`
	TimeOut     string `json:"time_out"`
	VehicleType string `json:"vehicle_type"`
}

// bookingView is the JSON shape of a single booking returned by the
// mutation endpoints. List endpoints return repository.BookingDetail,
// which additionally carries the lot name.
type bookingView struct {
	ID              uint64  `json:"id"`
	UserID          uint64  `json:"user_id"`
	LotID           uint64  `json:"lot_id"`
	ReserveDate     string  `json:"reserve_date"`
	TimeIn          string  `json:"time_in"`
	TimeOut         string  `json:"time_out"`
	VehicleType     string  `json:"vehicle_type"`
	DurationHours   uint32  `json:"duration_hours"`
	TotalPriceCents uint64  `json:"total_price_cents"`
	Status          string  `json:"status"`
	SlotNumber      *uint32 `json:"slot_number,omitempty"`
}

func toBookingView(b *model.Booking) bookingView {
	return bookingView{
		ID:              b.ID,
		UserID:          b.UserID,
		LotID:           b.LotID,
		ReserveDate:     b.ReserveDate,
		TimeIn:          b.TimeIn,
		TimeOut:         b.TimeOut,
		VehicleType:     b.VehicleType,
		DurationHours:   b.DurationHours,
		TotalPriceCents: b.TotalPriceCents,
		Status:          b.Status,
		SlotNumber:      b.SlotNumber,
	}
}

// Create validates and prices a booking request and stores it PENDING.
// POST /v1/bookings
func (h *CustomerBookingHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.LotID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "lot_id required"})
	}
	ctx := c.Request().Context()
	user, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	b, err := h.Flow.Request(ctx, user, workflow.RequestInput{
		LotID:       req.LotID,
		ReserveDate: req.ReserveDate,
		TimeIn:      req.TimeIn,
		TimeOut:     req.TimeOut,
		VehicleType: req.VehicleType,
	})
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows), errors.Is(err, repository.ErrLotNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lot not found"})
		case errors.Is(err, workflow.ErrMissingField),
			errors.Is(err, workflow.ErrBadDate),
			errors.Is(err, workflow.ErrBadTime),
			errors.Is(err, workflow.ErrBadTimeRange),
			errors.Is(err, workflow.ErrTooShort):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}
	return c.JSON(http.StatusCreated, toBookingView(b))
}

// List returns the caller's bookings merged with local overrides.
// GET /v1/bookings
func (h *CustomerBookingHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	details, err := h.Bookings.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	lotIDs := make([]uint64, 0, len(details))
	for _, d := range details {
		lotIDs = append(lotIDs, d.LotID)
	}
	overrides, stale := h.Overrides.ByLots(ctx, lotIDs)
	merged := reconcile.MergeBookings(details, overrides)
	return c.JSON(http.StatusOK, echo.Map{"bookings": merged, "stale": stale})
}

// Get returns one booking owned by the caller. GET /v1/bookings/:id
func (h *CustomerBookingHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Bookings.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if b.UserID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, toBookingView(b))
}

// Cancel moves the caller's booking to CANCELLED, releasing its slot
// when it was confirmed. POST /v1/bookings/:id/cancel
func (h *CustomerBookingHandler) Cancel(c echo.Context) error {
	return h.cancel(c, false)
}

// Delete removes the booking row entirely, releasing its slot when it
// was confirmed. DELETE /v1/bookings/:id
func (h *CustomerBookingHandler) Delete(c echo.Context) error {
	return h.cancel(c, true)
}

func (h *CustomerBookingHandler) cancel(c echo.Context, hard bool) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	actor := model.User{ID: uid, Role: getRole(c)}
	b, err := h.Flow.Cancel(c.Request().Context(), id, actor, hard)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows), errors.Is(err, repository.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, workflow.ErrAlreadyCancelled):
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking already cancelled"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	if hard {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, toBookingView(b))
}
