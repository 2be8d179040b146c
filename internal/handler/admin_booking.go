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

// AdminBookingHandler serves the owner-scoped booking endpoints:
// listing a lot's bookings and driving the PENDING → CONFIRMED /
// CANCELLED transitions.
type AdminBookingHandler struct {
	Flow      *workflow.Workflow
	Lots      *repository.LotRepo
	Bookings  *repository.BookingRepo
	Overrides *reconcile.OverrideStore
}

func NewAdminBookingHandler(flow *workflow.Workflow, lots *repository.LotRepo, bookings *repository.BookingRepo, overrides *reconcile.OverrideStore) *AdminBookingHandler {
	return &AdminBookingHandler{Flow: flow, Lots: lots, Bookings: bookings, Overrides: overrides}
}

// List returns every booking of the caller's lot, merged with local
// overrides. GET /v1/admin/bookings
func (h *AdminBookingHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	lot, err := h.Lots.GetByOwner(ctx, uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, repository.ErrLotNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	details, err := h.Bookings.ListByLotForOwner(ctx, lot.ID, uid)
	if err != nil {
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	overrides, stale := h.Overrides.ByLot(ctx, lot.ID)
	merged := reconcile.MergeBookings(details, overrides)
	return c.JSON(http.StatusOK, echo.Map{"bookings": merged, "stale": stale})
}

// Confirm transitions a PENDING booking of the caller's lot to
// CONFIRMED, claiming the lowest-numbered vacant slot. A full lot is
// reported as a conflict and nothing changes.
// POST /v1/admin/bookings/:id/confirm
func (h *AdminBookingHandler) Confirm(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	b, err := h.Flow.Confirm(c.Request().Context(), id, uid)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows), errors.Is(err, repository.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, workflow.ErrNotPending):
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not pending"})
		case errors.Is(err, workflow.ErrLotFull):
			return c.JSON(http.StatusConflict, echo.Map{"error": "lot is full"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "confirm failed"})
	}
	return c.JSON(http.StatusOK, toBookingView(b))
}

// Cancel transitions a booking of the caller's lot to CANCELLED,
// releasing its slot when confirmed. POST /v1/admin/bookings/:id/cancel
func (h *AdminBookingHandler) Cancel(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	actor := model.User{ID: uid, Role: model.RoleAdmin}
	b, err := h.Flow.Cancel(c.Request().Context(), id, actor, false)
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
	return c.JSON(http.StatusOK, toBookingView(b))
}
