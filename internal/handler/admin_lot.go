package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/parkwise/parking-reservation/internal/ledger"
	"github.com/parkwise/parking-reservation/internal/repository"
	"github.com/parkwise/parking-reservation/internal/workflow"
)

// AdminLotHandler serves the owner-scoped lot management endpoints.
// Every operation resolves the lot through the caller's user id, so
// an admin can only ever touch their own lot.
type AdminLotHandler struct {
	Flow *workflow.Workflow
	Lots *repository.LotRepo
}

func NewAdminLotHandler(flow *workflow.Workflow, lots *repository.LotRepo) *AdminLotHandler {
	return &AdminLotHandler{Flow: flow, Lots: lots}
}

type patchLotReq struct {
	Name            string  `json:"name"`
	Address         *string `json:"address"`
	HourlyRateCents uint32  `json:"hourly_rate_cents"`
	Capacity        uint32  `json:"capacity"`
}

type toggleSlotReq struct {
	Occupied *bool `json:"occupied"`
}

// Get returns the caller's lot. GET /v1/admin/lot
func (h *AdminLotHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	lot, err := h.Lots.GetByOwner(c.Request().Context(), uid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, repository.ErrLotNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toLotView(lot))
}

// Patch updates the lot's display fields and resizes its slot range.
// Shrinking below the number of occupied slots is refused and nothing
// changes. PATCH /v1/admin/lot
func (h *AdminLotHandler) Patch(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req patchLotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Capacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be positive"})
	}
	lot, err := h.Flow.ResizeLot(c.Request().Context(), uid, req.Name, req.Address, req.HourlyRateCents, req.Capacity)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows), errors.Is(err, repository.ErrLotNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lot not found"})
		case errors.Is(err, ledger.ErrCapacityConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "cannot shrink below occupied slots"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update lot failed"})
	}
	return c.JSON(http.StatusOK, toLotView(lot))
}

// ToggleSlot flips one slot between VACANT and OCCUPIED for walk-in
// traffic. Slots held by a confirmed booking are refused; the booking
// has to be cancelled instead. PATCH /v1/admin/lot/slots/:number
func (h *AdminLotHandler) ToggleSlot(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	number, err := pathID(c, "number")
	if err != nil || number == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot number"})
	}
	var req toggleSlotReq
	if err := c.Bind(&req); err != nil || req.Occupied == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "occupied required"})
	}
	err = h.Flow.SetSlotOccupancy(c.Request().Context(), uid, uint32(number), *req.Occupied)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows), errors.Is(err, repository.ErrLotNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lot not found"})
		case errors.Is(err, ledger.ErrSlotNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "slot not found"})
		case errors.Is(err, workflow.ErrSlotClaimed):
			return c.JSON(http.StatusConflict, echo.Map{"error": "slot is claimed by a confirmed booking"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update slot failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
