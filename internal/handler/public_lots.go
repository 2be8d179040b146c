package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/parkwise/parking-reservation/internal/ledger"
	"github.com/parkwise/parking-reservation/internal/model"
	"github.com/parkwise/parking-reservation/internal/reconcile"
	"github.com/parkwise/parking-reservation/internal/repository"
)

// PublicLotHandler serves the unauthenticated lot browsing endpoints.
type PublicLotHandler struct {
	Lots  *repository.LotRepo
	Slots *repository.SlotRepo
}

func NewPublicLotHandler(lots *repository.LotRepo, slots *repository.SlotRepo) *PublicLotHandler {
	return &PublicLotHandler{Lots: lots, Slots: slots}
}

type lotView struct {
	ID              uint64  `json:"id"`
	Name            string  `json:"name"`
	Address         *string `json:"address"`
	Capacity        uint32  `json:"capacity"`
	HourlyRateCents uint32  `json:"hourly_rate_cents"`
}

type slotView struct {
	Number   uint32 `json:"number"`
	Status   string `json:"status"`
	HasClaim bool   `json:"has_claim"`
}

func toLotView(l *model.ParkingLot) lotView {
	return lotView{ID: l.ID, Name: l.Name, Address: l.Address, Capacity: l.Capacity, HourlyRateCents: l.HourlyRateCents}
}

// List returns every lot. GET /v1/lots
func (h *PublicLotHandler) List(c echo.Context) error {
	lots, err := h.Lots.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]lotView, 0, len(lots))
	for i := range lots {
		out = append(out, toLotView(&lots[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"lots": out})
}

// Get returns one lot. GET /v1/lots/:id
func (h *PublicLotHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lot id"})
	}
	lot, err := h.Lots.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, repository.ErrLotNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toLotView(lot))
}

// LotSlots returns the occupancy map of a lot's slots, padded to the
// lot's declared capacity so a freshly resized lot always shows a
// complete 1..capacity range. GET /v1/lots/:id/slots
func (h *PublicLotHandler) LotSlots(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lot id"})
	}
	ctx := c.Request().Context()
	lot, err := h.Lots.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, repository.ErrLotNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	rows, err := h.Slots.ListByLot(ctx, lot.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	slots := make([]ledger.Slot, 0, len(rows))
	for _, s := range rows {
		ls := ledger.Slot{Number: s.SlotNumber, Occupied: s.Status == model.SlotOccupied, BookingID: s.BookingID}
		slots = append(slots, ls)
	}
	padded := reconcile.PadSlots(slots, lot.Capacity)

	var occupied uint32
	views := make([]slotView, 0, len(padded))
	for _, s := range padded {
		status := model.SlotVacant
		if s.Occupied {
			status = model.SlotOccupied
			occupied++
		}
		views = append(views, slotView{Number: s.Number, Status: status, HasClaim: s.BookingID != nil})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"lot_id":   lot.ID,
		"capacity": lot.Capacity,
		"occupied": occupied,
		"vacant":   uint32(len(padded)) - occupied,
		"slots":    views,
	})
}
