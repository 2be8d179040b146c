// Package workflow implements the booking state machine over the
// repository layer. A booking moves PENDING -> CONFIRMED or
// CANCELLED; both end states are terminal. Every transition runs in
// one database transaction that locks the booking row and then the
// lot's slot vector, so a booking can never read CONFIRMED without a
// claimed slot or vice versa, and first-vacant-then-claim is a single
// critical section per lot.
package workflow

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/parkwise/parking-reservation/internal/ledger"
	"github.com/parkwise/parking-reservation/internal/model"
	"github.com/parkwise/parking-reservation/internal/queue"
	"github.com/parkwise/parking-reservation/internal/reconcile"
	"github.com/parkwise/parking-reservation/internal/repository"
)

// ErrLotFull signals that every slot of the lot is occupied. A
// confirm that hits it leaves the booking PENDING and occupancy
// untouched; the admin is told explicitly instead of being left with
// silently stale state.
var ErrLotFull = errors.New("lot is full")

// ErrNotPending is returned when confirming a booking that has
// already reached a terminal state.
var ErrNotPending = errors.New("booking is not pending")

// ErrAlreadyCancelled is returned when cancelling or deleting an
// already cancelled booking; there is no resurrecting one.
var ErrAlreadyCancelled = errors.New("booking already cancelled")

// ErrSlotClaimed is returned when an admin tries to manually vacate a
// slot held by a confirmed booking. The booking must be cancelled
// instead so the two facts stay in sync.
var ErrSlotClaimed = errors.New("slot is claimed by a confirmed booking")

// CanConfirm reports whether a booking in the given status may be
// confirmed.
func CanConfirm(status string) bool { return status == model.BookingPending }

// CanCancel reports whether a booking in the given status may be
// cancelled or deleted.
func CanCancel(status string) bool { return status != model.BookingCancelled }

// PublishFunc sends one transition event to the broker. The workflow
// calls it exactly once per transition, after commit; delivery
// failures are logged and dropped rather than failing the request.
type PublishFunc func(ctx context.Context, ev queue.BookingEvent) error

// Workflow bundles the repositories and side-effect sinks a booking
// transition touches. publish and overrides may be nil (tests,
// degraded deployments); the state machine itself never is.
type Workflow struct {
	db        *sql.DB
	lots      *repository.LotRepo
	slots     *repository.SlotRepo
	bookings  *repository.BookingRepo
	publish   PublishFunc
	overrides *reconcile.OverrideStore
}

// New constructs a Workflow. The repositories must be non-nil.
func New(db *sql.DB, lots *repository.LotRepo, slots *repository.SlotRepo, bookings *repository.BookingRepo, publish PublishFunc, overrides *reconcile.OverrideStore) *Workflow {
	if db == nil || lots == nil || slots == nil || bookings == nil {
		panic("nil dependency passed to workflow.New")
	}
	return &Workflow{db: db, lots: lots, slots: slots, bookings: bookings, publish: publish, overrides: overrides}
}

// RequestInput carries the user-supplied fields of a booking request.
type RequestInput struct {
	LotID       uint64
	ReserveDate string
	TimeIn      string
	TimeOut     string
	VehicleType string
}

// Request validates and prices a booking request and creates it in
// PENDING state. A full lot still accepts the request; vacancy is
// enforced at confirm time. Nothing is written when validation fails.
func (w *Workflow) Request(ctx context.Context, user model.User, in RequestInput) (*model.Booking, error) {
	lot, err := w.lots.GetByID(ctx, in.LotID)
	if err != nil {
		return nil, err
	}
	if in.VehicleType == "" {
		return nil, ErrMissingField
	}
	quote, err := QuoteBooking(in.ReserveDate, in.TimeIn, in.TimeOut, lot.HourlyRateCents)
	if err != nil {
		return nil, err
	}
	b := &model.Booking{
		UserID:          user.ID,
		LotID:           lot.ID,
		ReserveDate:     in.ReserveDate,
		TimeIn:          in.TimeIn,
		TimeOut:         in.TimeOut,
		VehicleType:     in.VehicleType,
		DurationHours:   quote.DurationHours,
		TotalPriceCents: quote.TotalPriceCents,
		Status:          model.BookingPending,
	}
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	if err := w.bookings.CreateTx(ctx, tx, b); err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	w.emit(ctx, queue.KindRequested, b, lot, user.FirstName)
	return b, nil
}

// Confirm transitions a PENDING booking to CONFIRMED, claiming the
// lowest-numbered vacant slot of its lot. Booking status and slot
// occupancy commit together; on ErrLotFull nothing changes.
func (w *Workflow) Confirm(ctx context.Context, bookingID, adminID uint64) (*model.Booking, error) {
	var confirmed *model.Booking
	var lot *model.ParkingLot
	err := w.inTx(ctx, func(tx *sql.Tx) error {
		b, err := w.bookings.GetByIDTx(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		lot, err = w.lots.GetByIDTx(ctx, tx, b.LotID)
		if err != nil {
			return err
		}
		if lot.OwnerID != adminID {
			return repository.ErrForbidden
		}
		if !CanConfirm(b.Status) {
			return ErrNotPending
		}
		vec, err := w.loadSyncedVector(ctx, tx, lot)
		if err != nil {
			return err
		}
		n, err := vec.FirstVacant()
		if err != nil {
			if errors.Is(err, ledger.ErrNoVacancy) {
				return ErrLotFull
			}
			return err
		}
		if err := vec.Claim(n, b.ID); err != nil {
			return err
		}
		if err := w.slots.UpdateOccupancyTx(ctx, tx, lot.ID, n, true, &b.ID); err != nil {
			return err
		}
		if err := w.bookings.UpdateStatusTx(ctx, tx, b.ID, model.BookingConfirmed, &n); err != nil {
			return err
		}
		b.Status = model.BookingConfirmed
		b.SlotNumber = &n
		confirmed = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	w.overrides.Record(ctx, confirmed.LotID, confirmed.ID, model.BookingConfirmed)
	w.emit(ctx, queue.KindConfirmed, confirmed, lot, "")
	return confirmed, nil
}

// Cancel transitions a booking to CANCELLED (or removes it entirely
// when hard is true). A confirmed booking's slot is released in the
// same transaction as the status change. Users may cancel their own
// bookings; admins may cancel bookings of their lot.
func (w *Workflow) Cancel(ctx context.Context, bookingID uint64, actor model.User, hard bool) (*model.Booking, error) {
	var cancelled *model.Booking
	var lot *model.ParkingLot
	err := w.inTx(ctx, func(tx *sql.Tx) error {
		b, err := w.bookings.GetByIDTx(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		lot, err = w.lots.GetByIDTx(ctx, tx, b.LotID)
		if err != nil {
			return err
		}
		switch actor.Role {
		case model.RoleAdmin:
			if lot.OwnerID != actor.ID {
				return repository.ErrForbidden
			}
		default:
			if b.UserID != actor.ID {
				return repository.ErrForbidden
			}
		}
		if !CanCancel(b.Status) {
			return ErrAlreadyCancelled
		}
		if b.Status == model.BookingConfirmed && b.SlotNumber != nil {
			if err := w.slots.UpdateOccupancyTx(ctx, tx, lot.ID, *b.SlotNumber, false, nil); err != nil {
				return err
			}
		}
		if hard {
			if err := w.bookings.DeleteTx(ctx, tx, b.ID); err != nil {
				return err
			}
		} else {
			if err := w.bookings.UpdateStatusTx(ctx, tx, b.ID, model.BookingCancelled, nil); err != nil {
				return err
			}
		}
		b.Status = model.BookingCancelled
		b.SlotNumber = nil
		cancelled = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	if hard {
		w.overrides.Forget(ctx, cancelled.LotID, cancelled.ID)
	} else {
		w.overrides.Record(ctx, cancelled.LotID, cancelled.ID, model.BookingCancelled)
	}
	w.emit(ctx, queue.KindCancelled, cancelled, lot, "")
	return cancelled, nil
}

// ResizeLot updates a lot's display fields and capacity, resizing its
// slot ledger in the same transaction. Shrinking below the number of
// occupied slots fails with ledger.ErrCapacityConflict and changes
// nothing.
func (w *Workflow) ResizeLot(ctx context.Context, adminID uint64, name string, address *string, hourlyRateCents uint32, newCapacity uint32) (*model.ParkingLot, error) {
	var updated *model.ParkingLot
	err := w.inTx(ctx, func(tx *sql.Tx) error {
		lot, err := w.lots.GetByOwner(ctx, adminID)
		if err != nil {
			return err
		}
		lot, err = w.lots.GetByIDTx(ctx, tx, lot.ID)
		if err != nil {
			return err
		}
		vec, err := w.slots.LoadVectorTx(ctx, tx, lot.ID)
		if err != nil {
			return err
		}
		plan, err := vec.Resize(newCapacity)
		if err != nil {
			return err
		}
		if err := w.slots.ApplyResizeTx(ctx, tx, lot.ID, plan); err != nil {
			return err
		}
		if name != "" {
			lot.Name = name
		}
		if address != nil {
			lot.Address = address
		}
		if hourlyRateCents > 0 {
			lot.HourlyRateCents = hourlyRateCents
		}
		lot.Capacity = newCapacity
		if err := w.lots.UpdateTx(ctx, tx, lot); err != nil {
			return err
		}
		updated = lot
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetSlotOccupancy is the admin's manual toggle for walk-in traffic.
// Slots claimed by a confirmed booking cannot be toggled; the booking
// has to be cancelled so the claim is released with it.
func (w *Workflow) SetSlotOccupancy(ctx context.Context, adminID uint64, slotNumber uint32, occupied bool) error {
	return w.inTx(ctx, func(tx *sql.Tx) error {
		lot, err := w.lots.GetByOwner(ctx, adminID)
		if err != nil {
			return err
		}
		lot, err = w.lots.GetByIDTx(ctx, tx, lot.ID)
		if err != nil {
			return err
		}
		vec, err := w.loadSyncedVector(ctx, tx, lot)
		if err != nil {
			return err
		}
		holder, err := vec.Holder(slotNumber)
		if err != nil {
			return err
		}
		if holder != nil {
			return ErrSlotClaimed
		}
		if err := vec.SetOccupancy(slotNumber, occupied); err != nil {
			return err
		}
		return w.slots.UpdateOccupancyTx(ctx, tx, lot.ID, slotNumber, occupied, nil)
	})
}

// loadSyncedVector loads a lot's occupancy vector and heals any drift
// between the stored slot rows and the lot's capacity by applying the
// resize plan inside the same transaction. This is what makes slot
// initialization idempotent: a lot with missing or surplus vacant
// rows converges instead of erroring.
func (w *Workflow) loadSyncedVector(ctx context.Context, tx *sql.Tx, lot *model.ParkingLot) (*ledger.Vector, error) {
	vec, err := w.slots.LoadVectorTx(ctx, tx, lot.ID)
	if err != nil {
		return nil, err
	}
	if vec.Capacity() != lot.Capacity {
		plan, err := vec.Resize(lot.Capacity)
		if err != nil {
			return nil, err
		}
		if err := w.slots.ApplyResizeTx(ctx, tx, lot.ID, plan); err != nil {
			return nil, err
		}
	}
	return vec, nil
}

func (w *Workflow) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (w *Workflow) emit(ctx context.Context, kind string, b *model.Booking, lot *model.ParkingLot, userName string) {
	if w.publish == nil {
		return
	}
	ev := queue.BookingEvent{
		Kind:            kind,
		BookingID:       b.ID,
		UserID:          b.UserID,
		UserName:        userName,
		AdminID:         lot.OwnerID,
		LotID:           lot.ID,
		LotName:         lot.Name,
		ReserveDate:     b.ReserveDate,
		TimeIn:          b.TimeIn,
		TimeOut:         b.TimeOut,
		SlotNumber:      b.SlotNumber,
		TotalPriceCents: b.TotalPriceCents,
		OccurredAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if err := w.publish(ctx, ev); err != nil {
		log.Printf("workflow: publish %s for booking %d failed: %v", kind, b.ID, err)
	}
}
