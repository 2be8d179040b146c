package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/parkwise/parking-reservation/internal/model"
)

// BookingRepo provides CRUD operations for bookings. Status
// transitions always run inside a transaction with the booking row
// locked first, so a confirm observed by one reader can never be
// overtaken by a later cancel on the same booking.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, user_id, lot_id, reserve_date, time_in, time_out, vehicle_type,
	duration_hours, total_price_cents, status, slot_number, created_at, updated_at`

// CreateTx inserts a new booking within the scope of an existing
// transaction and populates the generated ID. Status should be
// PENDING; the workflow is the only caller.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings
	           (user_id, lot_id, reserve_date, time_in, time_out, vehicle_type,
	            duration_hours, total_price_cents, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, b.UserID, b.LotID, b.ReserveDate, b.TimeIn, b.TimeOut,
		b.VehicleType, b.DurationHours, b.TotalPriceCents, b.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// GetByIDTx loads a booking with its row locked. Transitions lock
// the booking before the lot's slot vector to keep lock order
// consistent across the workflow.
func (r *BookingRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ? FOR UPDATE`
	return scanBooking(tx.QueryRowContext(ctx, q, id))
}

// GetByID loads a booking without locking, for read-only handlers.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	q := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	return scanBooking(r.db.QueryRowContext(ctx, q, id))
}

// UpdateStatusTx writes a booking's status and slot claim as one
// statement. Passing a nil slotNumber clears the claim.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string, slotNumber *uint32) error {
	const q = `UPDATE bookings
	           SET status = ?, slot_number = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, status, slotNumber, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// DeleteTx removes a booking record entirely. Notifications keep a
// nullable reference, so the FK is set null by the schema.
func (r *BookingRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// BookingDetail is a booking joined with its lot for display. It is
// what the list endpoints return to customers and admins.
type BookingDetail struct {
	ID              uint64  `json:"id"`
	UserID          uint64  `json:"user_id"`
	LotID           uint64  `json:"lot_id"`
	LotName         string  `json:"lot_name"`
	ReserveDate     string  `json:"reserve_date"`
	TimeIn          string  `json:"time_in"`
	TimeOut         string  `json:"time_out"`
	VehicleType     string  `json:"vehicle_type"`
	DurationHours   uint32  `json:"duration_hours"`
	TotalPriceCents uint64  `json:"total_price_cents"`
	Status          string  `json:"status"`
	SlotNumber      *uint32 `json:"slot_number,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

// ListByUser returns a user's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
	const q = `SELECT b.id, b.user_id, b.lot_id, l.name, b.reserve_date, b.time_in, b.time_out,
	                  b.vehicle_type, b.duration_hours, b.total_price_cents, b.status,
	                  b.slot_number, b.created_at
	           FROM bookings b
	           JOIN parking_lots l ON l.id = b.lot_id
	           WHERE b.user_id = ?
	           ORDER BY b.created_at DESC, b.id DESC`
	return r.listDetails(ctx, q, userID)
}

// ListByLotForOwner returns every booking of a lot when accessed by
// its admin. It verifies ownership first and returns ErrForbidden
// when the lot belongs to someone else.
func (r *BookingRepo) ListByLotForOwner(ctx context.Context, lotID, ownerID uint64) ([]BookingDetail, error) {
	var actualOwner uint64
	err := r.db.QueryRowContext(ctx, `SELECT owner_id FROM parking_lots WHERE id = ?`, lotID).Scan(&actualOwner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLotNotFound
		}
		return nil, err
	}
	if actualOwner != ownerID {
		return nil, ErrForbidden
	}
	const q = `SELECT b.id, b.user_id, b.lot_id, l.name, b.reserve_date, b.time_in, b.time_out,
	                  b.vehicle_type, b.duration_hours, b.total_price_cents, b.status,
	                  b.slot_number, b.created_at
	           FROM bookings b
	           JOIN parking_lots l ON l.id = b.lot_id
	           WHERE b.lot_id = ?
	           ORDER BY b.created_at DESC, b.id DESC`
	return r.listDetails(ctx, q, lotID)
}

func (r *BookingRepo) listDetails(ctx context.Context, q string, arg uint64) ([]BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]BookingDetail, 0)
	for rows.Next() {
		var d BookingDetail
		var slot sql.NullInt64
		if err := rows.Scan(&d.ID, &d.UserID, &d.LotID, &d.LotName, &d.ReserveDate,
			&d.TimeIn, &d.TimeOut, &d.VehicleType, &d.DurationHours,
			&d.TotalPriceCents, &d.Status, &slot, &d.CreatedAt); err != nil {
			return nil, err
		}
		if slot.Valid {
			n := uint32(slot.Int64)
			d.SlotNumber = &n
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

func scanBooking(row *sql.Row) (*model.Booking, error) {
	var b model.Booking
	var slot sql.NullInt64
	err := row.Scan(&b.ID, &b.UserID, &b.LotID, &b.ReserveDate, &b.TimeIn, &b.TimeOut,
		&b.VehicleType, &b.DurationHours, &b.TotalPriceCents, &b.Status,
		&slot, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if slot.Valid {
		n := uint32(slot.Int64)
		b.SlotNumber = &n
	}
	return &b, nil
}
