package repository // repository for slot persistence

import (
	"context"
	"database/sql"

	"github.com/parkwise/parking-reservation/internal/ledger"
	"github.com/parkwise/parking-reservation/internal/model"
)

// SlotRepo encapsulates database operations for slots. All mutation
// goes through a ledger.Vector loaded under a row lock: LoadVectorTx
// locks the lot's slot rows, the caller mutates the vector, and the
// Apply/Update helpers persist the outcome before the transaction
// commits. No other component flips occupancy bits directly.
type SlotRepo struct {
	db *sql.DB
}

// NewSlotRepo constructs a SlotRepo given a DB handle.
func NewSlotRepo(db *sql.DB) *SlotRepo {
	return &SlotRepo{db: db}
}

// LoadVectorTx reads every slot of a lot inside the transaction with
// FOR UPDATE, serializing concurrent occupancy changes per lot. The
// rows come back as an occupancy vector ordered by slot number.
func (r *SlotRepo) LoadVectorTx(ctx context.Context, tx *sql.Tx, lotID uint64) (*ledger.Vector, error) {
	const q = `SELECT slot_number, status, booking_id
	           FROM slots
	           WHERE lot_id = ?
	           ORDER BY slot_number
	           FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, lotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []ledger.Slot
	for rows.Next() {
		var s ledger.Slot
		var status string
		var bookingID sql.NullInt64
		if err := rows.Scan(&s.Number, &status, &bookingID); err != nil {
			return nil, err
		}
		s.Occupied = status == model.SlotOccupied
		if bookingID.Valid {
			id := uint64(bookingID.Int64)
			s.BookingID = &id
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ledger.FromSlots(slots)
}

// ApplyResizeTx persists a resize plan: added numbers are inserted
// vacant, removed numbers are deleted. Both halves run in the given
// transaction so a partial resize can never commit.
func (r *SlotRepo) ApplyResizeTx(ctx context.Context, tx *sql.Tx, lotID uint64, plan ledger.ResizePlan) error {
	if len(plan.Added) > 0 {
		query := `INSERT INTO slots (lot_id, slot_number, status) VALUES `
		args := make([]interface{}, 0, len(plan.Added)*3)
		for i, n := range plan.Added {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?)"
			args = append(args, lotID, n, model.SlotVacant)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	if len(plan.Removed) > 0 {
		query := `DELETE FROM slots WHERE lot_id = ? AND slot_number IN (`
		args := make([]interface{}, 0, len(plan.Removed)+1)
		args = append(args, lotID)
		for i, n := range plan.Removed {
			if i > 0 {
				query += ","
			}
			query += "?"
			args = append(args, n)
		}
		query += ")"
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	return nil
}

// UpdateOccupancyTx writes one slot's occupancy state and booking
// claim. bookingID must be nil when occupied is false.
func (r *SlotRepo) UpdateOccupancyTx(ctx context.Context, tx *sql.Tx, lotID uint64, number uint32, occupied bool, bookingID *uint64) error {
	status := model.SlotVacant
	if occupied {
		status = model.SlotOccupied
	}
	const q = `UPDATE slots
	           SET status = ?, booking_id = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE lot_id = ? AND slot_number = ?`
	res, err := tx.ExecContext(ctx, q, status, bookingID, lotID, number)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrSlotNotFound
	}
	return nil
}

// ListByLot retrieves all slots of a lot ordered by slot_number for
// the read path. No locks are taken; readers go through the
// reconciliation layer instead.
func (r *SlotRepo) ListByLot(ctx context.Context, lotID uint64) ([]model.Slot, error) {
	const q = `SELECT id, lot_id, slot_number, status, booking_id, created_at, updated_at
	           FROM slots
	           WHERE lot_id = ?
	           ORDER BY slot_number`
	rows, err := r.db.QueryContext(ctx, q, lotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Slot
	for rows.Next() {
		var s model.Slot
		var bookingID sql.NullInt64
		if err := rows.Scan(&s.ID, &s.LotID, &s.SlotNumber, &s.Status,
			&bookingID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		if bookingID.Valid {
			id := uint64(bookingID.Int64)
			s.BookingID = &id
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
