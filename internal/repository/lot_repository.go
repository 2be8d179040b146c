package repository // repository defines data access for parking lots

import (
	"context"
	"database/sql"
	"errors"

	"github.com/parkwise/parking-reservation/internal/model"
)

// LotRepo provides methods to work with parking lots in the database.
type LotRepo struct {
	db *sql.DB
}

// NewLotRepo constructs a LotRepo with the given DB handle.
func NewLotRepo(db *sql.DB) *LotRepo {
	return &LotRepo{db: db}
}

// CreateTx inserts a lot within an existing transaction and populates
// its generated ID. Used at admin registration so the account, the
// lot and its initial slots commit together.
func (r *LotRepo) CreateTx(ctx context.Context, tx *sql.Tx, l *model.ParkingLot) error {
	const q = `INSERT INTO parking_lots (owner_id, name, address, capacity, hourly_rate_cents)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, l.OwnerID, l.Name, l.Address, l.Capacity, l.HourlyRateCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	return nil
}

// GetByID retrieves a lot by its id (no ownership check).
func (r *LotRepo) GetByID(ctx context.Context, id uint64) (*model.ParkingLot, error) {
	const q = `SELECT id, owner_id, name, address, capacity, hourly_rate_cents, created_at, updated_at
	           FROM parking_lots WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

// GetByIDTx is GetByID inside a transaction with the row locked, so
// capacity reads stay stable for the duration of a ledger mutation.
func (r *LotRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.ParkingLot, error) {
	const q = `SELECT id, owner_id, name, address, capacity, hourly_rate_cents, created_at, updated_at
	           FROM parking_lots WHERE id = ? FOR UPDATE`
	return r.scanOne(tx.QueryRowContext(ctx, q, id))
}

// GetByOwner returns the single lot managed by an admin, or
// ErrLotNotFound when the admin has none.
func (r *LotRepo) GetByOwner(ctx context.Context, ownerID uint64) (*model.ParkingLot, error) {
	const q = `SELECT id, owner_id, name, address, capacity, hourly_rate_cents, created_at, updated_at
	           FROM parking_lots WHERE owner_id = ? ORDER BY id LIMIT 1`
	return r.scanOne(r.db.QueryRowContext(ctx, q, ownerID))
}

// ListAll returns every lot ordered by name for the public browse
// endpoints.
func (r *LotRepo) ListAll(ctx context.Context) ([]model.ParkingLot, error) {
	const q = `SELECT id, owner_id, name, address, capacity, hourly_rate_cents, created_at, updated_at
	           FROM parking_lots ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.ParkingLot
	for rows.Next() {
		var l model.ParkingLot
		var addr sql.NullString
		if err := rows.Scan(&l.ID, &l.OwnerID, &l.Name, &addr, &l.Capacity,
			&l.HourlyRateCents, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		if addr.Valid {
			a := addr.String
			l.Address = &a
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateTx updates name, address, rate and capacity within a
// transaction. Capacity changes must go through the slot ledger in
// the same transaction; callers use workflow.ResizeLot rather than
// calling this directly.
func (r *LotRepo) UpdateTx(ctx context.Context, tx *sql.Tx, l *model.ParkingLot) error {
	const q = `UPDATE parking_lots
	           SET name = ?, address = ?, capacity = ?, hourly_rate_cents = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, l.Name, l.Address, l.Capacity, l.HourlyRateCents, l.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLotNotFound
	}
	return nil
}

func (r *LotRepo) scanOne(row *sql.Row) (*model.ParkingLot, error) {
	var l model.ParkingLot
	var addr sql.NullString
	err := row.Scan(&l.ID, &l.OwnerID, &l.Name, &addr, &l.Capacity,
		&l.HourlyRateCents, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLotNotFound
		}
		return nil, err
	}
	if addr.Valid {
		a := addr.String
		l.Address = &a
	}
	return &l, nil
}
