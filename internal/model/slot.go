package model

import "time"

// Slot occupancy states persisted in slots.status.  There are only
// two: a slot is either free or claimed by exactly one confirmed
// booking.  Maintenance or reserved-but-unconfirmed states are not
// modelled; they are represented by bookings, not slots.
const (
	SlotVacant   = "VACANT"
	SlotOccupied = "OCCUPIED"
)

// Slot describes one unit of parking capacity inside a lot.  Slots
// are numbered 1..capacity and the numbers form a contiguous range
// with no gaps.  An occupied slot carries a reference to the
// confirmed booking holding it.
//
// Fields:
//  ID         – primary key identifier.
//  LotID      – lot to which this slot belongs.
//  SlotNumber – position within the lot (1-based, unique per lot).
//  Status     – VACANT or OCCUPIED.
//  BookingID  – booking currently occupying the slot (nil when vacant).
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Slot struct {
	ID         uint64    // slots.id
	LotID      uint64    // slots.lot_id
	SlotNumber uint32    // slots.slot_number
	Status     string    // slots.status
	BookingID  *uint64   // slots.booking_id (nullable)
	CreatedAt  time.Time // slots.created_at
	UpdatedAt  time.Time // slots.updated_at
}
