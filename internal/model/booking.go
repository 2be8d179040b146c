package model

import "time"

// Booking lifecycle states.  PENDING is the initial state; CONFIRMED
// and CANCELLED are terminal.  A cancelled booking is never revived.
const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
)

// Booking records a user's reservation request for a lot over a time
// window on a given date.  Duration and price are computed once at
// request time and stored.  A confirmed booking holds a claim on
// exactly one slot of its lot; cancelling (or deleting) a confirmed
// booking releases that claim.
//
// Fields:
//  ID              – primary key identifier.
//  UserID          – user who made the booking.
//  LotID           – lot being booked.
//  ReserveDate     – calendar date of the reservation (YYYY-MM-DD).
//  TimeIn          – start of the window ("15:04", 24h clock).
//  TimeOut         – end of the window; must be after TimeIn.
//  VehicleType     – free-form vehicle class (Car, Motorcycle, ...).
//  DurationHours   – whole hours between TimeIn and TimeOut.
//  TotalPriceCents – DurationHours × lot hourly rate, in cents.
//  Status          – PENDING, CONFIRMED or CANCELLED.
//  SlotNumber      – slot claimed while CONFIRMED (nil otherwise).
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Booking struct {
	ID              uint64    // bookings.id
	UserID          uint64    // bookings.user_id
	LotID           uint64    // bookings.lot_id
	ReserveDate     string    // bookings.reserve_date
	TimeIn          string    // bookings.time_in
	TimeOut         string    // bookings.time_out
	VehicleType     string    // bookings.vehicle_type
	DurationHours   uint32    // bookings.duration_hours
	TotalPriceCents uint64    // bookings.total_price_cents
	Status          string    // bookings.status
	SlotNumber      *uint32   // bookings.slot_number (nullable)
	CreatedAt       time.Time // bookings.created_at
	UpdatedAt       time.Time // bookings.updated_at
}
