package model

import "time"

// ParkingLot represents a parking facility managed by a single admin
// user.  Every lot has a fixed number of numbered slots (its
// capacity) and a price charged per hour of parking.  This struct
// corresponds to a row in the `parking_lots` table.
//
// Fields:
//  ID              – primary key identifier.
//  OwnerID         – user ID of the lot's admin.
//  Name            – display name of the lot, unique per owner.
//  Address         – optional street address shown to users.
//  Capacity        – number of slots (positive; slots are numbered 1..Capacity).
//  HourlyRateCents – price per hour in cents.
//  CreatedAt       – timestamp when the lot was created.
//  UpdatedAt       – timestamp of last update.
type ParkingLot struct {
	ID              uint64    // parking_lots.id
	OwnerID         uint64    // parking_lots.owner_id
	Name            string    // parking_lots.name
	Address         *string   // parking_lots.address (nullable)
	Capacity        uint32    // parking_lots.capacity
	HourlyRateCents uint32    // parking_lots.hourly_rate_cents
	CreatedAt       time.Time // parking_lots.created_at
	UpdatedAt       time.Time // parking_lots.updated_at
}
