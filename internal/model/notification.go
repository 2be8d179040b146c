package model

import "time"

// Notification kinds emitted by booking workflow transitions.
const (
	NotifyBookingRequested = "booking-requested"
	NotifyBookingConfirmed = "booking-confirmed"
	NotifyBookingCancelled = "booking-cancelled"
)

// Notification is one entry in a recipient's inbox.  Notifications
// are created by the queue consumer when a booking transition event
// arrives and are mutated only by the recipient (mark read, delete).
//
// Fields:
//  ID            – primary key identifier.
//  RecipientID   – user the notification is addressed to.
//  RecipientRole – USER or ADMIN; the inbox the entry belongs to.
//  BookingID     – booking the notification refers to (nil once the
//                  booking has been deleted).
//  Kind          – one of the Notify* constants above.
//  Title         – short heading shown in the inbox.
//  Message       – human-readable body.
//  IsRead        – whether the recipient has read the entry.
//  CreatedAt     – creation timestamp.
type Notification struct {
	ID            uint64    // notifications.id
	RecipientID   uint64    // notifications.recipient_id
	RecipientRole string    // notifications.recipient_role
	BookingID     *uint64   // notifications.booking_id (nullable)
	Kind          string    // notifications.kind
	Title         string    // notifications.title
	Message       string    // notifications.message
	IsRead        bool      // notifications.is_read
	CreatedAt     time.Time // notifications.created_at
}
