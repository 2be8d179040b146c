package queue

// Event kinds carried by BookingEvent. One event is published per
// workflow transition; publishing more than once for the same
// transition is a caller bug, not something the dispatcher dedups.
const (
	KindRequested = "booking-requested"
	KindConfirmed = "booking-confirmed"
	KindCancelled = "booking-cancelled"
)

// BookingEvent is published when a booking transitions state. It
// contains enough information for the notification consumer to
// address both inboxes and render a message without querying the
// primary database.
type BookingEvent struct {
	Kind            string  `json:"kind"`
	BookingID       uint64  `json:"booking_id"`
	UserID          uint64  `json:"user_id"`
	UserName        string  `json:"user_name"`
	AdminID         uint64  `json:"admin_id"`
	LotID           uint64  `json:"lot_id"`
	LotName         string  `json:"lot_name"`
	ReserveDate     string  `json:"reserve_date"`
	TimeIn          string  `json:"time_in"`
	TimeOut         string  `json:"time_out"`
	SlotNumber      *uint32 `json:"slot_number,omitempty"`
	TotalPriceCents uint64  `json:"total_price_cents"`
	OccurredAt      string  `json:"occurred_at"`
}
