package workflow

import (
	"errors"
	"fmt"
	"time"
)

// Validation failures rejected before any state mutation. Handlers
// translate these into 400 responses with the message verbatim.
var (
	ErrMissingField = errors.New("missing required field")
	ErrBadDate      = errors.New("invalid reservation date")
	ErrBadTime      = errors.New("invalid time")
	ErrBadTimeRange = errors.New("time out must be after time in")
	ErrTooShort     = errors.New("booking must span at least one full hour")
)

// Quote is the priced duration of a requested time window.
type Quote struct {
	DurationHours   uint32
	TotalPriceCents uint64
}

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// QuoteBooking validates a reservation window and prices it against a
// lot's hourly rate. Duration is whole hours rounded down; a window
// that rounds to zero hours is a validation failure, never a zero
// price. The same function backs both the request endpoint and the
// stored duration/total columns, so the two can't drift.
func QuoteBooking(date, timeIn, timeOut string, hourlyRateCents uint32) (Quote, error) {
	if date == "" || timeIn == "" || timeOut == "" {
		return Quote{}, ErrMissingField
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return Quote{}, fmt.Errorf("%w: %q", ErrBadDate, date)
	}
	in, err := time.Parse(clockLayout, timeIn)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %q", ErrBadTime, timeIn)
	}
	out, err := time.Parse(clockLayout, timeOut)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %q", ErrBadTime, timeOut)
	}
	if !out.After(in) {
		return Quote{}, ErrBadTimeRange
	}
	hours := uint32(out.Sub(in) / time.Hour)
	if hours == 0 {
		return Quote{}, ErrTooShort
	}
	return Quote{
		DurationHours:   hours,
		TotalPriceCents: uint64(hours) * uint64(hourlyRateCents),
	}, nil
}
