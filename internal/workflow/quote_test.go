package workflow

import (
	"errors"
	"testing"
)

func TestQuoteBooking_OK(t *testing.T) {
	q, err := QuoteBooking("2025-03-10", "09:00", "12:00", 500)
	if err != nil {
		t.Fatalf("expected valid quote, got %v", err)
	}
	if q.DurationHours != 3 {
		t.Fatalf("expected 3 hours, got %d", q.DurationHours)
	}
	if q.TotalPriceCents != 1500 {
		t.Fatalf("expected 1500 cents, got %d", q.TotalPriceCents)
	}
}

func TestQuoteBooking_PartialHourRoundsDown(t *testing.T) {
	q, err := QuoteBooking("2025-03-10", "09:00", "11:45", 500)
	if err != nil {
		t.Fatalf("expected valid quote, got %v", err)
	}
	if q.DurationHours != 2 {
		t.Fatalf("expected 2 whole hours, got %d", q.DurationHours)
	}
	if q.TotalPriceCents != 1000 {
		t.Fatalf("expected 1000 cents, got %d", q.TotalPriceCents)
	}
}

func TestQuoteBooking_Invalid(t *testing.T) {
	cases := []struct {
		name                  string
		date, timeIn, timeOut string
		want                  error
	}{
		{"missing date", "", "09:00", "12:00", ErrMissingField},
		{"missing time in", "2025-03-10", "", "12:00", ErrMissingField},
		{"missing time out", "2025-03-10", "09:00", "", ErrMissingField},
		{"bad date", "10/03/2025", "09:00", "12:00", ErrBadDate},
		{"bad time", "2025-03-10", "9am", "12:00", ErrBadTime},
		{"out before in", "2025-03-10", "12:00", "09:00", ErrBadTimeRange},
		{"out equals in", "2025-03-10", "09:00", "09:00", ErrBadTimeRange},
		{"under one hour", "2025-03-10", "09:00", "09:30", ErrTooShort},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := QuoteBooking(tc.date, tc.timeIn, tc.timeOut, 500)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestQuoteBooking_NeverZeroPriced(t *testing.T) {
	// a malformed window must fail validation rather than price at zero
	if q, err := QuoteBooking("2025-03-10", "12:00", "09:00", 500); err == nil {
		t.Fatalf("expected validation failure, got quote %+v", q)
	}
}

func TestTransitionGuards(t *testing.T) {
	if !CanConfirm("PENDING") {
		t.Fatal("pending bookings must be confirmable")
	}
	if CanConfirm("CONFIRMED") || CanConfirm("CANCELLED") {
		t.Fatal("terminal states must not be confirmable")
	}
	if !CanCancel("PENDING") || !CanCancel("CONFIRMED") {
		t.Fatal("pending and confirmed bookings must be cancellable")
	}
	if CanCancel("CANCELLED") {
		t.Fatal("a cancelled booking must stay cancelled")
	}
}
