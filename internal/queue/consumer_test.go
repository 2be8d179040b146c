package queue

import (
	"strings"
	"testing"

	"github.com/parkwise/parking-reservation/internal/model"
)

func sampleEvent(kind string) BookingEvent {
	slot := uint32(3)
	return BookingEvent{
		Kind:            kind,
		BookingID:       42,
		UserID:          7,
		UserName:        "Dana",
		AdminID:         2,
		LotID:           1,
		LotName:         "Riverside Lot",
		ReserveDate:     "2026-09-01",
		TimeIn:          "09:00",
		TimeOut:         "12:00",
		SlotNumber:      &slot,
		TotalPriceCents: 1500,
	}
}

func TestFanOut_RequestedNotifiesAdminOnly(t *testing.T) {
	out := fanOut(sampleEvent(KindRequested))
	if len(out) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(out))
	}
	n := out[0]
	if n.RecipientID != 2 || n.RecipientRole != model.RoleAdmin {
		t.Errorf("expected admin recipient, got id=%d role=%s", n.RecipientID, n.RecipientRole)
	}
	if n.Kind != model.NotifyBookingRequested {
		t.Errorf("unexpected kind %q", n.Kind)
	}
	if n.BookingID == nil || *n.BookingID != 42 {
		t.Errorf("expected booking id 42, got %v", n.BookingID)
	}
	if !strings.Contains(n.Message, "Riverside Lot") {
		t.Errorf("message missing lot name: %q", n.Message)
	}
}

func TestFanOut_ConfirmedNotifiesUserWithSlot(t *testing.T) {
	out := fanOut(sampleEvent(KindConfirmed))
	if len(out) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(out))
	}
	n := out[0]
	if n.RecipientID != 7 || n.RecipientRole != model.RoleUser {
		t.Errorf("expected user recipient, got id=%d role=%s", n.RecipientID, n.RecipientRole)
	}
	if !strings.Contains(n.Message, "Slot #3") {
		t.Errorf("message missing slot number: %q", n.Message)
	}
}

func TestFanOut_CancelledNotifiesBoth(t *testing.T) {
	out := fanOut(sampleEvent(KindCancelled))
	if len(out) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(out))
	}
	roles := map[string]bool{}
	for _, n := range out {
		roles[n.RecipientRole] = true
		if n.Kind != model.NotifyBookingCancelled {
			t.Errorf("unexpected kind %q", n.Kind)
		}
	}
	if !roles[model.RoleUser] || !roles[model.RoleAdmin] {
		t.Errorf("expected both inboxes addressed, got %v", roles)
	}
}

func TestFanOut_UnknownKindYieldsNothing(t *testing.T) {
	ev := sampleEvent("booking-exploded")
	if out := fanOut(ev); out != nil {
		t.Fatalf("expected nil, got %d notifications", len(out))
	}
}
