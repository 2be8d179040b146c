package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/parkwise/parking-reservation/internal/ledger"
	"github.com/parkwise/parking-reservation/internal/repository"
)

func TestMergeBookings_LocalTerminalWins(t *testing.T) {
	snapshot := []repository.BookingDetail{
		{ID: 1, Status: "PENDING"},
		{ID: 2, Status: "PENDING"},
	}
	merged := MergeBookings(snapshot, map[uint64]string{1: "CONFIRMED"})
	if merged[0].Status != "CONFIRMED" {
		t.Fatalf("expected local confirm to win, got %s", merged[0].Status)
	}
	if merged[1].Status != "PENDING" {
		t.Fatalf("untouched booking changed: %s", merged[1].Status)
	}
	// input snapshot must not be mutated
	if snapshot[0].Status != "PENDING" {
		t.Fatal("merge mutated the snapshot")
	}
}

func TestMergeBookings_SnapshotWinsWhenAsAdvanced(t *testing.T) {
	snapshot := []repository.BookingDetail{{ID: 1, Status: "CANCELLED"}}
	merged := MergeBookings(snapshot, map[uint64]string{1: "CONFIRMED"})
	if merged[0].Status != "CANCELLED" {
		t.Fatalf("equal-rank override must not replace snapshot, got %s", merged[0].Status)
	}
}

func TestMergeBookings_NeverInventsBookings(t *testing.T) {
	snapshot := []repository.BookingDetail{{ID: 1, Status: "PENDING"}}
	merged := MergeBookings(snapshot, map[uint64]string{99: "CONFIRMED"})
	if len(merged) != 1 {
		t.Fatalf("merge invented bookings: %d entries", len(merged))
	}
}

func TestMergeBookings_GarbageOverrideIgnored(t *testing.T) {
	snapshot := []repository.BookingDetail{{ID: 1, Status: "PENDING"}}
	merged := MergeBookings(snapshot, map[uint64]string{1: "WHATEVER"})
	if merged[0].Status != "PENDING" {
		t.Fatalf("unknown status beat the snapshot: %s", merged[0].Status)
	}
}

func TestPadSlots_FillsToCapacity(t *testing.T) {
	stored := []ledger.Slot{
		{Number: 1, Occupied: true},
		{Number: 3},
	}
	padded := PadSlots(stored, 4)
	if len(padded) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(padded))
	}
	for i, s := range padded {
		if s.Number != uint32(i+1) {
			t.Fatalf("expected contiguous numbering, slot %d has number %d", i, s.Number)
		}
	}
	if !padded[0].Occupied {
		t.Fatal("padding lost occupancy of stored slot 1")
	}
	if padded[1].Occupied || padded[3].Occupied {
		t.Fatal("synthesized slots must be vacant")
	}
}

func TestPadSlots_NeverTruncates(t *testing.T) {
	stored := []ledger.Slot{{Number: 1}, {Number: 2}, {Number: 3}}
	padded := PadSlots(stored, 2)
	if len(padded) != 3 {
		t.Fatalf("padding removed stored rows: %d", len(padded))
	}
}

func TestPadSlots_NoopAtCapacity(t *testing.T) {
	stored := []ledger.Slot{{Number: 1}, {Number: 2}}
	padded := PadSlots(stored, 2)
	if len(padded) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(padded))
	}
}

func TestOnce_RetriesExactlyOnce(t *testing.T) {
	calls := 0
	err := Once(func() error {
		calls++
		if calls == 1 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}

	calls = 0
	sentinel := errors.New("down")
	if err := Once(func() error { calls++; return sentinel }); !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel after second failure, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected exactly 2 calls, got %d", calls)
	}
}

func TestOverrideStore_NilClientDegrades(t *testing.T) {
	var s *OverrideStore
	// nil store must be safe to call and report staleness
	s.Record(context.Background(), 1, 2, "CONFIRMED")
	m, stale := s.ByLot(context.Background(), 1)
	if !stale {
		t.Fatal("nil store must report stale reads")
	}
	if len(m) != 0 {
		t.Fatalf("nil store returned overrides: %v", m)
	}
}
