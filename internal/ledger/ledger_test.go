package ledger

import (
	"errors"
	"testing"
)

func TestNew_AllVacantContiguous(t *testing.T) {
	v := New(10)
	if v.Capacity() != 10 {
		t.Fatalf("expected capacity 10, got %d", v.Capacity())
	}
	if v.OccupiedCount() != 0 || v.VacantCount() != 10 {
		t.Fatalf("expected 0 occupied / 10 vacant, got %d/%d", v.OccupiedCount(), v.VacantCount())
	}
	for i, s := range v.Slots() {
		if s.Number != uint32(i+1) {
			t.Fatalf("slot %d has number %d", i, s.Number)
		}
		if s.Occupied {
			t.Fatalf("slot %d created occupied", s.Number)
		}
	}
}

func TestCounts_AlwaysSumToCapacity(t *testing.T) {
	v := New(5)
	for _, n := range []uint32{2, 4, 5} {
		if err := v.SetOccupancy(n, true); err != nil {
			t.Fatalf("set occupancy %d: %v", n, err)
		}
		if v.OccupiedCount()+v.VacantCount() != v.Capacity() {
			t.Fatalf("counts diverged: %d + %d != %d", v.OccupiedCount(), v.VacantCount(), v.Capacity())
		}
	}
	if v.OccupiedCount() != 3 {
		t.Fatalf("expected 3 occupied, got %d", v.OccupiedCount())
	}
}

func TestFirstVacant_LowestNumberWins(t *testing.T) {
	v := New(3)
	if err := v.SetOccupancy(1, true); err != nil {
		t.Fatal(err)
	}
	n, err := v.FirstVacant()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected slot 2, got %d", n)
	}
}

func TestFirstVacant_Full(t *testing.T) {
	v := New(2)
	_ = v.SetOccupancy(1, true)
	_ = v.SetOccupancy(2, true)
	if _, err := v.FirstVacant(); !errors.Is(err, ErrNoVacancy) {
		t.Fatalf("expected ErrNoVacancy, got %v", err)
	}
}

func TestSetOccupancy_UnknownSlot(t *testing.T) {
	v := New(4)
	if err := v.SetOccupancy(9, true); !errors.Is(err, ErrSlotNotFound) {
		t.Fatalf("expected ErrSlotNotFound, got %v", err)
	}
}

func TestResize_GrowAppendsVacant(t *testing.T) {
	v := New(3)
	plan, err := v.Resize(5)
	if err != nil {
		t.Fatalf("grow failed: %v", err)
	}
	if len(plan.Added) != 2 || plan.Added[0] != 4 || plan.Added[1] != 5 {
		t.Fatalf("unexpected added slots: %v", plan.Added)
	}
	if len(plan.Removed) != 0 {
		t.Fatalf("grow removed slots: %v", plan.Removed)
	}
	if v.Capacity() != 5 || v.VacantCount() != 5 {
		t.Fatalf("expected 5 vacant slots, got cap=%d vacant=%d", v.Capacity(), v.VacantCount())
	}
}

func TestResize_ShrinkRemovesHighestVacantFirst(t *testing.T) {
	v := New(5)
	_ = v.SetOccupancy(5, true) // occupied top slot must survive
	plan, err := v.Resize(3)
	if err != nil {
		t.Fatalf("shrink failed: %v", err)
	}
	if len(plan.Removed) != 2 || plan.Removed[0] != 4 || plan.Removed[1] != 3 {
		t.Fatalf("unexpected removed slots: %v", plan.Removed)
	}
	if v.Capacity() != 3 {
		t.Fatalf("expected capacity 3, got %d", v.Capacity())
	}
	if v.OccupiedCount() != 1 {
		t.Fatalf("occupied slot lost by shrink")
	}
}

func TestResize_ShrinkBlockedByOccupied(t *testing.T) {
	v := New(3)
	_ = v.SetOccupancy(1, true)
	_ = v.SetOccupancy(2, true)
	before := v.Slots()
	if _, err := v.Resize(1); !errors.Is(err, ErrCapacityConflict) {
		t.Fatalf("expected ErrCapacityConflict, got %v", err)
	}
	// failed shrink must leave the vector untouched
	after := v.Slots()
	if len(after) != len(before) {
		t.Fatalf("capacity changed after failed shrink: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i].Number != after[i].Number || before[i].Occupied != after[i].Occupied {
			t.Fatalf("slot %d mutated after failed shrink", before[i].Number)
		}
	}
}

func TestResize_SameCapacityIsNoop(t *testing.T) {
	v := New(4)
	_ = v.SetOccupancy(2, true)
	plan, err := v.Resize(4)
	if err != nil {
		t.Fatalf("noop resize failed: %v", err)
	}
	if len(plan.Added) != 0 || len(plan.Removed) != 0 {
		t.Fatalf("noop resize produced a plan: %+v", plan)
	}
}

func TestResize_RoundTripPreservesOccupancy(t *testing.T) {
	v := New(6)
	_ = v.SetOccupancy(2, true)
	_ = v.SetOccupancy(3, true)
	if _, err := v.Resize(4); err != nil {
		t.Fatalf("shrink: %v", err)
	}
	if _, err := v.Resize(6); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if v.Capacity() != 6 {
		t.Fatalf("expected capacity 6, got %d", v.Capacity())
	}
	for _, s := range v.Slots() {
		want := s.Number == 2 || s.Number == 3
		if s.Occupied != want {
			t.Fatalf("slot %d occupancy altered by round trip", s.Number)
		}
	}
}

func TestClaimAndRelease(t *testing.T) {
	v := New(2)
	if err := v.Claim(1, 77); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if err := v.Claim(1, 78); err == nil {
		t.Fatal("expected double claim to fail")
	}
	holder, err := v.Holder(1)
	if err != nil || holder == nil || *holder != 77 {
		t.Fatalf("expected holder 77, got %v (%v)", holder, err)
	}
	if err := v.Release(1); err != nil {
		t.Fatalf("release: %v", err)
	}
	if v.VacantCount() != 2 {
		t.Fatalf("release did not free the slot")
	}
	// freed slot is the next first-vacant again
	n, err := v.FirstVacant()
	if err != nil || n != 1 {
		t.Fatalf("expected slot 1 to be reusable, got %d (%v)", n, err)
	}
}

func TestFromSlots_SortsAndRejectsDuplicates(t *testing.T) {
	v, err := FromSlots([]Slot{{Number: 3}, {Number: 1, Occupied: true}, {Number: 2}})
	if err != nil {
		t.Fatalf("from slots: %v", err)
	}
	got := v.Slots()
	if got[0].Number != 1 || !got[0].Occupied {
		t.Fatalf("sorting lost occupancy: %+v", got)
	}
	if _, err := FromSlots([]Slot{{Number: 1}, {Number: 1}}); err == nil {
		t.Fatal("expected duplicate slot numbers to be rejected")
	}
}
