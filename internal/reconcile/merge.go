// Package reconcile merges authoritative booking/slot snapshots with
// a local cache of terminal outcomes recorded at confirm/cancel time.
// The store is the source of truth, but reads may race a transition
// that already committed elsewhere; the merge rule makes the view the
// client sees deterministic: a locally recorded terminal status wins
// only when the snapshot status is less advanced, and a lot's slot
// vector is padded with synthesized vacant slots up to its known
// capacity rather than silently shrinking.
package reconcile

import (
	"github.com/parkwise/parking-reservation/internal/ledger"
	"github.com/parkwise/parking-reservation/internal/model"
	"github.com/parkwise/parking-reservation/internal/repository"
)

// statusRank orders booking statuses by how far through the workflow
// they are. Terminal states rank above PENDING; unknown strings rank
// lowest so garbage in the cache can never beat the snapshot.
func statusRank(status string) int {
	switch status {
	case model.BookingPending:
		return 1
	case model.BookingConfirmed, model.BookingCancelled:
		return 2
	default:
		return 0
	}
}

// MergeBookings applies the override set to an authoritative booking
// snapshot. For a booking present in both, the override status wins
// when it is strictly more advanced; otherwise the snapshot value is
// kept. Bookings absent from the snapshot are never invented. The
// input slice is not modified.
func MergeBookings(snapshot []repository.BookingDetail, overrides map[uint64]string) []repository.BookingDetail {
	if len(overrides) == 0 {
		return snapshot
	}
	merged := make([]repository.BookingDetail, len(snapshot))
	copy(merged, snapshot)
	for i := range merged {
		if local, ok := overrides[merged[i].ID]; ok {
			if statusRank(local) > statusRank(merged[i].Status) {
				merged[i].Status = local
			}
		}
	}
	return merged
}

// PadSlots extends a slot list to a lot's known capacity with
// synthesized vacant slots. Drift tolerance, not data invention: the
// function never adds beyond capacity and never removes rows the
// store returned, even excess ones.
func PadSlots(slots []ledger.Slot, capacity uint32) []ledger.Slot {
	out := make([]ledger.Slot, len(slots))
	copy(out, slots)
	have := make(map[uint32]bool, len(slots))
	highest := uint32(0)
	for _, s := range slots {
		have[s.Number] = true
		if s.Number > highest {
			highest = s.Number
		}
	}
	// fill gaps below the highest known number first, then append
	for n := uint32(1); n <= capacity && uint32(len(out)) < capacity; n++ {
		if !have[n] {
			out = append(out, ledger.Slot{Number: n})
		}
	}
	v, err := ledger.FromSlots(out)
	if err != nil {
		// duplicate rows from the store; return the padded list unsorted
		return out
	}
	return v.Slots()
}

// Once runs fn and retries exactly once on failure. Remote reads use
// it per the propagation policy: one automatic retry, then the error
// surfaces to the caller for a manual retry affordance.
func Once(fn func() error) error {
	if err := fn(); err == nil {
		return nil
	}
	return fn()
}
