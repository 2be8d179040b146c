// Package ledger implements the per-lot occupancy vector: the
// authoritative mapping from a lot's capacity to the occupancy state
// of its individual slots.  The vector is a pure in-memory value; the
// slot repository loads it from locked database rows, mutates it
// through the operations below and writes the resulting plan back, so
// every change commits atomically per lot.
package ledger

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNoVacancy is returned by FirstVacant when every slot of the lot
// is occupied.
var ErrNoVacancy = errors.New("no vacant slot")

// ErrSlotNotFound is returned when a slot number does not exist in
// the vector.
var ErrSlotNotFound = errors.New("slot not found")

// ErrCapacityConflict is returned by Resize when shrinking would
// require evicting an occupied slot.  Occupied slots are never
// force-evicted; the admin has to wait for the bookings to end.
var ErrCapacityConflict = errors.New("capacity conflict")

// Slot is one entry of the occupancy vector.  BookingID is set iff
// the slot is occupied by a confirmed booking.
type Slot struct {
	Number    uint32
	Occupied  bool
	BookingID *uint64
}

// Vector is a lot's occupancy vector.  Slot numbers are a contiguous
// 1..capacity range kept sorted ascending.  The zero value is a lot
// with zero capacity.
type Vector struct {
	slots []Slot
}

// New returns a vector of `capacity` vacant slots numbered 1..capacity.
func New(capacity uint32) *Vector {
	v := &Vector{slots: make([]Slot, 0, capacity)}
	for n := uint32(1); n <= capacity; n++ {
		v.slots = append(v.slots, Slot{Number: n})
	}
	return v
}

// FromSlots builds a vector from slots loaded out of the store.  The
// input may arrive in any order; it is sorted by number.  Duplicate
// slot numbers are rejected because they indicate a corrupted lot.
// Gaps are tolerated here (drift happens); Normalize against the
// lot's capacity is what restores the contiguous range.
func FromSlots(slots []Slot) (*Vector, error) {
	cp := make([]Slot, len(slots))
	copy(cp, slots)
	sort.Slice(cp, func(i, j int) bool { return cp[i].Number < cp[j].Number })
	for i := 1; i < len(cp); i++ {
		if cp[i].Number == cp[i-1].Number {
			return nil, fmt.Errorf("duplicate slot number %d", cp[i].Number)
		}
	}
	return &Vector{slots: cp}, nil
}

// Capacity returns the number of slots in the vector.
func (v *Vector) Capacity() uint32 { return uint32(len(v.slots)) }

// Slots returns a copy of the vector entries in slot-number order.
func (v *Vector) Slots() []Slot {
	out := make([]Slot, len(v.slots))
	copy(out, v.slots)
	return out
}

// OccupiedCount returns the number of occupied slots.
func (v *Vector) OccupiedCount() uint32 {
	var n uint32
	for _, s := range v.slots {
		if s.Occupied {
			n++
		}
	}
	return n
}

// VacantCount returns the number of vacant slots.  The invariant
// OccupiedCount + VacantCount == Capacity always holds.
func (v *Vector) VacantCount() uint32 { return v.Capacity() - v.OccupiedCount() }

// FirstVacant returns the lowest-numbered vacant slot.  The tie-break
// is deterministic so concurrent confirmations are reproducible.
func (v *Vector) FirstVacant() (uint32, error) {
	for _, s := range v.slots {
		if !s.Occupied {
			return s.Number, nil
		}
	}
	return 0, ErrNoVacancy
}

// ResizePlan describes the slot rows a Resize requires the store to
// add or remove.  Added numbers are created vacant; removed numbers
// were vacant when the plan was made.
type ResizePlan struct {
	Added   []uint32
	Removed []uint32
}

// Resize grows or shrinks the vector to newCapacity and returns the
// plan of changes.  Growing appends vacant slots current+1..new.
// Shrinking removes the highest-numbered vacant slots first and fails
// with ErrCapacityConflict when too few vacant slots exist to reach
// the target; on failure the vector is unchanged.  Resizing to the
// current capacity is a no-op, which makes initialization idempotent.
func (v *Vector) Resize(newCapacity uint32) (ResizePlan, error) {
	cur := v.Capacity()
	var plan ResizePlan
	switch {
	case newCapacity == cur:
		return plan, nil
	case newCapacity > cur:
		next := uint32(1)
		if len(v.slots) > 0 {
			next = v.slots[len(v.slots)-1].Number + 1
		}
		for n := next; uint32(len(v.slots)) < newCapacity; n++ {
			v.slots = append(v.slots, Slot{Number: n})
			plan.Added = append(plan.Added, n)
		}
		return plan, nil
	default:
		toRemove := int(cur - newCapacity)
		keep := make([]Slot, len(v.slots))
		copy(keep, v.slots)
		// walk from the highest number down, dropping vacant slots
		for i := len(keep) - 1; i >= 0 && toRemove > 0; i-- {
			if !keep[i].Occupied {
				plan.Removed = append(plan.Removed, keep[i].Number)
				keep = append(keep[:i], keep[i+1:]...)
				toRemove--
			}
		}
		if toRemove > 0 {
			return ResizePlan{}, fmt.Errorf("%w: %d occupied slots block shrink to %d",
				ErrCapacityConflict, v.OccupiedCount(), newCapacity)
		}
		v.slots = keep
		return plan, nil
	}
}

// SetOccupancy flips a specific slot to occupied or vacant.  Claims
// made through SetOccupancy carry no booking reference; use Claim for
// workflow confirmations.
func (v *Vector) SetOccupancy(number uint32, occupied bool) error {
	i, err := v.index(number)
	if err != nil {
		return err
	}
	v.slots[i].Occupied = occupied
	if !occupied {
		v.slots[i].BookingID = nil
	}
	return nil
}

// Claim marks a vacant slot occupied by the given booking.  Claiming
// an already occupied slot is an error: two confirmed bookings must
// never share a slot.
func (v *Vector) Claim(number uint32, bookingID uint64) error {
	i, err := v.index(number)
	if err != nil {
		return err
	}
	if v.slots[i].Occupied {
		return fmt.Errorf("slot %d already occupied", number)
	}
	id := bookingID
	v.slots[i].Occupied = true
	v.slots[i].BookingID = &id
	return nil
}

// Release marks a slot vacant and clears its booking claim.
func (v *Vector) Release(number uint32) error {
	return v.SetOccupancy(number, false)
}

// Holder returns the booking occupying a slot, or nil when the slot
// is vacant or was toggled occupied without a booking.
func (v *Vector) Holder(number uint32) (*uint64, error) {
	i, err := v.index(number)
	if err != nil {
		return nil, err
	}
	return v.slots[i].BookingID, nil
}

func (v *Vector) index(number uint32) (int, error) {
	i := sort.Search(len(v.slots), func(i int) bool { return v.slots[i].Number >= number })
	if i < len(v.slots) && v.slots[i].Number == number {
		return i, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrSlotNotFound, number)
}
