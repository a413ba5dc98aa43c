package pool

import (
	"fmt"
	"iter"
	"slices"

	"github.com/kamstrup/intmap"
)

// record is implemented by the pointer type of every pool record.
type record interface {
	header() *Header
	owner() HouseType
	subtype() uint16
}

// arena is the fixed-capacity slot storage shared by the four pools.
//
// slots never move or grow, so a slot's index is stable for the whole
// session. live lists the occupied, non-shared slots in the order they
// were allocated; Free closes the gap it leaves. tail lists slots that are
// not in live but are reported after it by every Find pass.
type arena[T any, P interface {
	*T
	record
}] struct {
	kind       Kind
	slots      []T
	live       []uint16
	tail       []uint16
	hard       int
	counts     *intmap.Map[uint16, int]
	validation *Validation
}

func newArena[T any, P interface {
	*T
	record
}](kind Kind, policy CapacityPolicy, validation *Validation) *arena[T, P] {
	capacity := policy.Capacity(kind)
	return &arena[T, P]{
		kind:       kind,
		slots:      make([]T, capacity),
		live:       make([]uint16, 0, capacity),
		hard:       policy.HardCapacity(kind),
		counts:     intmap.New[uint16, int](32),
		validation: validation,
	}
}

// reset clears every slot and the live list, then stamps each slot with
// its own index so even an unused slot reports a valid index.
func (a *arena[T, P]) reset() {
	clear(a.slots)
	for i := range a.slots {
		P(&a.slots[i]).header().Index = uint16(i)
	}
	a.live = a.live[:0]
	a.counts.Clear()
}

// Cap returns the number of slots.
func (a *arena[T, P]) Cap() int {
	return len(a.slots)
}

// Len returns the number of entries in the live list.
func (a *arena[T, P]) Len() int {
	return len(a.live)
}

// Get returns the record in slot index, used or not. An index outside the
// pool is a programming error and panics.
func (a *arena[T, P]) Get(index uint16) P {
	if int(index) >= len(a.slots) {
		panic(fmt.Sprintf("pool: %s index %d out of range [0,%d)", a.kind, index, len(a.slots)))
	}
	return P(&a.slots[index])
}

// Lookup is Get for indices that come from outside the running session,
// such as a save file. An index that only fits a larger capacity mode
// yields ErrIncompatibleSave and one beyond every mode
// ErrIndexOutOfRange, instead of a panic.
func (a *arena[T, P]) Lookup(index uint16) (P, error) {
	if int(index) < len(a.slots) {
		return P(&a.slots[index]), nil
	}
	if int(index) < a.hard {
		return nil, fmt.Errorf("%s index %d needs capacity %d, have %d: %w",
			a.kind, index, a.hard, len(a.slots), ErrIncompatibleSave)
	}
	return nil, fmt.Errorf("%s index %d, hard limit %d: %w", a.kind, index, a.hard, ErrIndexOutOfRange)
}

// LiveIndices returns a copy of the live list.
func (a *arena[T, P]) LiveIndices() []uint16 {
	return slices.Clone(a.live)
}

// CountOf returns how many live entries have the subtype.
func (a *arena[T, P]) CountOf(subtype uint16) int {
	n, _ := a.counts.Get(subtype)
	return n
}

// firstFree scans [start, end] for an unused slot.
func (a *arena[T, P]) firstFree(start, end int) (uint16, bool) {
	end = min(end, len(a.slots)-1)
	for i := start; i <= end; i++ {
		if !P(&a.slots[i]).header().Flags.Used {
			return uint16(i), true
		}
	}
	return 0, false
}

// claim zeroes slot index, bumps its serial and marks it used and
// allocated.
func (a *arena[T, P]) claim(index uint16) P {
	serial := P(&a.slots[index]).header().Serial + 1
	var zero T
	a.slots[index] = zero

	p := P(&a.slots[index])
	h := p.header()
	h.Index = index
	h.Serial = serial
	h.Flags.Used = true
	h.Flags.Allocated = true
	return p
}

func (a *arena[T, P]) link(p P) {
	a.live = append(a.live, p.header().Index)
	a.count(p.subtype(), 1)
}

// unlink removes p from the live list, shifting later entries down.
func (a *arena[T, P]) unlink(p P) bool {
	i := slices.Index(a.live, p.header().Index)
	if i < 0 {
		return false
	}
	a.live = slices.Delete(a.live, i, i+1)
	a.count(p.subtype(), -1)
	return true
}

func (a *arena[T, P]) count(subtype uint16, delta int) {
	n, _ := a.counts.Get(subtype)
	n += delta
	if n <= 0 {
		a.counts.Del(subtype)
		return
	}
	a.counts.Put(subtype, n)
}

// recount rebuilds the live list from the used slots below limit, in
// index order.
func (a *arena[T, P]) recount(limit int) {
	a.live = a.live[:0]
	a.counts.Clear()
	for i := 0; i < limit; i++ {
		p := P(&a.slots[i])
		if p.header().Flags.Used {
			a.link(p)
		}
	}
}

func (a *arena[T, P]) rebuildCounts() {
	a.counts.Clear()
	for _, index := range a.live {
		a.count(P(&a.slots[index]).subtype(), 1)
	}
}

func (a *arena[T, P]) matches(p P, f *Find) bool {
	if p.header().Flags.IsNotOnMap && a.validation.Strict() {
		return false
	}
	if f.House != HouseInvalid && f.House != p.owner() {
		return false
	}
	if f.Type != TypeAny && f.Type != p.subtype() {
		return false
	}
	return true
}

// next advances f over the live list followed by the tail.
func (a *arena[T, P]) next(f *Find) P {
	extent := len(a.live) + len(a.tail)
	if f.index >= extent {
		return nil
	}

	for f.index++; f.index < extent; f.index++ {
		var index uint16
		if f.index < len(a.live) {
			index = a.live[f.index]
		} else {
			index = a.tail[f.index-len(a.live)]
		}

		p := P(&a.slots[index])
		if a.matches(p, f) {
			return p
		}
	}
	return nil
}

func (a *arena[T, P]) all(house HouseType, typ uint16) iter.Seq[P] {
	return func(yield func(P) bool) {
		f := newFind(house, typ)
		for p := a.next(&f); p != nil; p = a.next(&f) {
			if !yield(p) {
				return
			}
		}
	}
}

type arenaState[T any] struct {
	slots []T
	live  []uint16
}

func (a *arena[T, P]) save() arenaState[T] {
	return arenaState[T]{
		slots: slices.Clone(a.slots),
		live:  slices.Clone(a.live),
	}
}

func (a *arena[T, P]) load(st arenaState[T]) {
	if len(st.slots) != len(a.slots) {
		panic(fmt.Sprintf("pool: %s state has %d slots, pool has %d", a.kind, len(st.slots), len(a.slots)))
	}
	copy(a.slots, st.slots)
	a.live = append(a.live[:0], st.live...)
	a.rebuildCounts()
}
