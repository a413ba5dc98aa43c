package pool

import (
	"github.com/plus3/dunepool/encoded"
	"github.com/plus3/dunepool/tile"
)

// Flags is the status of a slot.
type Flags struct {
	// Used marks the slot as occupied.
	Used bool
	// Allocated marks the entity as present and targetable. A unit
	// carried by a transport is Used but not Allocated.
	Allocated bool
	// IsNotOnMap marks an entity that exists but has not been placed.
	IsNotOnMap bool
	IsUnit     bool
}

// Header is the identity part every pool record starts with.
type Header struct {
	// Index is the slot position. It never changes after Init.
	Index uint16
	Flags Flags
	// Serial counts the allocations of this slot, so a record queued for
	// release can be told apart from a later occupant of the same slot.
	Serial uint32
}

const scriptVariables = 5

// Script is the per-object script VM state. Its variables commonly hold
// encoded references, which is why they must survive save/load intact.
type Script struct {
	Delay        uint16
	ScriptIndex  uint16
	StackPointer uint8
	Variables    [scriptVariables]encoded.Index
	Stack        [15]uint16
}

// Reset puts the script back at its entry point.
func (s *Script) Reset() {
	*s = Script{StackPointer: uint8(len(s.Stack))}
}

// BuildQueueMax bounds a BuildQueue.
const BuildQueueMax = 16

// BuildItem is one queued production order.
type BuildItem struct {
	ObjectType uint8
	Count      uint8
}

// BuildQueue is the pending work an entity owns. It is a value type, so
// copying a record copies its queue.
type BuildQueue struct {
	Orders [BuildQueueMax]BuildItem
	Size   uint8
}

// Add appends an order. It returns false when the queue is full.
func (q *BuildQueue) Add(item BuildItem) bool {
	if int(q.Size) == len(q.Orders) {
		return false
	}
	q.Orders[q.Size] = item
	q.Size++
	return true
}

// Len returns the number of queued orders.
func (q *BuildQueue) Len() int { return int(q.Size) }

// Items returns the queued orders.
func (q *BuildQueue) Items() []BuildItem { return q.Orders[:q.Size] }

// Free releases every queued order.
func (q *BuildQueue) Free() {
	*q = BuildQueue{}
}

// Object is the common part of units and structures.
type Object struct {
	Header
	Type      uint8
	HouseID   HouseType
	LinkedID  uint8
	HitPoints uint16
	Position  tile.Tile32
	Script    Script
}

// linkNone marks an unlinked LinkedID.
const linkNone = 0xFF
