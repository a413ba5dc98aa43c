package pool

import (
	"cmp"
	"slices"
)

// WorldStats is a point-in-time summary of every pool.
type WorldStats struct {
	Mode                CapacityMode
	ValidationDepth     int
	SnapshotOutstanding bool
	Pools               []PoolStats
}

// PoolStats summarises one pool.
type PoolStats struct {
	Kind     Kind
	Live     int
	Capacity int
	Subtypes []SubtypeCount
}

// SubtypeCount is the number of live entries of one subtype.
type SubtypeCount struct {
	Subtype uint16
	Count   int
}

// CollectStats gathers pool occupancy. Subtype counts are sorted by
// subtype.
func (w *World) CollectStats() *WorldStats {
	return &WorldStats{
		Mode:                w.policy.Mode(),
		ValidationDepth:     w.validation.Depth(),
		SnapshotOutstanding: w.snapshot != nil,
		Pools: []PoolStats{
			collectPoolStats(w.houses.arena),
			collectPoolStats(w.structures.arena),
			collectPoolStats(w.units.arena),
			collectPoolStats(w.teams.arena),
		},
	}
}

// Pool returns the stats of kind k.
func (s *WorldStats) Pool(k Kind) PoolStats {
	for _, p := range s.Pools {
		if p.Kind == k {
			return p
		}
	}
	return PoolStats{Kind: k}
}

func collectPoolStats[T any, P interface {
	*T
	record
}](a *arena[T, P]) PoolStats {
	ps := PoolStats{
		Kind:     a.kind,
		Live:     a.Len(),
		Capacity: a.Cap(),
		Subtypes: make([]SubtypeCount, 0, a.counts.Len()),
	}
	a.counts.ForEach(func(subtype uint16, n int) bool {
		ps.Subtypes = append(ps.Subtypes, SubtypeCount{Subtype: subtype, Count: n})
		return true
	})
	slices.SortFunc(ps.Subtypes, func(a, b SubtypeCount) int {
		return cmp.Compare(a.Subtype, b.Subtype)
	})
	return ps
}
