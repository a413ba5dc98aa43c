package pool_test

import (
	"errors"
	"fmt"

	"github.com/plus3/dunepool/pool"
	"github.com/plus3/dunepool/tile"
)

// ExampleWorld shows the life cycle of a unit and the reference that
// points at it.
func ExampleWorld() {
	w := pool.NewWorld()
	w.Houses().Allocate(pool.HouseAtreides).UnitCountMax = 25

	trike := w.Units().Allocate(pool.IndexInvalid, pool.UnitTrike, pool.HouseAtreides)
	trike.Position = tile.PackXY(12, 30).Tile32()

	ref := w.EncodeUnit(trike.Index)
	fmt.Println(ref, w.IsValid(ref))

	pos, _ := w.Tile(ref)
	fmt.Println(pos.Pack())

	w.Units().Free(trike)
	fmt.Println(ref, w.IsValid(ref))

	// Output:
	// unit#22 true
	// (12,30)
	// unit#22 false
}

// ExampleStructurePool_All shows that walls and slabs are reported once,
// after every regular structure, however many of them stand on the map.
func ExampleStructurePool_All() {
	w := pool.NewWorld()
	w.Structures().Allocate(pool.IndexInvalid, pool.StructureConstructionYard, pool.HouseOrdos)
	w.Structures().Allocate(pool.IndexInvalid, pool.StructureWall, pool.HouseOrdos)
	w.Structures().Allocate(pool.IndexInvalid, pool.StructureWall, pool.HouseOrdos)

	for s := range w.Structures().All(pool.HouseOrdos, pool.StructureInvalid) {
		fmt.Println(s.Index, s.StructureType())
	}

	// Output:
	// 0 Construction Yard
	// 79 Wall
}

// ExampleWorld_Speculate places a unit and throws the attempt away.
func ExampleWorld_Speculate() {
	w := pool.NewWorld()
	w.Houses().Allocate(pool.HouseFremen).UnitCountMax = 10

	err := w.Speculate(func(w *pool.World) error {
		w.Units().Allocate(pool.IndexInvalid, pool.UnitTroopers, pool.HouseFremen)
		fmt.Println("during:", w.Units().Len())
		return errors.New("bad spot")
	})

	fmt.Println("after:", w.Units().Len(), err)

	// Output:
	// during: 1
	// after: 0 bad spot
}
