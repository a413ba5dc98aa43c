// Package ebiten runs the pool debug windows inside an Ebiten game loop
// and draws a minimap of the world's tile map underneath them.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/dunepool/mapgen"
	"github.com/plus3/dunepool/pool"
	"github.com/plus3/dunepool/tile"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// Game implements ebiten.Game. Each Update runs one scheduler tick inside
// an ImGui frame, so windows registered through debugui.Install render
// after the tick's commands are flushed.
type Game struct {
	World     *pool.World
	Scheduler *pool.Scheduler
	Backend   ImguiBackend
	// Scale is the size of one map tile on screen, in pixels.
	Scale int

	minimap *ebiten.Image
	pixels  []byte
}

func (g *Game) Update() error {
	g.Backend.BeginFrame()
	g.Scheduler.Once()
	g.Backend.EndFrame()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.minimap == nil {
		g.minimap = ebiten.NewImage(tile.MapSize, tile.MapSize)
		g.pixels = make([]byte, tile.MapSize*tile.MapSize*4)
	}
	MinimapPixels(g.World.Map(), g.pixels)
	g.minimap.WritePixels(g.pixels)

	op := &ebiten.DrawImageOptions{}
	scale := float64(max(g.Scale, 1))
	op.GeoM.Scale(scale, scale)
	screen.DrawImage(g.minimap, op)

	g.Backend.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.Backend.Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

var (
	colorSand  = [4]byte{0xC8, 0xA8, 0x60, 0xFF}
	colorRock  = [4]byte{0x70, 0x60, 0x50, 0xFF}
	colorSpice = [4]byte{0xD0, 0x70, 0x30, 0xFF}
	colorUnit  = [4]byte{0xFF, 0xFF, 0xFF, 0xFF}

	houseColors = [pool.HouseMax][4]byte{
		{0x90, 0x20, 0x20, 0xFF}, // Harkonnen
		{0x20, 0x40, 0xA0, 0xFF}, // Atreides
		{0x20, 0x80, 0x30, 0xFF}, // Ordos
		{0x80, 0x70, 0x50, 0xFF}, // Fremen
		{0x60, 0x20, 0x70, 0xFF}, // Sardaukar
		{0xA0, 0x90, 0x20, 0xFF}, // Mercenary
	}
)

// MinimapPixels writes one RGBA pixel per map cell into dst, which must
// hold tile.MapSize*tile.MapSize*4 bytes. Units draw white, structures in
// their house colour, everything else by the mapgen ground type.
func MinimapPixels(m *tile.Map, dst []byte) {
	for i := range m.Cells {
		c := &m.Cells[i]
		var px [4]byte
		switch {
		case c.HasUnit:
			px = colorUnit
		case c.HasStructure && int(c.HouseID) < len(houseColors):
			px = houseColors[c.HouseID]
		case c.GroundTileID == mapgen.GroundRock:
			px = colorRock
		case c.GroundTileID == mapgen.GroundSpice:
			px = colorSpice
		default:
			px = colorSand
		}
		copy(dst[i*4:], px[:])
	}
}
