package debugui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/dunepool/encoded"
	"github.com/plus3/dunepool/pool"
)

// ReferenceDecoder turns a typed-in 16-bit value into what it points at.
type ReferenceDecoder struct {
	world *pool.World
	input string
}

func NewReferenceDecoder(w *pool.World) *ReferenceDecoder {
	return &ReferenceDecoder{world: w}
}

func (rd *ReferenceDecoder) Render() {
	if !imgui.BeginV("Reference Decoder", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.SetNextItemWidth(150)
	imgui.InputTextWithHint("##ref", "0xC487 or 50311", &rd.input, imgui.InputTextFlagsNone, nil)
	imgui.Separator()

	if rd.input != "" {
		ref, err := ParseReference(rd.input)
		if err != nil {
			imgui.Text(err.Error())
		} else {
			for _, line := range DescribeReference(rd.world, ref) {
				imgui.BulletText(line)
			}
		}
	}

	imgui.End()
}

// ParseReference accepts a decimal, 0x hex or 0b binary 16-bit value.
func ParseReference(s string) (encoded.Index, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 16)
	if err != nil {
		return encoded.None, fmt.Errorf("not a 16-bit value: %q", s)
	}
	return encoded.Index(v), nil
}

// DescribeReference lists what ref decodes to and what it resolves to in
// w.
func DescribeReference(w *pool.World, ref encoded.Index) []string {
	lines := []string{
		fmt.Sprintf("raw: %#04x (%016b)", uint16(ref), uint16(ref)),
		fmt.Sprintf("type: %s", ref.Type()),
		fmt.Sprintf("decoded: %d", ref.Decode()),
		fmt.Sprintf("valid: %t", w.IsValid(ref)),
	}

	switch ref.Type() {
	case encoded.TypeUnit:
		if u := w.Unit(ref); u != nil {
			lines = append(lines, fmt.Sprintf("unit: %s of %s", u.UnitType(), u.Owner()))
		}
	case encoded.TypeStructure:
		if s := w.Structure(ref); s != nil {
			lines = append(lines, fmt.Sprintf("structure: %s of %s", s.StructureType(), s.HouseID))
		}
	}

	if pos, ok := w.Tile(ref); ok {
		lines = append(lines, fmt.Sprintf("position: %s", pos))
	}
	if p, ok := w.PackedTile(ref); ok {
		lines = append(lines, fmt.Sprintf("tile: %s packed %d", p, p))
	}
	return lines
}
