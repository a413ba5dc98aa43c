package pool

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// Movement decides a few allocation rules: air units and sandworms are
// exempt from a house's unit cap.
type Movement string

const (
	MovementFoot      Movement = "foot"
	MovementTracked   Movement = "tracked"
	MovementHarvester Movement = "harvester"
	MovementWheeled   Movement = "wheeled"
	MovementWinger    Movement = "winger"
	MovementSlither   Movement = "slither"
)

// UnitInfo is the static per-type data the pool needs.
type UnitInfo struct {
	Name           string   `yaml:"name"`
	Movement       Movement `yaml:"movement"`
	IndexStart     uint16   `yaml:"index_start"`
	IndexEnd       uint16   `yaml:"index_end"`
	RaisedIndexEnd uint16   `yaml:"raised_index_end"`
}

// ExemptFromHouseCap reports whether the unit may be created above its
// house's UnitCountMax.
func (ui *UnitInfo) ExemptFromHouseCap() bool {
	return ui.Movement == MovementWinger || ui.Movement == MovementSlither
}

type unitInfoFile struct {
	Units []UnitInfo `yaml:"units"`
}

//go:embed unitinfo.yaml
var defaultUnitInfo []byte

var unitInfo = sync.OnceValue(func() []UnitInfo {
	table, err := LoadUnitInfo(defaultUnitInfo)
	if err != nil {
		panic(err)
	}
	return table
})

// LoadUnitInfo parses a unit info table. It must list exactly UnitMax
// entries with sane index ranges.
func LoadUnitInfo(data []byte) ([]UnitInfo, error) {
	var f unitInfoFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse unit info: %w", err)
	}
	if len(f.Units) != int(UnitMax) {
		return nil, fmt.Errorf("unit info: want %d entries, got %d", UnitMax, len(f.Units))
	}
	for i := range f.Units {
		ui := &f.Units[i]
		if ui.RaisedIndexEnd == 0 {
			ui.RaisedIndexEnd = ui.IndexEnd
		}
		if ui.IndexStart > ui.IndexEnd || ui.IndexEnd > ui.RaisedIndexEnd {
			return nil, fmt.Errorf("unit info %q: bad index range %d..%d (raised %d)",
				ui.Name, ui.IndexStart, ui.IndexEnd, ui.RaisedIndexEnd)
		}
		if ui.IndexEnd >= unitIndexMaxNormal || ui.RaisedIndexEnd >= unitIndexMaxRaised {
			return nil, fmt.Errorf("unit info %q: index range exceeds pool capacity", ui.Name)
		}
	}
	return f.Units, nil
}

// UnitInfoFor returns the static data of a unit type.
func UnitInfoFor(t UnitType) *UnitInfo {
	if t >= UnitMax {
		panic(fmt.Sprintf("pool: unit type %d out of range", t))
	}
	return &unitInfo()[t]
}
