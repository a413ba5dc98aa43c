package debugui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/dunepool/pool"
)

// Row is one live record as the browser shows it.
type Row struct {
	Kind     pool.Kind
	Index    uint16
	Subtype  string
	Owner    pool.HouseType
	Flags    string
	Position string
}

// Selection names the record picked in the browser.
type Selection struct {
	Kind  pool.Kind
	Index uint16
	Valid bool
}

// PoolBrowser lists the records of one pool at a time.
type PoolBrowser struct {
	world         *pool.World
	kind          pool.Kind
	rows          []Row
	filterText    string
	sortColumn    int
	sortAscending bool
	perPage       int
	page          int
	selected      Selection
}

func NewPoolBrowser(w *pool.World, perPage int) *PoolBrowser {
	return &PoolBrowser{
		world:         w,
		kind:          pool.KindUnit,
		sortAscending: true,
		perPage:       max(perPage, 1),
	}
}

// Selected returns the record last clicked.
func (pb *PoolBrowser) Selected() Selection {
	return pb.selected
}

func (pb *PoolBrowser) Render() {
	if !imgui.BeginV("Pool Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	for k := pool.KindHouse; k <= pool.KindTeam; k++ {
		if k > pool.KindHouse {
			imgui.SameLine()
		}
		label := k.String()
		if k == pb.kind {
			label = "[" + label + "]"
		}
		if imgui.Button(label) {
			pb.kind = k
			pb.page = 0
		}
	}

	imgui.InputTextWithHint("##search", "Search...", &pb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		pb.filterText = ""
	}

	// Records change every tick, so the rows are rebuilt on every frame.
	pb.rows = BuildRows(pb.world, pb.kind)
	SortRows(pb.rows, pb.sortColumn, pb.sortAscending)
	rows := FilterRows(pb.rows, pb.filterText)

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("PoolTable", 5, tableFlags, imgui.NewVec2(0, 300), 0) {
		imgui.TableSetupColumn("Index")
		imgui.TableSetupColumn("Type")
		imgui.TableSetupColumn("Owner")
		imgui.TableSetupColumn("Flags")
		imgui.TableSetupColumn("Position")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			pb.sortColumn = int(spec.ColumnIndex())
			pb.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			SortRows(rows, pb.sortColumn, pb.sortAscending)
			sortSpecs.SetSpecsDirty(false)
		}

		start := min(pb.page*pb.perPage, len(rows))
		end := min(start+pb.perPage, len(rows))
		for _, row := range rows[start:end] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := pb.selected.Valid && pb.selected.Kind == row.Kind && pb.selected.Index == row.Index
			if imgui.SelectableBoolV(fmt.Sprintf("%d", row.Index), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				pb.selected = Selection{Kind: row.Kind, Index: row.Index, Valid: true}
			}

			imgui.TableNextColumn()
			imgui.Text(row.Subtype)
			imgui.TableNextColumn()
			imgui.Text(row.Owner.String())
			imgui.TableNextColumn()
			imgui.Text(row.Flags)
			imgui.TableNextColumn()
			imgui.Text(row.Position)
		}

		imgui.EndTable()
	}

	if len(rows) > pb.perPage {
		totalPages := (len(rows) + pb.perPage - 1) / pb.perPage
		pb.page = min(pb.page, totalPages-1)
		imgui.Text(fmt.Sprintf("Page %d / %d (%d records)", pb.page+1, totalPages, len(rows)))
		imgui.SameLine()
		if imgui.Button("Prev") && pb.page > 0 {
			pb.page--
		}
		imgui.SameLine()
		if imgui.Button("Next") && pb.page < totalPages-1 {
			pb.page++
		}
	} else {
		pb.page = 0
		imgui.Text(fmt.Sprintf("Total: %d records", len(rows)))
	}

	imgui.End()
}

// BuildRows lists the records of kind k in live order. Structures include
// the shared slots at the end, as a Find would return them.
func BuildRows(w *pool.World, k pool.Kind) []Row {
	var rows []Row
	switch k {
	case pool.KindHouse:
		for h := range w.Houses().All(pool.HouseInvalid) {
			rows = append(rows, Row{
				Kind:    k,
				Index:   h.Index,
				Subtype: h.ID().String(),
				Owner:   h.ID(),
				Flags:   flagString(h.Flags),
			})
		}
	case pool.KindStructure:
		for s := range w.Structures().All(pool.HouseInvalid, pool.StructureInvalid) {
			rows = append(rows, Row{
				Kind:     k,
				Index:    s.Index,
				Subtype:  s.StructureType().String(),
				Owner:    s.HouseID,
				Flags:    flagString(s.Flags),
				Position: s.Position.String(),
			})
		}
	case pool.KindUnit:
		for u := range w.Units().All(pool.HouseInvalid, pool.UnitInvalid) {
			rows = append(rows, Row{
				Kind:     k,
				Index:    u.Index,
				Subtype:  u.UnitType().String(),
				Owner:    u.Owner(),
				Flags:    flagString(u.Flags),
				Position: u.Position.String(),
			})
		}
	case pool.KindTeam:
		for t := range w.Teams().All(pool.HouseInvalid) {
			rows = append(rows, Row{
				Kind:    k,
				Index:   t.Index,
				Subtype: "team",
				Owner:   t.HouseID,
				Flags:   flagString(t.Flags),
			})
		}
	}
	return rows
}

// SortRows orders rows by the browser column: index, type, owner, flags,
// position.
func SortRows(rows []Row, column int, ascending bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !ascending {
			a, b = b, a
		}
		switch column {
		case 1:
			return a.Subtype < b.Subtype
		case 2:
			return a.Owner < b.Owner
		case 3:
			return a.Flags < b.Flags
		case 4:
			return a.Position < b.Position
		default:
			return a.Index < b.Index
		}
	})
}

// FilterRows keeps the rows whose index, type or owner contain text,
// ignoring case.
func FilterRows(rows []Row, text string) []Row {
	if text == "" {
		return rows
	}

	filterLower := strings.ToLower(text)
	filtered := make([]Row, 0, len(rows))
	for _, row := range rows {
		idStr := fmt.Sprintf("%d", row.Index)
		if !strings.Contains(idStr, filterLower) &&
			!strings.Contains(strings.ToLower(row.Subtype), filterLower) &&
			!strings.Contains(strings.ToLower(row.Owner.String()), filterLower) {
			continue
		}
		filtered = append(filtered, row)
	}
	return filtered
}

func flagString(f pool.Flags) string {
	var parts []string
	if f.Used {
		parts = append(parts, "used")
	}
	if f.Allocated {
		parts = append(parts, "allocated")
	}
	if f.IsNotOnMap {
		parts = append(parts, "off-map")
	}
	if f.IsUnit {
		parts = append(parts, "unit")
	}
	return strings.Join(parts, " ")
}
