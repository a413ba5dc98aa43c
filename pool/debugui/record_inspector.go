package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/dunepool/encoded"
	"github.com/plus3/dunepool/pool"
)

var indexType = reflect.TypeFor[encoded.Index]()

// RecordInspector shows the fields of the selected record. Integer and
// bool fields are editable in place; encoded references are shown
// decoded along with whether they still resolve.
type RecordInspector struct {
	world  *pool.World
	fields map[reflect.Type][]reflect.StructField
}

func NewRecordInspector(w *pool.World) *RecordInspector {
	return &RecordInspector{
		world:  w,
		fields: make(map[reflect.Type][]reflect.StructField),
	}
}

func (ri *RecordInspector) Render(sel Selection) {
	if !imgui.BeginV("Record Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if !sel.Valid {
		imgui.Text("No record selected")
		imgui.End()
		return
	}

	rec := Record(ri.world, sel)
	imgui.Text(fmt.Sprintf("%s #%d", sel.Kind, sel.Index))
	imgui.Separator()

	val := reflect.ValueOf(rec).Elem()
	for _, field := range ri.exported(val.Type()) {
		ri.renderField(field.Name, val.FieldByIndex(field.Index))
	}

	imgui.End()
}

// Record returns a pointer to the selected record. The slot is returned
// whether or not it is still used.
func Record(w *pool.World, sel Selection) any {
	switch sel.Kind {
	case pool.KindHouse:
		return w.Houses().Get(sel.Index)
	case pool.KindStructure:
		return w.Structures().Get(sel.Index)
	case pool.KindUnit:
		return w.Units().Get(sel.Index)
	default:
		return w.Teams().Get(sel.Index)
	}
}

func (ri *RecordInspector) exported(t reflect.Type) []reflect.StructField {
	if cached, ok := ri.fields[t]; ok {
		return cached
	}
	var fields []reflect.StructField
	for _, f := range reflect.VisibleFields(t) {
		if f.IsExported() && !f.Anonymous {
			fields = append(fields, f)
		}
	}
	ri.fields[t] = fields
	return fields
}

func (ri *RecordInspector) renderField(name string, val reflect.Value) {
	if val.Type() == indexType {
		ref := encoded.Index(val.Uint())
		imgui.Text(fmt.Sprintf("%s: %s (valid: %t)", name, ref, ri.world.IsValid(ref)))
		return
	}
	// Flags drive live-list membership and are shown read-only.
	if flags, ok := val.Interface().(pool.Flags); ok {
		imgui.Text(fmt.Sprintf("%s: %s", name, flagString(flags)))
		return
	}

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) && !val.OverflowInt(int64(v)) {
			val.SetInt(int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if name == "Index" || name == "Serial" {
			imgui.Text(fmt.Sprintf("%s: %d", name, val.Uint()))
			return
		}
		v := int32(val.Uint())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) && v >= 0 && !val.OverflowUint(uint64(v)) {
			val.SetUint(uint64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) {
			val.SetBool(v)
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			for _, nf := range ri.exported(val.Type()) {
				ri.renderField(nf.Name, val.FieldByIndex(nf.Index))
			}
			imgui.TreePop()
		}

	case reflect.Array:
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))

	default:
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
	}
}
