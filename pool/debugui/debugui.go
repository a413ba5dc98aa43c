// Package debugui provides Dear ImGui windows for inspecting a pool.World
// while it runs: a pool browser, a record inspector, an encoded reference
// decoder and occupancy stats. Windows render through a pool.System so
// they draw after the tick's commands are flushed.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/dunepool/pool"
)

// ImguiItem holds a Dear ImGui render function.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks whether ImGui is consuming mouse or keyboard
// input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem defers every item's render function to the end of the tick
// and refreshes the input state.
type ImguiSystem struct {
	Items      []ImguiItem
	InputState ImguiInputState
}

// Add registers a render function.
func (i *ImguiSystem) Add(render func()) {
	i.Items = append(i.Items, ImguiItem{Render: render})
}

// Execute implements pool.System.
func (i *ImguiSystem) Execute(frame *pool.TickFrame) {
	i.InputState.WantCaptureMouse = imgui.CurrentIO().WantCaptureMouse()
	i.InputState.WantCaptureKeyboard = imgui.CurrentIO().WantCaptureKeyboard()

	for _, item := range i.Items {
		frame.Commands.Defer(item.Render)
	}
}

// Install creates the standard set of windows for w and registers them
// on a new ImguiSystem.
func Install(w *pool.World, s *pool.Scheduler) *ImguiSystem {
	browser := NewPoolBrowser(w, 50)
	inspector := NewRecordInspector(w)
	decoder := NewReferenceDecoder(w)
	stats := NewPoolStats(w, 120)
	timer := NewFrameTimer()

	sys := &ImguiSystem{}
	sys.Add(browser.Render)
	sys.Add(func() { inspector.Render(browser.Selected()) })
	sys.Add(decoder.Render)
	sys.Add(func() { stats.Render(timer.DeltaTime()) })
	s.Register(sys)
	return sys
}
