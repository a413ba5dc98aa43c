package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/dunepool/pool"
)

// PoolStats shows occupancy per pool and a frame time graph.
type PoolStats struct {
	world         *pool.World
	historyFrames int
	frameHistory  []float32
	frameIndex    int
}

func NewPoolStats(w *pool.World, historyFrames int) *PoolStats {
	historyFrames = max(historyFrames, 1)
	return &PoolStats{
		world:         w,
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
	}
}

func (ps *PoolStats) Render(deltaTime float32) {
	if !imgui.BeginV("Pool Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ps.frameHistory[ps.frameIndex] = deltaTime * 1000.0
	ps.frameIndex = (ps.frameIndex + 1) % ps.historyFrames

	stats := ps.world.CollectStats()

	imgui.Text(fmt.Sprintf("Capacity mode: %s", stats.Mode))
	imgui.Text(fmt.Sprintf("Validation depth: %d", stats.ValidationDepth))
	imgui.Text(fmt.Sprintf("Snapshot outstanding: %t", stats.SnapshotOutstanding))

	var avgFrameTime float32
	for _, ft := range ps.frameHistory {
		avgFrameTime += ft
	}
	avgFrameTime /= float32(ps.historyFrames)
	if avgFrameTime > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avgFrameTime, 1000.0/avgFrameTime))
	}

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &ps.frameHistory[0], int32(len(ps.frameHistory)))

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
	if imgui.BeginTableV("PoolOccupancy", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Pool")
		imgui.TableSetupColumn("Live")
		imgui.TableSetupColumn("Capacity")
		imgui.TableHeadersRow()

		for _, p := range stats.Pools {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			imgui.Text(p.Kind.String())
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", p.Live))
			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", p.Capacity))
		}
		imgui.EndTable()
	}

	for _, p := range stats.Pools {
		if len(p.Subtypes) == 0 {
			continue
		}
		if imgui.TreeNodeStr(p.Kind.String() + " subtypes") {
			for _, st := range p.Subtypes {
				imgui.BulletText(fmt.Sprintf("%s: %d", SubtypeName(p.Kind, st.Subtype), st.Count))
			}
			imgui.TreePop()
		}
	}

	imgui.End()
}

// SubtypeName names a per-kind subtype as CollectStats reports it.
func SubtypeName(k pool.Kind, subtype uint16) string {
	switch k {
	case pool.KindUnit:
		return pool.UnitType(subtype).String()
	case pool.KindStructure:
		return pool.StructureType(subtype).String()
	default:
		return k.String()
	}
}

type FrameTimer struct {
	lastFrameTime time.Time
}

func NewFrameTimer() *FrameTimer {
	return &FrameTimer{
		lastFrameTime: time.Now(),
	}
}

// DeltaTime returns the seconds since the previous call.
func (ft *FrameTimer) DeltaTime() float32 {
	now := time.Now()
	delta := float32(now.Sub(ft.lastFrameTime).Seconds())
	ft.lastFrameTime = now
	return delta
}
