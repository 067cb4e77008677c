package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
)

func NewPerformanceStatsComponent(historyFrames int) PerformanceStatsComponent {
	return PerformanceStatsComponent{
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
		frameIndex:    0,
	}
}

func (ps *PerformanceStatsComponent) Render(w *DebugWindow, in *Inspector, deltaTime float32) {
	if !imgui.BeginV(w.Title, &w.Open, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ps.record(deltaTime)
	stats := in.Components.CollectStats()

	imgui.Text(fmt.Sprintf("Live Entities: %d", in.Entities.Len()))
	imgui.Text(fmt.Sprintf("Recyclable Indices: %d / %d", in.Entities.Dead(), in.Entities.Cap()))
	imgui.Text(fmt.Sprintf("Component Types: %d", stats.ComponentTypeCount))
	imgui.Text(fmt.Sprintf("Components: %d", stats.ComponentCount))

	avgFrameTime := ps.averageFrameTime()
	if avgFrameTime > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avgFrameTime, 1000.0/avgFrameTime))
	}

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	if len(ps.frameHistory) > 0 {
		imgui.PlotLinesFloatPtr("##frametime", &ps.frameHistory[0], int32(len(ps.frameHistory)))
	}

	if imgui.TreeNodeStr("Component Details") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("ComponentStatsTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Type ID")
			imgui.TableSetupColumn("Component")
			imgui.TableSetupColumn("Count")
			imgui.TableHeadersRow()

			for _, ts := range stats.Types {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", ts.Type))
				imgui.TableNextColumn()
				imgui.Text(ts.Name)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", ts.Count))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
}

func (ps *PerformanceStatsComponent) record(deltaTime float32) {
	if ps.historyFrames <= 0 {
		return
	}
	ps.frameHistory[ps.frameIndex] = deltaTime * 1000.0
	ps.frameIndex = (ps.frameIndex + 1) % ps.historyFrames
}

// averageFrameTime returns the mean frame time in milliseconds over the history.
func (ps *PerformanceStatsComponent) averageFrameTime() float32 {
	if ps.historyFrames <= 0 {
		return 0
	}

	var total float32
	for _, ft := range ps.frameHistory {
		total += ft
	}
	return total / float32(ps.historyFrames)
}
