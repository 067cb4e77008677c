package debugui

import (
	"fmt"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/ecskit/ecs"
)

func NewSystemStatsComponent() SystemStatsComponent {
	return SystemStatsComponent{
		sortColumn:    3,
		sortAscending: false,
	}
}

func (ss *SystemStatsComponent) Render(w *DebugWindow, in *Inspector) {
	if !imgui.BeginV(w.Title, &w.Open, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	stats := ss.refresh(in.Systems)
	imgui.Text(fmt.Sprintf("Systems: %d", stats.SystemCount))
	imgui.Text(fmt.Sprintf("Updates: %d calls, %d dispatched", stats.TotalCalls, stats.TotalDispatched))
	imgui.SameLine()
	if imgui.Button("Reset") {
		in.Systems.ResetStats()
	}
	imgui.Separator()

	var maxAvg float64
	for _, row := range ss.rows {
		maxAvg = max(maxAvg, float64(row.AvgDuration))
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("SystemTable", 5, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("System")
		imgui.TableSetupColumn("Calls")
		imgui.TableSetupColumn("Matched")
		imgui.TableSetupColumn("Avg")
		imgui.TableSetupColumn("Max")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			ss.sortColumn = int(spec.ColumnIndex())
			ss.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			ss.sortRows()
			sortSpecs.SetSpecsDirty(false)
		}

		for _, row := range ss.rows {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			imgui.Text(row.Name)

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", row.Calls))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", row.LastMatched))

			imgui.TableNextColumn()
			imgui.Text(row.AvgDuration.String())
			if maxAvg > 0 {
				barWidth := float32(float64(row.AvgDuration) / maxAvg * 80.0)
				imgui.SameLine()
				drawList := imgui.WindowDrawList()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
			}

			imgui.TableNextColumn()
			imgui.Text(row.MaxDuration.String())
		}

		imgui.EndTable()
	}

	imgui.End()
}

func (ss *SystemStatsComponent) refresh(sm *ecs.SystemManager) *ecs.SystemManagerStats {
	stats := sm.Stats()
	ss.rows = append(ss.rows[:0], stats.Systems...)
	ss.sortRows()
	return stats
}

func (ss *SystemStatsComponent) sortRows() {
	sort.SliceStable(ss.rows, func(i, j int) bool {
		a, b := ss.rows[i], ss.rows[j]
		if !ss.sortAscending {
			a, b = b, a
		}

		switch ss.sortColumn {
		case 0:
			return a.Name < b.Name
		case 1:
			return a.Calls < b.Calls
		case 2:
			return a.LastMatched < b.LastMatched
		case 4:
			return a.MaxDuration < b.MaxDuration
		default:
			return a.AvgDuration < b.AvgDuration
		}
	})
}
