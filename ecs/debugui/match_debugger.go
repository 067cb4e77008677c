package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/ecskit/ecs"
)

const maxListedMatches = 50

func NewMatchDebuggerComponent() MatchDebuggerComponent {
	return MatchDebuggerComponent{
		selected: make(map[ecs.ComponentType]bool),
	}
}

// Render lets the user pick a set of component types and shows which live
// entities a system requiring exactly that set would be dispatched for.
func (md *MatchDebuggerComponent) Render(w *DebugWindow, in *Inspector) {
	if !imgui.BeginV(w.Title, &w.Open, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.Text("Select Component Types:")
	imgui.Separator()

	if imgui.Button("Clear All") {
		md.selected = make(map[ecs.ComponentType]bool)
	}

	for _, ct := range in.Components.ComponentTypes() {
		selected := md.selected[ct]
		if imgui.Checkbox(in.Components.TypeName(ct), &selected) {
			if selected {
				md.selected[ct] = true
			} else {
				delete(md.selected, ct)
			}
		}
	}

	imgui.Separator()

	if len(md.selected) == 0 {
		imgui.Text("No component types selected")
		imgui.End()
		return
	}

	md.matches = md.findMatches(in.Entities, in.Components, md.matches[:0])
	imgui.Text(fmt.Sprintf("Matching Entities: %d / %d", len(md.matches), in.Entities.Len()))

	if imgui.TreeNodeStr("Matches") {
		for i, e := range md.matches {
			if i == maxListedMatches {
				imgui.Text(fmt.Sprintf("... %d more", len(md.matches)-maxListedMatches))
				break
			}
			if imgui.SelectableBoolV(e.String(), false, imgui.SelectableFlagsNone, imgui.NewVec2(0, 0)) {
				in.Select(e)
			}
		}
		imgui.TreePop()
	}

	imgui.End()
}

// findMatches appends every live entity holding all selected types to dst.
func (md *MatchDebuggerComponent) findMatches(em *ecs.EntityManager, cm *ecs.ComponentManager, dst []ecs.Entity) []ecs.Entity {
	for _, e := range em.Entities() {
		matched := true
		for ct := range md.selected {
			if !cm.HasComponent(e, ct) {
				matched = false
				break
			}
		}
		if matched {
			dst = append(dst, e)
		}
	}
	return dst
}
