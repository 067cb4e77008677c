// Package debugui provides immediate-mode GUI integration for ECS applications using Dear ImGui.
// It manages ImGui rendering and input state through ECS components and systems.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/ecskit/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks Dear ImGui's input capture state.
// Use this to determine if ImGui is consuming mouse or keyboard input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem defers the render function of every ImguiItem to the end of the frame.
type ImguiSystem struct{}

// Update queues the item's render function for execution when the frame's commands flush.
func (ImguiSystem) Update(frame *ecs.UpdateFrame, item struct{ *ImguiItem }) {
	if item.ImguiItem.Render != nil {
		frame.Commands.Defer(item.ImguiItem.Render)
	}
}

// InputStateSystem copies ImGui's capture flags into every ImguiInputState component.
type InputStateSystem struct {
	// Capture reads the current flags. Nil reads them from the current ImGui context.
	Capture func() ImguiInputState
}

func (s InputStateSystem) Update(_ *ecs.UpdateFrame, state struct{ *ImguiInputState }) {
	capture := s.Capture
	if capture == nil {
		capture = currentInputState
	}
	*state.ImguiInputState = capture()
}

func currentInputState() ImguiInputState {
	io := imgui.CurrentIO()
	return ImguiInputState{
		WantCaptureMouse:    io.WantCaptureMouse(),
		WantCaptureKeyboard: io.WantCaptureKeyboard(),
	}
}
