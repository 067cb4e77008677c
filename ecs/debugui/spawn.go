package debugui

import (
	"github.com/plus3/ecskit/ecs"
	"github.com/rotisserie/eris"
)

// Inspector gives the debug windows read access to the managers and carries the
// entity selection shared by the browser and the component inspector.
type Inspector struct {
	Entities   *ecs.EntityManager
	Components *ecs.ComponentManager
	Systems    *ecs.SystemManager

	selected     ecs.Entity
	hasSelection bool
}

func NewInspector(em *ecs.EntityManager, cm *ecs.ComponentManager, sm *ecs.SystemManager) *Inspector {
	return &Inspector{
		Entities:   em,
		Components: cm,
		Systems:    sm,
	}
}

// Select makes e the entity shown by the component inspector.
func (in *Inspector) Select(e ecs.Entity) {
	in.selected = e
	in.hasSelection = true
}

// Selected returns the selected entity. The second result is false when nothing
// is selected or the selection has since been killed.
func (in *Inspector) Selected() (ecs.Entity, bool) {
	if !in.hasSelection || !in.Entities.Alive(in.selected) {
		return 0, false
	}
	return in.selected, true
}

// WindowSystem renders every open debug window. The host must have begun an
// ImGui frame before the systems run.
type WindowSystem struct {
	Inspector *Inspector
}

type window struct {
	*DebugWindow
	Browser   *EntityBrowserComponent      `ecs:"optional"`
	Component *ComponentInspectorComponent `ecs:"optional"`
	Systems   *SystemStatsComponent        `ecs:"optional"`
	Perf      *PerformanceStatsComponent   `ecs:"optional"`
	Matches   *MatchDebuggerComponent      `ecs:"optional"`
}

func (s *WindowSystem) Update(frame *ecs.UpdateFrame, w window) {
	if !w.Open {
		return
	}

	switch {
	case w.Browser != nil:
		w.Browser.Render(w.DebugWindow, s.Inspector)
	case w.Component != nil:
		w.Component.Render(w.DebugWindow, s.Inspector)
	case w.Systems != nil:
		w.Systems.Render(w.DebugWindow, s.Inspector)
	case w.Perf != nil:
		w.Perf.Render(w.DebugWindow, s.Inspector, float32(frame.DeltaTime))
	case w.Matches != nil:
		w.Matches.Render(w.DebugWindow, s.Inspector)
	}
}

// RegisterDebugUIComponents adds every debugui component type to cm.
func RegisterDebugUIComponents(cm *ecs.ComponentManager) error {
	for _, register := range []func(*ecs.ComponentManager) (ecs.ComponentType, error){
		ecs.RegisterComponent[ImguiItem],
		ecs.RegisterComponent[ImguiInputState],
		ecs.RegisterComponent[DebugWindow],
		ecs.RegisterComponent[EntityBrowserComponent],
		ecs.RegisterComponent[ComponentInspectorComponent],
		ecs.RegisterComponent[SystemStatsComponent],
		ecs.RegisterComponent[PerformanceStatsComponent],
		ecs.RegisterComponent[MatchDebuggerComponent],
	} {
		if _, err := register(cm); err != nil {
			return eris.Wrap(err, "register debugui components")
		}
	}
	return nil
}

// SpawnDebugUI creates one entity per debug window, all initially open.
func SpawnDebugUI(em *ecs.EntityManager, cm *ecs.ComponentManager) ([]ecs.Entity, error) {
	windows := []struct {
		title     string
		component any
	}{
		{"Entity Browser", NewEntityBrowserComponent(100)},
		{"Component Inspector", NewComponentInspectorComponent()},
		{"System Stats", NewSystemStatsComponent()},
		{"Performance Stats", NewPerformanceStatsComponent(120)},
		{"Match Debugger", NewMatchDebuggerComponent()},
	}

	entities := make([]ecs.Entity, 0, len(windows))
	for _, w := range windows {
		e := em.AddEntity()
		if err := cm.AddComponents(e, DebugWindow{Title: w.title, Open: true}, w.component); err != nil {
			_ = em.KillEntity(cm, e)
			return entities, eris.Wrapf(err, "spawn %s window", w.title)
		}
		entities = append(entities, e)
	}
	return entities, nil
}

// AddDebugUISystems registers the input, item and window systems with the scheduler.
func AddDebugUISystems(s *ecs.Scheduler, in *Inspector) error {
	if err := ecs.AddSystem(s, InputStateSystem{}); err != nil {
		return err
	}
	if err := ecs.AddSystem(s, ImguiSystem{}); err != nil {
		return err
	}
	return ecs.AddSystem(s, &WindowSystem{Inspector: in})
}
