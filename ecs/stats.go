package ecs

// ComponentStats is a snapshot of a ComponentManager's contents.
type ComponentStats struct {
	EntityCount        int
	ComponentTypeCount int
	ComponentCount     int
	Types              []ComponentTypeStats
}

// ComponentTypeStats describes the arena of a single component type.
type ComponentTypeStats struct {
	Type  ComponentType
	Name  string
	Count int
}

// CollectStats gathers entity and per-type component counts.
func (cm *ComponentManager) CollectStats() *ComponentStats {
	stats := &ComponentStats{
		EntityCount:        cm.Len(),
		ComponentTypeCount: len(cm.types),
		Types:              make([]ComponentTypeStats, 0, len(cm.types)),
	}

	for _, info := range cm.types {
		count := cm.arenas[info.id].Len()
		stats.ComponentCount += count
		stats.Types = append(stats.Types, ComponentTypeStats{
			Type:  info.id,
			Name:  info.typ.String(),
			Count: count,
		})
	}

	return stats
}
