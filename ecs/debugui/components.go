package debugui

import (
	"github.com/plus3/ecskit/ecs"
)

// DebugWindow marks an entity as one of the debug windows. Open controls visibility.
type DebugWindow struct {
	Title string
	Open  bool
}

type EntityBrowserComponent struct {
	cache              *EntityBrowserCache
	filterText         string
	maxEntitiesPerPage int
	currentPage        int
}

type ComponentInspectorComponent struct{}

type SystemStatsComponent struct {
	rows          []ecs.SystemStats
	sortColumn    int
	sortAscending bool
}

type PerformanceStatsComponent struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
}

type MatchDebuggerComponent struct {
	selected map[ecs.ComponentType]bool
	matches  []ecs.Entity
}
