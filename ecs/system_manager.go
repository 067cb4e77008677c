package ecs

import (
	"reflect"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// SystemManagerStats provides statistics about dispatches made through a SystemManager.
type SystemManagerStats struct {
	SystemCount     int
	TotalCalls      int64
	TotalDispatched int64
	Systems         []SystemStats
}

// SystemStats provides dispatch statistics for a single system.
type SystemStats struct {
	Name          string
	Calls         int64
	Dispatched    int64
	Skipped       int64
	LastMatched   int
	MinDuration   time.Duration
	MaxDuration   time.Duration
	AvgDuration   time.Duration
	LastDuration  time.Duration
	TotalDuration time.Duration
}

type systemStatsInternal struct {
	name          string
	calls         int64
	dispatched    int64
	skipped       int64
	lastMatched   int
	minDuration   time.Duration
	maxDuration   time.Duration
	totalDuration time.Duration
	lastDuration  time.Duration
}

// statsKey identifies a system for statistics. Pointer and comparable systems are
// keyed by value, so two instances of one type get separate rows. Named systems are
// keyed by name. Anything else, such as a bare SystemFunc, shares a row per type.
type statsKey struct {
	name string
	id   any
}

type viewKey struct {
	cm  *ComponentManager
	typ reflect.Type
}

// SystemManager matches entities to systems and dispatches their updates.
// It never adds, removes or clears components itself.
type SystemManager struct {
	views      map[viewKey]any
	stats      map[statsKey]*systemStatsInternal
	statsOrder []*systemStatsInternal
	names      map[string]int
	logger     *zap.Logger
}

// NewSystemManager creates a system manager.
func NewSystemManager(opts ...Option) *SystemManager {
	o := buildOptions(opts)
	return &SystemManager{
		views:  make(map[viewKey]any),
		stats:  make(map[statsKey]*systemStatsInternal),
		names:  make(map[string]int),
		logger: o.logger,
	}
}

// viewFor returns the cached view of T over cm, building it on first use.
func viewFor[T any](sm *SystemManager, cm *ComponentManager) (*View[T], error) {
	key := viewKey{cm: cm, typ: reflect.TypeFor[T]()}
	if cached, ok := sm.views[key]; ok {
		return cached.(*View[T]), nil
	}

	view, err := NewView[T](cm)
	if err != nil {
		return nil, err
	}
	sm.views[key] = view

	sm.logger.Debug("built system view",
		zap.String("view", key.typ.String()),
		zap.Int("required", len(view.requiredTypes)),
	)
	return view, nil
}

// UpdateEntities calls system.Update for every entity in entities that holds all of
// the system's required components, in the order given. Entities with a partial
// match or a stale handle are skipped. It returns the number of updates dispatched.
// A nil frame is replaced by a zero frame whose commands are discarded.
func UpdateEntities[T any](sm *SystemManager, frame *UpdateFrame, entities []Entity, cm *ComponentManager, system System[T]) (int, error) {
	view, err := viewFor[T](sm, cm)
	if err != nil {
		return 0, err
	}
	if frame == nil {
		frame = NewUpdateFrame(0)
	}

	start := time.Now()
	dispatched := 0

	var match T
	for _, e := range entities {
		if !view.Fill(e, &match) {
			continue
		}
		system.Update(frame, match)
		dispatched++
	}

	sm.record(system, dispatched, len(entities)-dispatched, time.Since(start))
	return dispatched, nil
}

// UpdateMatching calls system.Update for every entity in cm that holds all of the
// system's required components. Iteration follows View.Iter.
func UpdateMatching[T any](sm *SystemManager, frame *UpdateFrame, cm *ComponentManager, system System[T]) (int, error) {
	view, err := viewFor[T](sm, cm)
	if err != nil {
		return 0, err
	}
	if frame == nil {
		frame = NewUpdateFrame(0)
	}

	start := time.Now()
	dispatched := 0

	for _, match := range view.Iter() {
		system.Update(frame, match)
		dispatched++
	}

	sm.record(system, dispatched, 0, time.Since(start))
	return dispatched, nil
}

func systemName(system any) string {
	if named, ok := system.(NamedSystem); ok {
		return named.SystemName()
	}

	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}
	if name := systemType.Name(); name != "" {
		return name
	}
	return systemType.String()
}

func keyOf(system any) statsKey {
	if named, ok := system.(NamedSystem); ok {
		return statsKey{name: named.SystemName()}
	}
	if reflect.ValueOf(system).Comparable() {
		return statsKey{id: system}
	}
	return statsKey{name: systemName(system)}
}

func (sm *SystemManager) record(system any, dispatched, skipped int, duration time.Duration) {
	key := keyOf(system)
	stats, ok := sm.stats[key]
	if !ok {
		name := systemName(system)
		sm.names[name]++
		if n := sm.names[name]; n > 1 {
			name += " #" + strconv.Itoa(n)
		}

		stats = &systemStatsInternal{
			name:        name,
			minDuration: time.Duration(1<<63 - 1),
		}
		sm.stats[key] = stats
		sm.statsOrder = append(sm.statsOrder, stats)
	}

	stats.calls++
	stats.dispatched += int64(dispatched)
	stats.skipped += int64(skipped)
	stats.lastMatched = dispatched
	stats.lastDuration = duration
	stats.totalDuration += duration

	if duration < stats.minDuration {
		stats.minDuration = duration
	}
	if duration > stats.maxDuration {
		stats.maxDuration = duration
	}
}

// Stats returns statistics about system dispatches, in first-seen order.
func (sm *SystemManager) Stats() *SystemManagerStats {
	stats := &SystemManagerStats{
		SystemCount: len(sm.statsOrder),
		Systems:     make([]SystemStats, len(sm.statsOrder)),
	}

	for i, internal := range sm.statsOrder {
		avgDuration := time.Duration(0)
		if internal.calls > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.calls)
		}

		stats.Systems[i] = SystemStats{
			Name:          internal.name,
			Calls:         internal.calls,
			Dispatched:    internal.dispatched,
			Skipped:       internal.skipped,
			LastMatched:   internal.lastMatched,
			MinDuration:   internal.minDuration,
			MaxDuration:   internal.maxDuration,
			AvgDuration:   avgDuration,
			LastDuration:  internal.lastDuration,
			TotalDuration: internal.totalDuration,
		}
		stats.TotalCalls += internal.calls
		stats.TotalDispatched += internal.dispatched
	}

	return stats
}

// ResetStats drops all collected statistics.
func (sm *SystemManager) ResetStats() {
	sm.stats = make(map[statsKey]*systemStatsInternal)
	sm.statsOrder = nil
	sm.names = make(map[string]int)
}
