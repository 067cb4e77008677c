package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/plus3/ecskit/ecs"
	"github.com/plus3/ecskit/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStatsFinalize(t *testing.T) {
	s := Stats{Samples: []time.Duration{3 * time.Millisecond, time.Millisecond, 2 * time.Millisecond}}
	s.Finalize()

	assert.Equal(t, time.Millisecond, s.Min)
	assert.Equal(t, 3*time.Millisecond, s.Max)
	assert.Equal(t, 2*time.Millisecond, s.Avg)

	empty := Stats{}
	empty.Finalize()
	assert.Zero(t, empty.Avg)
}

func TestReportGenerate(t *testing.T) {
	report := &Report{
		Duration:      time.Second,
		Entities:      10,
		ChurnPerFrame: 2,
		TotalUpdates:  5,
		Components: &ecs.ComponentStats{
			Types: []ecs.ComponentTypeStats{{Name: "demo.Position", Count: 10}},
		},
		Systems: &ecs.SystemManagerStats{
			Systems: []ecs.SystemStats{{Name: "PhysicsSystem", Calls: 5, Dispatched: 50}},
		},
		GCPauseMetrics: true,
	}

	var buf bytes.Buffer
	require.NoError(t, report.Generate(&buf))

	out := buf.String()
	assert.Contains(t, out, "**Initial Entities:** 10")
	assert.Contains(t, out, "**Compact Every:** never")
	assert.Contains(t, out, "- demo.Position: 10")
	assert.Contains(t, out, "- PhysicsSystem: 5 calls, 50 dispatched")
	assert.Contains(t, out, "## GC Pause Durations")
}

func TestProfileOption(t *testing.T) {
	assert.NotNil(t, profileOption("cpu"))
	assert.NotNil(t, profileOption("mem"))
	assert.NotNil(t, profileOption("trace"))
	assert.Nil(t, profileOption(""))
	assert.Nil(t, profileOption("block"))
}

func newTestStress(t *testing.T, entities, churn, compactEvery int) *stress {
	t.Helper()

	cfg := config.Default()
	cfg.Balls.Seed = 7
	cfg.Stress.Entities = entities
	cfg.Stress.ChurnPerFrame = churn
	cfg.Stress.CompactEvery = compactEvery

	st, err := newStress(cfg, zap.NewNop())
	require.NoError(t, err)
	return st
}

func TestStressStep(t *testing.T) {
	st := newTestStress(t, 50, 5, 2)

	for i := 0; i < 4; i++ {
		_, err := st.step(1.0 / 60.0)
		require.NoError(t, err)
	}

	assert.Equal(t, uint64(4), st.scheduler.Tick())
	assert.Equal(t, 50, st.em.Len(), "churn keeps the population constant")
	assert.Equal(t, 50, st.em.Cap(), "recycled indices are reused")
	assert.Equal(t, int64(20), st.report.Recycled)
	assert.Equal(t, 2, st.report.Compactions)

	stats := st.sm.Stats()
	require.Equal(t, 1, stats.SystemCount)
	assert.Equal(t, "PhysicsSystem", stats.Systems[0].Name)
	assert.Equal(t, int64(200), stats.Systems[0].Dispatched)
}

func TestStressRun(t *testing.T) {
	st := newTestStress(t, 20, 1, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	require.NoError(t, st.run(ctx))
	assert.Positive(t, st.report.TotalUpdates)
	assert.Len(t, st.report.UpdateTime.Samples, int(st.report.TotalUpdates))
	assert.Equal(t, 20, st.report.LiveEntities)
	require.NotNil(t, st.report.Components)
	assert.Equal(t, 20, st.report.Components.EntityCount)
	require.NotNil(t, st.report.Systems)
}
