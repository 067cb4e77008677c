package main

import (
	"context"
	"math/rand"
	"runtime"
	"time"

	"github.com/plus3/ecskit/ecs"
	"github.com/plus3/ecskit/internal/config"
	"github.com/plus3/ecskit/internal/demo"
	"go.uber.org/zap"
)

// stress drives ball churn and the physics system through a scheduler and
// accumulates the report.
type stress struct {
	cfg    config.StressConfig
	logger *zap.Logger

	em        *ecs.EntityManager
	cm        *ecs.ComponentManager
	sm        *ecs.SystemManager
	scheduler *ecs.Scheduler
	balls     *demo.Balls

	report *Report
}

func newStress(cfg *config.Config, logger *zap.Logger) (*stress, error) {
	opt := ecs.WithLogger(logger.Named("ecs"))
	em := ecs.NewEntityManager(opt)
	cm := ecs.NewComponentManager(opt)
	sm := ecs.NewSystemManager(opt)

	if err := demo.RegisterComponents(cm); err != nil {
		return nil, err
	}

	bounds := demo.Bounds{Width: float64(cfg.Display.Width), Height: float64(cfg.Display.Height)}
	scheduler := ecs.NewScheduler(em, cm, sm, opt)
	if err := ecs.AddSystem(scheduler, demo.PhysicsSystem{Bounds: bounds}); err != nil {
		return nil, err
	}

	seed := cfg.Balls.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	balls := demo.NewBalls(em, cm, rand.New(rand.NewSource(seed)), bounds, demo.BallSpec{
		MinRadius: cfg.Balls.MinRadius,
		MaxRadius: cfg.Balls.MaxRadius,
		MaxSpeed:  cfg.Balls.MaxSpeed,
	}, logger)

	logger.Info("populating", zap.Int("entities", cfg.Stress.Entities))
	if err := balls.Spawn(cfg.Stress.Entities); err != nil {
		return nil, err
	}

	return &stress{
		cfg:       cfg.Stress,
		logger:    logger,
		em:        em,
		cm:        cm,
		sm:        sm,
		scheduler: scheduler,
		balls:     balls,
		report: &Report{
			Duration:       cfg.Stress.Duration,
			Entities:       cfg.Stress.Entities,
			ChurnPerFrame:  cfg.Stress.ChurnPerFrame,
			CompactEvery:   cfg.Stress.CompactEvery,
			GCPauseMetrics: cfg.Stress.GCPauseMetrics,
			UpdateTime: Stats{
				Samples: make([]time.Duration, 0),
			},
		},
	}, nil
}

// step recycles ChurnPerFrame balls, runs one scheduler frame and compacts
// the arenas when due. It returns the time spent in the scheduler.
func (s *stress) step(dt float64) (time.Duration, error) {
	if s.cfg.ChurnPerFrame > 0 {
		if err := s.balls.Recycle(s.cfg.ChurnPerFrame); err != nil {
			return 0, err
		}
		s.report.Recycled += int64(s.cfg.ChurnPerFrame)
	}

	start := time.Now()
	if err := s.scheduler.Once(dt); err != nil {
		return 0, err
	}
	elapsed := time.Since(start)

	if s.cfg.CompactEvery > 0 && s.scheduler.Tick()%uint64(s.cfg.CompactEvery) == 0 {
		s.cm.Compact()
		s.report.Compactions++
	}
	return elapsed, nil
}

// run steps until ctx is done, then finalizes the report.
func (s *stress) run(ctx context.Context) error {
	runtime.ReadMemStats(&s.report.MemStatsStart)

	startTime := time.Now()
	lastFrame := startTime

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			now := time.Now()
			elapsed, err := s.step(frameDelta(lastFrame, now))
			if err != nil {
				return err
			}
			lastFrame = now

			s.report.UpdateTime.Samples = append(s.report.UpdateTime.Samples, elapsed)
			s.report.TotalUpdates++
		}
	}

	s.finish(time.Since(startTime))
	return nil
}

func (s *stress) finish(total time.Duration) {
	s.report.TotalTime = total
	s.report.UpdateTime.Finalize()
	runtime.ReadMemStats(&s.report.MemStatsEnd)

	s.report.LiveEntities = s.em.Len()
	s.report.EntityCapacity = s.em.Cap()
	s.report.Components = s.cm.CollectStats()
	s.report.Systems = s.sm.Stats()
}
