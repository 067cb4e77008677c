package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pkg/profile"
	"github.com/plus3/ecskit/internal/config"
	"github.com/plus3/ecskit/internal/logging"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to a TOML config file. Defaults are used when empty.")
	duration := flag.Duration("duration", 0, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 0, "The initial number of entities to create.")
	churn := flag.Int("churn", -1, "Entities killed and respawned every frame.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	profileMode := flag.String("profile", "", "Capture a profile: cpu, mem or trace.")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatal(eris.ToString(err, true))
	}
	if *duration > 0 {
		cfg.Stress.Duration = *duration
	}
	if *entityCount > 0 {
		cfg.Stress.Entities = *entityCount
	}
	if *churn >= 0 {
		cfg.Stress.ChurnPerFrame = *churn
	}
	if *profileMode != "" {
		cfg.Stress.Profile = *profileMode
	}
	cfg.Stress.GCPauseMetrics = cfg.Stress.GCPauseMetrics || *gcPauseMetrics

	if err := run(cfg); err != nil {
		log.Fatal(eris.ToString(err, true))
	}
}

func run(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return eris.Wrap(err, "build logger")
	}
	defer func() { _ = logger.Sync() }()

	if mode := profileOption(cfg.Stress.Profile); mode != nil {
		defer profile.Start(mode, profile.ProfilePath(cfg.Stress.ProfilePath), profile.Quiet, profile.NoShutdownHook).Stop()
	}

	logger.Info("starting ECS stress test",
		zap.Duration("duration", cfg.Stress.Duration),
		zap.Int("entities", cfg.Stress.Entities),
		zap.Int("churn_per_frame", cfg.Stress.ChurnPerFrame),
		zap.String("profile", cfg.Stress.Profile),
	)

	st, err := newStress(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Stress.Duration)
	defer cancel()

	if err := st.run(ctx); err != nil {
		return err
	}
	logger.Info("simulation finished", zap.Int64("updates", st.report.TotalUpdates))

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := st.report.Generate(os.Stdout); err != nil {
		return eris.Wrap(err, "generate report")
	}
	fmt.Println("--- End of Report ---")
	return nil
}

// profileOption maps a profile name to its pkg/profile mode. Unknown or empty names disable profiling.
func profileOption(name string) func(*profile.Profile) {
	switch name {
	case "cpu":
		return profile.CPUProfile
	case "mem":
		return profile.MemProfileAllocs
	case "trace":
		return profile.TraceProfile
	default:
		return nil
	}
}

// frameDelta converts wall time between frames into the delta handed to systems.
func frameDelta(last, now time.Time) float64 {
	return float64(now.Sub(last)) / float64(time.Second)
}
