package main

import (
	"flag"
	"log"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/ecskit/ecs"
	"github.com/plus3/ecskit/ecs/debugui"
	debugui_ebiten "github.com/plus3/ecskit/ecs/debugui/ebiten"
	"github.com/plus3/ecskit/internal/config"
	"github.com/plus3/ecskit/internal/demo"
	"github.com/plus3/ecskit/internal/logging"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to a TOML config file. Defaults are used when empty.")
	count := flag.Int("balls", 0, "Number of balls to spawn. Overrides the config when positive.")
	overlay := flag.Bool("debug", false, "Show the ImGui debug overlay at startup.")
	flag.Parse()

	if err := run(*configPath, *count, *overlay); err != nil {
		log.Fatal(eris.ToString(err, true))
	}
}

func run(configPath string, count int, overlay bool) error {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}
	if count > 0 {
		cfg.Balls.Count = count
	}
	cfg.Debug.Overlay = cfg.Debug.Overlay || overlay

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return eris.Wrap(err, "build logger")
	}
	defer func() { _ = logger.Sync() }()

	imguiBackend := debugui_ebiten.NewImguiBackend(cfg.Display.Title, cfg.Display.Width, cfg.Display.Height)
	ebiten.SetTPS(cfg.Display.TPS)

	game, err := newGame(cfg, logger)
	if err != nil {
		return err
	}
	game.imgui = imguiBackend

	logger.Info("starting",
		zap.Int("balls", cfg.Balls.Count),
		zap.Int("width", cfg.Display.Width),
		zap.Int("height", cfg.Display.Height),
		zap.Bool("overlay", cfg.Debug.Overlay),
	)
	if err := ebiten.RunGame(game); err != nil && !eris.Is(err, ebiten.Termination) {
		return eris.Wrap(err, "run game")
	}
	logger.Info("stopped", zap.Uint64("ticks", game.tick))
	return nil
}

func newGame(cfg *config.Config, logger *zap.Logger) (*Game, error) {
	opt := ecs.WithLogger(logger.Named("ecs"))
	em := ecs.NewEntityManager(opt)
	cm := ecs.NewComponentManager(opt)
	sm := ecs.NewSystemManager(opt)

	if err := demo.RegisterComponents(cm); err != nil {
		return nil, err
	}
	if err := debugui.RegisterDebugUIComponents(cm); err != nil {
		return nil, err
	}

	bounds := demo.Bounds{Width: float64(cfg.Display.Width), Height: float64(cfg.Display.Height)}
	seed := cfg.Balls.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	balls := demo.NewBalls(em, cm, rand.New(rand.NewSource(seed)), bounds, demo.BallSpec{
		MinRadius: cfg.Balls.MinRadius,
		MaxRadius: cfg.Balls.MaxRadius,
		MaxSpeed:  cfg.Balls.MaxSpeed,
	}, logger)
	if err := balls.Spawn(cfg.Balls.Count); err != nil {
		return nil, err
	}

	inputState := em.AddEntity()
	if err := cm.AddComponent(inputState, debugui.ImguiInputState{}); err != nil {
		return nil, eris.Wrap(err, "spawn input state")
	}
	if _, err := debugui.SpawnDebugUI(em, cm); err != nil {
		return nil, err
	}

	overlay := ecs.NewScheduler(em, cm, sm, opt)
	if err := debugui.AddDebugUISystems(overlay, debugui.NewInspector(em, cm, sm)); err != nil {
		return nil, err
	}

	return &Game{
		cfg:         cfg,
		logger:      logger,
		em:          em,
		cm:          cm,
		sm:          sm,
		balls:       balls,
		physics:     demo.PhysicsSystem{Bounds: bounds},
		draw:        &DrawSystem{},
		overlay:     overlay,
		showOverlay: cfg.Debug.Overlay,
		inputState:  inputState,
	}, nil
}
