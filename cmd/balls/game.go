package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/ecskit/ecs"
	"github.com/plus3/ecskit/ecs/debugui"
	debugui_ebiten "github.com/plus3/ecskit/ecs/debugui/ebiten"
	"github.com/plus3/ecskit/internal/config"
	"github.com/plus3/ecskit/internal/demo"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// DrawSystem draws every ball onto the current screen image.
type DrawSystem struct {
	screen *ebiten.Image
}

func (s *DrawSystem) Update(_ *ecs.UpdateFrame, ball struct {
	*demo.Position
	*demo.BallRenderer
}) {
	vector.DrawFilledCircle(s.screen,
		float32(ball.Position.X), float32(ball.Position.Y),
		float32(ball.BallRenderer.Radius), ball.BallRenderer.Color, true)
}

// Game implements ebiten.Game. Physics and drawing go through the system manager
// over the ball list; the debug overlay runs through its own scheduler.
type Game struct {
	cfg    *config.Config
	logger *zap.Logger

	em *ecs.EntityManager
	cm *ecs.ComponentManager
	sm *ecs.SystemManager

	balls   *demo.Balls
	physics demo.PhysicsSystem
	draw    *DrawSystem

	imgui       *debugui_ebiten.ImguiBackend
	overlay     *ecs.Scheduler
	showOverlay bool
	inputState  ecs.Entity

	tick uint64
}

func (g *Game) Update() error {
	dt := 1.0 / float64(ebiten.TPS())

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.showOverlay = !g.showOverlay
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) && !g.keyboardCaptured() {
		if err := g.balls.Recycle(1); err != nil {
			return err
		}
	}

	frame := ecs.NewUpdateFrame(dt)
	frame.Tick = g.tick
	if _, err := ecs.UpdateEntities(g.sm, frame, g.balls.Entities(), g.cm, g.physics); err != nil {
		return eris.Wrap(err, "physics")
	}
	g.tick++

	if !g.showOverlay || g.imgui == nil {
		return nil
	}
	return g.imgui.Frame(func() error {
		return g.overlay.Once(dt)
	})
}

// keyboardCaptured reports whether ImGui consumed the keyboard on the last overlay frame.
func (g *Game) keyboardCaptured() bool {
	if !g.showOverlay {
		return false
	}
	state, ok := ecs.GetComponent[debugui.ImguiInputState](g.cm, g.inputState)
	return ok && state.WantCaptureKeyboard
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.draw.screen = screen
	if _, err := ecs.UpdateEntities(g.sm, nil, g.balls.Entities(), g.cm, g.draw); err != nil {
		g.logger.Error("draw balls", zap.Error(err))
	}

	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"balls: %d  entities: %d  TPS: %.0f\nSPACE recycle oldest  F1 debug overlay  ESC quit",
		g.balls.Len(), g.em.Len(), ebiten.ActualTPS(),
	))

	if g.showOverlay && g.imgui != nil {
		g.imgui.Overlay(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.imgui != nil {
		g.imgui.Layout(outsideWidth, outsideHeight)
	}
	return g.cfg.Display.Width, g.cfg.Display.Height
}
