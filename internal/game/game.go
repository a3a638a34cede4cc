// Package game hosts a session in an ebiten window.
package game

import (
	"context"
	"errors"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/san-kum/bounce/internal/logging"
	"github.com/san-kum/bounce/internal/session"
	"github.com/san-kum/bounce/internal/sim"
)

type Game struct {
	ctx     context.Context
	session *session.Session
	paused  bool
	err     error
}

func NewGame(ctx context.Context, s *session.Session) *Game {
	return &Game{ctx: ctx, session: s}
}

// Run opens the window and blocks until the game terminates.
func Run(ctx context.Context, s *session.Session) error {
	cfg := s.Config()
	w, h := s.FrameSize()
	scale := cfg.Window.Scale
	if scale <= 0 {
		scale = 1
	}

	ebiten.SetWindowSize(int(float64(w)*scale), int(float64(h)*scale))
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetTPS(cfg.Simulation.TickRate)

	g := NewGame(ctx, s)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return g.err
}

// Update advances the world by one fixed tick.
func (g *Game) Update() error {
	if err := g.ctx.Err(); err != nil {
		g.err = err
		return ebiten.Termination
	}
	if g.err != nil {
		return ebiten.Termination
	}
	if g.session.Complete() {
		logging.L().Info("recording limit reached, closing window")
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) && !g.session.Recording() {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.session.Reset()
	}

	if !g.paused {
		g.session.Tick(1 / float64(ebiten.TPS()))
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	for _, cmd := range g.session.Simulator().Render(g.session.World()) {
		switch cmd.Kind {
		case sim.DrawClear:
			screen.Fill(toColor(cmd.Color))
		case sim.DrawCircle:
			vector.DrawFilledCircle(screen, float32(cmd.Center.X), float32(cmd.Center.Y), float32(cmd.Radius), toColor(cmd.Color), true)
		}
	}

	// Read back before the HUD so recordings only hold the world.
	if g.session.Recording() {
		w, h := g.session.FrameSize()
		pixels := make([]byte, w*h*4)
		screen.ReadPixels(pixels)
		if err := g.session.Capture(pixels); err != nil {
			g.err = fmt.Errorf("capture frame: %w", err)
		}
	}

	world := g.session.World()
	hud := fmt.Sprintf("BALLS %d / %d\nFRAME %d  T %.2fs", len(world.Balls), g.session.Simulator().MaxBalls(), world.Frame, world.Clock)
	if p := g.session.Pipeline(); p != nil && g.session.Recording() {
		hud += fmt.Sprintf("\nREC %d / %d", p.Captured(), p.Limit())
	} else if g.paused {
		hud += "\nPAUSED"
	}
	ebitenutil.DebugPrintAt(screen, hud, 12, 12)
}

// Layout pins the logical screen to the world size so read-back frames
// match the capture resolution whatever the window scale.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.session.FrameSize()
}

func toColor(c sim.Color) color.RGBA {
	r, g, b, a := c.RGBA8()
	return color.RGBA{R: r, G: g, B: b, A: a}
}
