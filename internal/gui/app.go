package gui

import (
	"context"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/bounce/internal/logging"
	"github.com/san-kum/bounce/internal/session"
	"github.com/san-kum/bounce/internal/sim"
)

// Theme Colors (Monochrome Hyper-Minimalist)
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)    // Deep Black
	ColText    = rl.NewColor(140, 140, 140, 255) // Neutral Gray
	ColTextDim = rl.NewColor(60, 60, 60, 255)    // Dark Gray (Subtle)
	ColRec     = rl.NewColor(220, 40, 40, 255)
)

type App struct {
	Session *session.Session
	Scale   float32
	Running bool
	Quit    bool

	// Offscreen target at world resolution; the window shows it scaled and
	// recordings read it back unscaled.
	TargetTex rl.RenderTexture2D

	width, height int32
}

// NewApp opens the window for s and allocates the world-sized render target.
func NewApp(s *session.Session) *App {
	cfg := s.Config()
	w, h := s.FrameSize()
	scale := float32(cfg.Window.Scale)
	if scale <= 0 {
		scale = 1
	}

	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(int32(float32(w)*scale), int32(float32(h)*scale), cfg.Window.Title)
	rl.SetTargetFPS(int32(cfg.Simulation.TickRate))
	rl.SetExitKey(0)

	return &App{
		Session:   s,
		Scale:     scale,
		Running:   true,
		TargetTex: rl.LoadRenderTexture(int32(w), int32(h)),
		width:     int32(w),
		height:    int32(h),
	}
}

// Run drives s in a raylib window until the user quits, the context is
// cancelled or the recording reaches its frame limit.
func Run(ctx context.Context, s *session.Session) error {
	app := NewApp(s)
	defer app.Close()
	return app.RunLoop(ctx)
}

func (a *App) RunLoop(ctx context.Context) error {
	log := logging.L()
	for !rl.WindowShouldClose() && !a.Quit {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		a.Update()
		a.drawWorld()
		if a.Session.Recording() {
			if err := a.captureFrame(); err != nil {
				return fmt.Errorf("capture frame: %w", err)
			}
		}
		a.Draw()

		if a.Session.Complete() {
			log.Info("recording limit reached, closing window")
			return nil
		}
	}
	return nil
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		a.Quit = true
		return
	}
	if rl.IsKeyPressed(rl.KeySpace) && !a.Session.Recording() {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.Session.Reset()
	}
	if !a.Running {
		return
	}

	// Recordings step by the fixed tick so the video does not depend on
	// the window's frame pacing.
	dt := a.Session.Config().Simulation.TickDt()
	if !a.Session.Recording() {
		dt = float64(rl.GetFrameTime())
	}
	a.Session.Tick(dt)
}

// captureFrame reads the render target back and hands it to the session.
func (a *App) captureFrame() error {
	img := rl.LoadImageFromTexture(a.TargetTex.Texture)
	defer rl.UnloadImage(img)
	rl.ImageFlipVertical(img)

	colors := rl.LoadImageColors(img)
	defer rl.UnloadImageColors(colors)

	return a.Session.Capture(session.RGBABytes(colors))
}

func (a *App) Close() {
	rl.UnloadRenderTexture(a.TargetTex)
	rl.CloseWindow()
}

func toColor(c sim.Color) rl.Color {
	r, g, b, al := c.RGBA8()
	return rl.NewColor(r, g, b, al)
}
