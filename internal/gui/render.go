package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/bounce/internal/sim"
)

// drawWorld renders the current world into the offscreen target.
func (a *App) drawWorld() {
	rl.BeginTextureMode(a.TargetTex)
	defer rl.EndTextureMode()

	for _, cmd := range a.Session.Simulator().Render(a.Session.World()) {
		switch cmd.Kind {
		case sim.DrawClear:
			rl.ClearBackground(toColor(cmd.Color))
		case sim.DrawCircle:
			center := rl.NewVector2(float32(cmd.Center.X), float32(cmd.Center.Y))
			rl.DrawCircleV(center, float32(cmd.Radius), toColor(cmd.Color))
		}
	}
}

// Draw presents the target scaled to the window with the HUD on top.
func (a *App) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	rl.ClearBackground(ColBg)

	// Render textures are stored bottom-up.
	src := rl.NewRectangle(0, 0, float32(a.width), -float32(a.height))
	dst := rl.NewRectangle(0, 0, float32(a.width)*a.Scale, float32(a.height)*a.Scale)
	rl.DrawTexturePro(a.TargetTex.Texture, src, dst, rl.NewVector2(0, 0), 0, rl.White)

	a.DrawHUD()
}

func (a *App) DrawHUD() {
	w := a.Session.World()
	rl.DrawText(fmt.Sprintf("BALLS %d / %d", len(w.Balls), a.Session.Simulator().MaxBalls()), 12, 12, 20, ColText)
	rl.DrawText(fmt.Sprintf("FRAME %d  T %.2fs", w.Frame, w.Clock), 12, 36, 16, ColTextDim)

	switch {
	case a.Session.Recording():
		p := a.Session.Pipeline()
		rl.DrawCircle(20, 70, 6, ColRec)
		rl.DrawText(fmt.Sprintf("REC %d / %d", p.Captured(), p.Limit()), 34, 62, 16, ColRec)
	case !a.Running:
		rl.DrawText("PAUSED", 12, 62, 16, ColText)
	}
}
