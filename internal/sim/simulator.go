package sim

import (
	"context"
	"math"
	"math/rand"

	"github.com/gogpu/gg"
	"github.com/san-kum/bounce/internal/config"
)

type Simulator struct {
	cfg        config.Simulation
	bounds     Bounds
	rng        *rand.Rand
	background Color
	seedColor  Color
}

func NewSimulator(cfg config.Simulation, rng *rand.Rand) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}
	return &Simulator{
		cfg:        cfg,
		bounds:     Bounds{Width: cfg.Width, Height: cfg.Height, Radius: cfg.Radius},
		rng:        rng,
		background: parseColor(cfg.Background, Black),
		seedColor:  parseColor(cfg.SeedBall.Color, White),
	}
}

func parseColor(hex string, fallback Color) Color {
	if hex == "" {
		return fallback
	}
	c := gg.Hex(hex)
	return Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

func (s *Simulator) Bounds() Bounds    { return s.bounds }
func (s *Simulator) Background() Color { return s.background }
func (s *Simulator) MaxBalls() int     { return s.cfg.MaxBalls }

// Seed returns the initial world holding a single ball.
func (s *Simulator) Seed() World {
	sb := s.cfg.SeedBall
	pos := Vec2{X: sb.X, Y: sb.Y}
	if pos.X == 0 {
		pos.X = s.cfg.Width / 2
	}
	if pos.Y == 0 {
		pos.Y = s.cfg.Height / 2
	}
	return World{
		Balls: []Ball{{
			Position: pos,
			Velocity: Vec2{X: sb.VX, Y: sb.VY},
			Color:    s.seedColor,
		}},
	}
}

// Step moves b by one tick and reflects it off any wall it touches.
func Step(b *Ball, bounds Bounds, dt float64) (hitX, hitY bool) {
	b.Position = b.Position.Add(b.Velocity.Scale(dt))
	b.Position.X, b.Velocity.X, hitX = reflect(b.Position.X, b.Velocity.X, bounds.Radius, bounds.Width)
	b.Position.Y, b.Velocity.Y, hitY = reflect(b.Position.Y, b.Velocity.Y, bounds.Radius, bounds.Height)
	return hitX, hitY
}

func reflect(p, v, r, dim float64) (float64, float64, bool) {
	if p-r <= 0 || p+r >= dim {
		return math.Min(math.Max(p, r), dim-r), -v, true
	}
	return p, v, false
}

// Advance returns the world one tick of dt seconds later. The input world
// is left untouched.
func (s *Simulator) Advance(w World, dt float64) World {
	next := w.Clone()
	next.Frame++
	next.Clock = w.Clock + dt

	existing := len(next.Balls)
	var spawned []Ball
	for i := range next.Balls {
		b := &next.Balls[i]
		hitX, hitY := Step(b, s.bounds, dt)
		if !hitX && !hitY {
			continue
		}
		if next.Clock-b.LastSpawn <= s.cfg.Cooldown {
			continue
		}
		if existing+len(spawned) >= s.cfg.MaxBalls {
			continue
		}
		spawned = append(spawned, s.spawn(b.Position, next.Clock))
		b.LastSpawn = next.Clock
	}

	next.Balls = append(next.Balls, spawned...)
	return next
}

func (s *Simulator) spawn(at Vec2, now float64) Ball {
	color := Color{R: s.rng.Float64(), G: s.rng.Float64(), B: s.rng.Float64(), A: 1}
	angle := s.rng.Float64() * 2 * math.Pi
	return Ball{
		Position:  at,
		Velocity:  FromAngle(angle, s.cfg.SpawnSpeed),
		Color:     color,
		LastSpawn: now,
	}
}

// Render lists the draw commands for w: a clear followed by one filled
// circle per ball, in insertion order.
func Render(w World, background Color, radius float64) []DrawCommand {
	cmds := make([]DrawCommand, 0, len(w.Balls)+1)
	cmds = append(cmds, DrawCommand{Kind: DrawClear, Color: background})
	for _, b := range w.Balls {
		cmds = append(cmds, DrawCommand{
			Kind:   DrawCircle,
			Center: b.Position,
			Radius: radius,
			Color:  b.Color,
		})
	}
	return cmds
}

// Render is a shorthand for Render with the simulator's own settings.
func (s *Simulator) Render(w World) []DrawCommand {
	return Render(w, s.background, s.cfg.Radius)
}

// RunWithCallback advances w by steps ticks of dt, calling callback after
// every tick when non-nil. It stops early when callback returns false or
// ctx is done.
func (s *Simulator) RunWithCallback(ctx context.Context, w World, steps int, dt float64, callback func(World) bool) (World, error) {
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return w, ctx.Err()
		default:
		}

		w = s.Advance(w, dt)
		if callback != nil && !callback(w) {
			return w, nil
		}
	}
	return w, nil
}
