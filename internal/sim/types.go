package sim

import "math"

type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }
func (v Vec2) Len() float64         { return math.Hypot(v.X, v.Y) }

// FromAngle returns a vector of the given length pointing at theta radians.
func FromAngle(theta, speed float64) Vec2 {
	return Vec2{math.Cos(theta) * speed, math.Sin(theta) * speed}
}

// Color channels are in [0, 1].
type Color struct {
	R, G, B, A float64
}

var (
	White = Color{1, 1, 1, 1}
	Black = Color{0, 0, 0, 1}
)

// RGBA8 converts the color to 8-bit channels.
func (c Color) RGBA8() (r, g, b, a uint8) {
	return to8(c.R), to8(c.G), to8(c.B), to8(c.A)
}

func to8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

type Ball struct {
	Position Vec2
	Velocity Vec2
	Color    Color
	// LastSpawn is the simulation clock, in seconds, when the ball was
	// created or last spawned a child.
	LastSpawn float64
}

// World is the full simulation state for one frame.
type World struct {
	Balls []Ball
	Frame int
	Clock float64
}

func (w World) Clone() World {
	c := w
	c.Balls = make([]Ball, len(w.Balls))
	copy(c.Balls, w.Balls)
	return c
}

// Bounds is the playfield a ball of the given radius must stay inside.
type Bounds struct {
	Width, Height, Radius float64
}

// Contains reports whether p keeps the ball fully on screen.
func (b Bounds) Contains(p Vec2) bool {
	return p.X >= b.Radius && p.X <= b.Width-b.Radius &&
		p.Y >= b.Radius && p.Y <= b.Height-b.Radius
}

type DrawKind int

const (
	DrawClear DrawKind = iota
	DrawCircle
)

func (k DrawKind) String() string {
	switch k {
	case DrawClear:
		return "clear"
	case DrawCircle:
		return "circle"
	default:
		return "unknown"
	}
}

// DrawCommand is one host-independent drawing instruction.
type DrawCommand struct {
	Kind   DrawKind
	Center Vec2
	Radius float64
	Color  Color
}
