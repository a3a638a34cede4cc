// Package render rasterizes simulation draw commands without a window.
package render

import (
	"fmt"
	"image"

	"github.com/gogpu/gg"
	"github.com/san-kum/bounce/internal/sim"
)

// Rasterizer draws onto an offscreen gg context and hands back RGBA8
// frames, the same layout a window host reads back from its framebuffer.
type Rasterizer struct {
	dc            *gg.Context
	flush         func() error
	width, height int
}

func New(width, height int) *Rasterizer {
	dc := gg.NewContext(width, height)
	return &Rasterizer{
		dc:     dc,
		flush:  dc.FlushGPU,
		width:  width,
		height: height,
	}
}

func (r *Rasterizer) Width() int  { return r.width }
func (r *Rasterizer) Height() int { return r.height }

// Draw executes cmds and returns a freshly allocated width*height*4 buffer.
func (r *Rasterizer) Draw(cmds []sim.DrawCommand) ([]byte, error) {
	for _, c := range cmds {
		switch c.Kind {
		case sim.DrawClear:
			r.dc.ClearWithColor(toRGBA(c.Color))
		case sim.DrawCircle:
			r.dc.SetRGBA(c.Color.R, c.Color.G, c.Color.B, c.Color.A)
			r.dc.DrawCircle(c.Center.X, c.Center.Y, c.Radius)
			if err := r.dc.Fill(); err != nil {
				return nil, fmt.Errorf("fill circle at %v: %w", c.Center, err)
			}
		}
	}
	if err := r.flush(); err != nil {
		return nil, fmt.Errorf("flush: %w", err)
	}

	img, ok := r.dc.Image().(*image.RGBA)
	if !ok {
		return nil, fmt.Errorf("unexpected image type %T", r.dc.Image())
	}
	return img.Pix, nil
}

func (r *Rasterizer) Close() error {
	return r.dc.Close()
}

func toRGBA(c sim.Color) gg.RGBA {
	return gg.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
