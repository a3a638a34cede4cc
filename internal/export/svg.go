// Package export writes simulation frames and run data as SVG.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/bounce/internal/sim"
	"github.com/san-kum/bounce/internal/storage"
)

func hexColor(c sim.Color) string {
	r, g, b, _ := c.RGBA8()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// WorldSVG converts draw commands to an SVG document of the given size.
func WorldSVG(cmds []sim.DrawCommand, width, height float64) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
`, width, height, width, height))

	for _, cmd := range cmds {
		switch cmd.Kind {
		case sim.DrawClear:
			sb.WriteString(fmt.Sprintf(`<rect width="100%%" height="100%%" fill="%s"/>
`, hexColor(cmd.Color)))
		case sim.DrawCircle:
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cmd.Center.X, cmd.Center.Y, cmd.Radius, hexColor(cmd.Color)))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// PopulationSVG plots ball count against simulated time.
func PopulationSVG(samples []storage.Sample, width, height int, strokeColor string) string {
	if len(samples) < 2 {
		return ""
	}

	maxT := samples[len(samples)-1].Time
	maxN := 1
	for _, s := range samples {
		if s.Balls > maxN {
			maxN = s.Balls
		}
	}
	if maxT <= 0 {
		maxT = 1
	}

	// 5% margin on every side
	padX, padY := float64(width)*0.05, float64(height)*0.05
	plotW, plotH := float64(width)-2*padX, float64(height)-2*padY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, s := range samples {
		x := padX + s.Time/maxT*plotW
		y := padY + plotH - float64(s.Balls)/float64(maxN)*plotH

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
