// Package viz renders a running simulation in the terminal.
//
// The live view is a Bubble Tea program: balls are drawn as discs on a
// braille [Canvas] scaled to the world, with a stats panel and a
// population graph beside it.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reseed the world
//	T     - Cycle color themes
//	Q     - Quit
package viz
