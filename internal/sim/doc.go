// Package sim provides the multiplying-balls simulation.
//
// The package is split into two pure steps so any graphics host can drive it:
//
//   - [Simulator.Advance]: moves every ball, reflects it off the walls and
//     spawns children on collision
//   - [Render]: turns a [World] into a list of [DrawCommand] values
//
// # Example
//
//	s := sim.NewSimulator(cfg.Simulation, rand.New(rand.NewSource(seed)))
//	w := s.Seed()
//	for {
//	    w = s.Advance(w, dt)
//	    host.Draw(s.Render(w))
//	}
//
// # Thread Safety
//
// A Simulator owns its random source and is NOT safe for concurrent use.
// Worlds returned by Advance share no memory with their input.
package sim
