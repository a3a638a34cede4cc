// Package session couples a simulation with an optional capture pipeline.
// Graphics hosts and the headless recorder drive the same Session: they
// call Tick once per frame, render World, and hand the rendered pixels to
// Capture while Recording reports true.
package session

import (
	"context"
	"errors"
	"image/color"
	"time"

	"github.com/san-kum/bounce/internal/capture"
	"github.com/san-kum/bounce/internal/config"
	"github.com/san-kum/bounce/internal/sim"
	"github.com/san-kum/bounce/internal/storage"
)

type Session struct {
	Preset string

	cfg      *config.Config
	sim      *sim.Simulator
	world    sim.World
	pipeline *capture.Pipeline
	history  []storage.Sample
	started  time.Time
}

// New builds a session from cfg. When cfg.Capture.Enabled is set a
// pipeline sized to the world is started with enc.
func New(cfg *config.Config, preset string, enc capture.Encoder) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		Preset:  preset,
		cfg:     cfg,
		sim:     sim.NewSimulator(cfg.Simulation, nil),
		started: time.Now(),
	}
	s.world = s.sim.Seed()
	s.sample()

	if cfg.Capture.Enabled {
		w, h := s.FrameSize()
		p, err := capture.NewPipeline(cfg.Capture, w, h, enc)
		if err != nil {
			return nil, err
		}
		s.pipeline = p
	}
	return s, nil
}

func (s *Session) Config() *config.Config      { return s.cfg }
func (s *Session) Simulator() *sim.Simulator   { return s.sim }
func (s *Session) World() sim.World            { return s.world }
func (s *Session) History() []storage.Sample   { return s.history }
func (s *Session) Pipeline() *capture.Pipeline { return s.pipeline }

// FrameSize is the world size in whole pixels.
func (s *Session) FrameSize() (int, int) {
	return int(s.cfg.Simulation.Width), int(s.cfg.Simulation.Height)
}

func (s *Session) Tick(dt float64) {
	s.world = s.sim.Advance(s.world, dt)
	s.sample()
}

func (s *Session) sample() {
	s.history = append(s.history, storage.Sample{
		Frame: s.world.Frame,
		Time:  s.world.Clock,
		Balls: len(s.world.Balls),
	})
}

// Reset reseeds the world and clears the population history. An active
// recording keeps running.
func (s *Session) Reset() {
	s.world = s.sim.Seed()
	s.history = s.history[:0]
	s.sample()
}

func (s *Session) Recording() bool {
	return s.pipeline != nil && s.pipeline.State() == capture.Recording
}

// Capture forwards pixels to the pipeline. Rejected frames are counted by
// the pipeline and swallowed here; a closed queue is returned.
func (s *Session) Capture(pixels []byte) error {
	if !s.Recording() {
		return nil
	}
	err := s.pipeline.Capture(pixels)
	if errors.Is(err, capture.ErrSizeMismatch) {
		return nil
	}
	return err
}

// Complete reports whether the recording has hit its frame limit and is
// waiting for Finish.
func (s *Session) Complete() bool {
	return s.pipeline != nil && s.pipeline.State() == capture.Encoding
}

// Finish drains and encodes the recording. It returns a nil report when
// capture is disabled.
func (s *Session) Finish(ctx context.Context) (*capture.Report, error) {
	if s.pipeline == nil {
		return nil, nil
	}
	return s.pipeline.Finish(ctx)
}

// Metadata summarizes the session for the run store.
func (s *Session) Metadata(rep *capture.Report) storage.RunMetadata {
	sc := s.cfg.Simulation
	meta := storage.RunMetadata{
		Preset:     s.Preset,
		Timestamp:  s.started,
		Seed:       sc.Seed,
		Width:      sc.Width,
		Height:     sc.Height,
		MaxBalls:   sc.MaxBalls,
		Cooldown:   sc.Cooldown,
		FPS:        s.cfg.Capture.FPS,
		FinalBalls: len(s.world.Balls),
		Elapsed:    time.Since(s.started).Seconds(),
	}
	if rep == nil {
		return meta
	}
	meta.Captured = rep.Captured
	meta.Rejected = rep.Rejected
	meta.Written = rep.Written
	meta.Failed = rep.Failed
	meta.Lost = rep.Lost
	meta.Output = rep.Output
	meta.Encoded = rep.Encoded
	if rep.EncodeErr != nil {
		meta.EncodeError = rep.EncodeErr.Error()
	}
	return meta
}

// RGBABytes flattens host color values into a pixel buffer.
func RGBABytes(px []color.RGBA) []byte {
	buf := make([]byte, len(px)*4)
	for i, c := range px {
		buf[i*4] = c.R
		buf[i*4+1] = c.G
		buf[i*4+2] = c.B
		buf[i*4+3] = c.A
	}
	return buf
}
