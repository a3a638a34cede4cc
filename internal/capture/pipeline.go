package capture

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/san-kum/bounce/internal/config"
	"github.com/san-kum/bounce/internal/logging"
)

type State int

const (
	Idle State = iota
	Recording
	Encoding
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Encoding:
		return "encoding"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Report summarizes a finished recording. Every captured frame ends up in
// exactly one of Written, Failed or Lost.
type Report struct {
	Captured  int
	Rejected  int
	Written   int
	Failed    int
	Lost      int
	Output    string
	FrameDir  string
	Encoded   bool
	EncodeErr error
	Elapsed   time.Duration
}

type Pipeline struct {
	cfg     config.Capture
	width   int
	height  int
	dir     string
	enc     Encoder
	queue   *Queue
	worker  *Worker
	state   State
	limit   int
	started time.Time

	captured int
	rejected int
	report   *Report
}

// NewPipeline prepares the frame directory, starts the background worker
// and returns a pipeline in the Recording state.
func NewPipeline(cfg config.Capture, width, height int, enc Encoder) (*Pipeline, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("capture: invalid frame size %dx%d", width, height)
	}
	if enc == nil {
		return nil, errors.New("capture: nil encoder")
	}

	dir, err := filepath.Abs(cfg.TempDir)
	if err != nil {
		return nil, err
	}
	if err := prepareDir(dir, cfg.Format); err != nil {
		return nil, fmt.Errorf("prepare frame dir: %w", err)
	}
	logging.L().Info("frame directory ready", "dir", dir)

	q := NewQueue()
	w := NewWorker(q, cfg.Format)
	w.Start()

	return &Pipeline{
		cfg:     cfg,
		width:   width,
		height:  height,
		dir:     dir,
		enc:     enc,
		queue:   q,
		worker:  w,
		state:   Recording,
		limit:   cfg.FrameLimit(),
		started: time.Now(),
	}, nil
}

func (p *Pipeline) State() State     { return p.state }
func (p *Pipeline) FrameDir() string { return p.dir }
func (p *Pipeline) Captured() int    { return p.captured }
func (p *Pipeline) Limit() int       { return p.limit }

// Capture validates one framebuffer and queues it for writing. It returns
// as soon as the frame is queued. Reaching the frame limit moves the
// pipeline to Encoding; the caller then runs Finish.
func (p *Pipeline) Capture(pixels []byte) error {
	if p.state != Recording {
		return ErrNotRecording
	}

	log := logging.L()
	expected := p.width * p.height * 4
	if len(pixels) != expected {
		p.rejected++
		err := &FrameError{Index: p.captured, Expected: expected, Actual: len(pixels), Wrapped: ErrSizeMismatch}
		log.Warn("frame rejected", "err", err)
		return err
	}

	sum := Checksum(pixels)
	name := FrameName(p.captured, p.cfg.Format)
	f := Frame{
		Index:    p.captured,
		Width:    p.width,
		Height:   p.height,
		Pixels:   pixels,
		Path:     filepath.Join(p.dir, name),
		Checksum: sum,
	}
	log.Debug("frame captured", "index", f.Index, "bytes", len(pixels), "sha256", sum)

	if err := p.queue.Push(f); err != nil {
		p.state = Done
		return fmt.Errorf("enqueue frame %d: %w", f.Index, err)
	}
	p.captured++

	if p.captured >= p.limit {
		p.state = Encoding
		log.Info("recording complete", "frames", p.captured, "dir", p.dir)
	}
	return nil
}

// Finish drains the worker, encodes the written frames and removes the
// frame directory whatever the encoder's outcome. It may be called before
// the frame limit to stop early. Once it succeeds, calling it again returns
// the same report. If ctx ends before the queue is drained nothing is
// cached or removed, since the worker may still be writing; a later call
// with a live context completes the drain and the cleanup.
func (p *Pipeline) Finish(ctx context.Context) (*Report, error) {
	if p.report != nil {
		return p.report, nil
	}
	log := logging.L()
	p.state = Encoding
	p.queue.Close()

	r := &Report{
		Captured: p.captured,
		Rejected: p.rejected,
		Output:   p.cfg.OutputPath(),
		FrameDir: p.dir,
	}

	stats, err := p.drain(ctx)
	if err != nil {
		r.Lost = p.captured
		r.Elapsed = time.Since(p.started)
		log.Warn("frame drain interrupted", "dir", p.dir, "err", err)
		return r, fmt.Errorf("drain frame queue: %w", err)
	}
	r.Written = stats.Written
	r.Failed = stats.Failed
	r.Lost = p.captured - stats.Written - stats.Failed

	if r.Written == 0 {
		r.EncodeErr = ErrNoFrames
		log.Warn("skipping encode", "err", ErrNoFrames)
	} else {
		job := Job{
			FrameDir: p.dir,
			Pattern:  FramePattern(p.cfg.Format),
			FPS:      p.cfg.FPS,
			Output:   r.Output,
		}
		if err := p.enc.Encode(ctx, job); err != nil {
			r.EncodeErr = err
			log.Error("failed to create video", "output", r.Output, "err", err)
		} else {
			r.Encoded = true
			log.Info("video saved", "output", r.Output, "frames", r.Written)
		}
	}

	rmErr := RemoveFrames(p.dir)
	if rmErr != nil {
		log.Error("failed to delete frame directory", "dir", p.dir, "err", rmErr)
	} else {
		log.Info("frame directory deleted", "dir", p.dir)
	}

	r.Elapsed = time.Since(p.started)
	p.state = Done
	p.report = r
	if rmErr != nil {
		return r, fmt.Errorf("remove frame dir: %w", rmErr)
	}
	return r, nil
}

// drain waits for the worker. An already finished ctx fails before waiting
// so the outcome does not depend on how far the worker got.
func (p *Pipeline) drain(ctx context.Context) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	return p.worker.Wait(ctx)
}
