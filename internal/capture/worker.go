package capture

import (
	"context"
	"log/slog"

	"github.com/san-kum/bounce/internal/logging"
)

// Stats counts what the worker did with the frames it received.
type Stats struct {
	Written int
	Failed  int
}

// Worker writes frames from a Queue to disk, one at a time, until the
// queue is closed and drained. Failures are logged and counted; they never
// stop the loop.
type Worker struct {
	queue  *Queue
	format string
	stats  Stats
	done   chan struct{}
}

func NewWorker(q *Queue, format string) *Worker {
	return &Worker{
		queue:  q,
		format: format,
		done:   make(chan struct{}),
	}
}

// Start launches the worker goroutine.
func (w *Worker) Start() {
	go w.loop()
}

func (w *Worker) loop() {
	defer close(w.done)
	for f := range w.queue.Out() {
		if err := w.handle(f); err != nil {
			w.stats.Failed++
			logging.L().Error("frame not written", "index", f.Index, "path", f.Path, "err", err)
			continue
		}
		w.stats.Written++
	}
}

func (w *Worker) handle(f Frame) error {
	log := logging.L()
	if log.Enabled(context.Background(), slog.LevelDebug) {
		if got := Checksum(f.Pixels); got != f.Checksum {
			log.Warn("frame checksum changed in transit", "index", f.Index, "sent", f.Checksum, "received", got)
		}
	}

	img, err := f.Image()
	if err != nil {
		return err
	}
	if err := WriteImage(f.Path, img, w.format); err != nil {
		return err
	}
	log.Debug("frame written", "index", f.Index, "path", f.Path)
	return nil
}

// Wait blocks until the queue is drained. The returned Stats are final
// only when err is nil.
func (w *Worker) Wait(ctx context.Context) (Stats, error) {
	select {
	case <-w.done:
		return w.stats, nil
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	}
}
