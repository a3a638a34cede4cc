package capture

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/san-kum/bounce/internal/config"
)

// Job describes one encoder run over a directory of numbered frames.
type Job struct {
	FrameDir string
	Pattern  string
	FPS      int
	Output   string
}

// Encoder turns a frame sequence into a video.
type Encoder interface {
	Encode(ctx context.Context, job Job) error
}

// FFmpeg shells out to an ffmpeg-compatible command line encoder.
type FFmpeg struct {
	Binary string
	Codec  string
	PixFmt string
}

func NewFFmpeg(cfg config.Encoder) FFmpeg {
	return FFmpeg{Binary: cfg.Binary, Codec: cfg.Codec, PixFmt: cfg.PixFmt}
}

func (e FFmpeg) Args(job Job) []string {
	return []string{
		"-y",
		"-framerate", strconv.Itoa(job.FPS),
		"-i", filepath.Join(job.FrameDir, job.Pattern),
		"-c:v", e.Codec,
		"-pix_fmt", e.PixFmt,
		job.Output,
	}
}

const stderrTail = 2048

// Encode runs the encoder to completion. Only ctx bounds its run time.
func (e FFmpeg) Encode(ctx context.Context, job Job) error {
	if err := os.MkdirAll(filepath.Dir(job.Output), 0755); err != nil {
		return err
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.Binary, e.Args(job)...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		tail := stderr.Bytes()
		if len(tail) > stderrTail {
			tail = tail[len(tail)-stderrTail:]
		}
		return &EncodeError{ExitCode: code, Stderr: string(tail), Wrapped: err}
	}
	return nil
}
