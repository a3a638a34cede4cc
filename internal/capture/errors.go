package capture

import (
	"errors"
	"fmt"
)

var (
	// ErrSizeMismatch indicates a framebuffer whose length is not width*height*4.
	ErrSizeMismatch = errors.New("capture: framebuffer size mismatch")

	// ErrQueueClosed indicates a frame was sent after the queue stopped accepting work.
	ErrQueueClosed = errors.New("capture: frame queue closed")

	// ErrNotRecording indicates a capture attempt outside the Recording state.
	ErrNotRecording = errors.New("capture: pipeline is not recording")

	// ErrMalformedFrame indicates a frame the worker could not turn into an image.
	ErrMalformedFrame = errors.New("capture: malformed frame buffer")

	// ErrNoFrames indicates encoding was skipped because nothing was written.
	ErrNoFrames = errors.New("capture: no frames written")

	// ErrEncoderFailed indicates the external encoder did not succeed.
	ErrEncoderFailed = errors.New("capture: encoder failed")
)

// FrameError wraps a per-frame failure with the frame's position.
type FrameError struct {
	Index    int
	Expected int
	Actual   int
	Wrapped  error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d: %v: expected %d bytes, got %d", e.Index, e.Wrapped, e.Expected, e.Actual)
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}

// EncodeError carries the encoder's exit status and the tail of its stderr.
type EncodeError struct {
	ExitCode int
	Stderr   string
	Wrapped  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("%v (exit %d): %v", ErrEncoderFailed, e.ExitCode, e.Wrapped)
}

func (e *EncodeError) Unwrap() []error {
	return []error{ErrEncoderFailed, e.Wrapped}
}
