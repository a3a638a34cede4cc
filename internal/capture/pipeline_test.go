package capture_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/bounce/internal/capture"
	"github.com/san-kum/bounce/internal/config"
)

type fakeEncoder struct {
	jobs   []capture.Job
	frames []string
	err    error
}

func (e *fakeEncoder) Encode(ctx context.Context, job capture.Job) error {
	e.jobs = append(e.jobs, job)
	entries, err := os.ReadDir(job.FrameDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		e.frames = append(e.frames, entry.Name())
	}
	sort.Strings(e.frames)
	return e.err
}

const (
	frameW = 4
	frameH = 3
)

func buffer() []byte {
	return make([]byte, frameW*frameH*4)
}

var _ = Describe("Pipeline", func() {
	var (
		cfg config.Capture
		enc *fakeEncoder
		p   *capture.Pipeline
	)

	BeforeEach(func() {
		root := GinkgoT().TempDir()
		cfg = config.DefaultConfig().Capture
		cfg.FPS = 2
		cfg.Duration = 1.5
		cfg.TempDir = filepath.Join(root, "frames")
		cfg.OutputDir = filepath.Join(root, "out")
		enc = &fakeEncoder{}

		var err error
		p, err = capture.NewPipeline(cfg, frameW, frameH, enc)
		Expect(err).NotTo(HaveOccurred())
	})

	It("starts out recording with an empty frame directory", func() {
		Expect(p.State()).To(Equal(capture.Recording))
		Expect(p.Limit()).To(Equal(3))
		Expect(p.FrameDir()).To(BeADirectory())
	})

	It("rejects a wrongly sized framebuffer without queuing it", func() {
		err := p.Capture(make([]byte, 7))
		Expect(err).To(MatchError(capture.ErrSizeMismatch))

		var fe *capture.FrameError
		Expect(errors.As(err, &fe)).To(BeTrue())
		Expect(fe.Expected).To(Equal(frameW * frameH * 4))
		Expect(fe.Actual).To(Equal(7))
		Expect(p.Captured()).To(BeZero())
		Expect(p.QueueLen()).To(BeZero())

		Expect(p.Capture(buffer())).To(Succeed())
		Expect(p.State()).To(Equal(capture.Recording))

		r, err := p.Finish(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Rejected).To(Equal(1))
		Expect(r.Written).To(Equal(1))
	})

	It("encodes after the frame limit and removes the frames", func() {
		for i := 0; i < 3; i++ {
			Expect(p.Capture(buffer())).To(Succeed())
		}
		Expect(p.State()).To(Equal(capture.Encoding))
		Expect(p.Capture(buffer())).To(MatchError(capture.ErrNotRecording))

		r, err := p.Finish(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(p.State()).To(Equal(capture.Done))

		Expect(enc.jobs).To(HaveLen(1))
		Expect(enc.jobs[0].FPS).To(Equal(2))
		Expect(enc.jobs[0].Pattern).To(Equal("frame_%05d.png"))
		Expect(enc.jobs[0].Output).To(Equal(filepath.Join(cfg.OutputDir, "output.mp4")))
		Expect(enc.frames).To(Equal([]string{"frame_00000.png", "frame_00001.png", "frame_00002.png"}))

		Expect(r.Captured).To(Equal(3))
		Expect(r.Written).To(Equal(3))
		Expect(r.Lost).To(BeZero())
		Expect(r.Encoded).To(BeTrue())
		Expect(p.FrameDir()).NotTo(BeAnExistingFile())
	})

	It("cleans up even when the encoder fails", func() {
		enc.err = &capture.EncodeError{ExitCode: 1, Wrapped: errors.New("exit status 1")}
		Expect(p.Capture(buffer())).To(Succeed())

		r, err := p.Finish(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(r.Encoded).To(BeFalse())
		Expect(r.EncodeErr).To(MatchError(capture.ErrEncoderFailed))
		Expect(p.FrameDir()).NotTo(BeAnExistingFile())
		Expect(p.State()).To(Equal(capture.Done))
	})

	It("finishes cleanly with zero frames", func() {
		r, err := p.Finish(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(r.EncodeErr).To(MatchError(capture.ErrNoFrames))
		Expect(enc.jobs).To(BeEmpty())
		Expect(p.FrameDir()).NotTo(BeAnExistingFile())

		again, err := p.Finish(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(again).To(BeIdenticalTo(r))
	})

	It("keeps the frames for a retry when the drain is interrupted", func() {
		for i := 0; i < 2; i++ {
			Expect(p.Capture(buffer())).To(Succeed())
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		r, err := p.Finish(ctx)
		Expect(err).To(MatchError(context.Canceled))
		Expect(r.Lost).To(Equal(2))
		Expect(enc.jobs).To(BeEmpty())
		Expect(p.State()).To(Equal(capture.Encoding))

		again, err := p.Finish(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(again).NotTo(BeIdenticalTo(r))
		Expect(again.Written).To(Equal(2))
		Expect(again.Lost).To(BeZero())
		Expect(again.Encoded).To(BeTrue())
		Expect(enc.frames).To(Equal([]string{"frame_00000.png", "frame_00001.png"}))
		Expect(p.FrameDir()).NotTo(BeAnExistingFile())
		Expect(p.State()).To(Equal(capture.Done))

		last, err := p.Finish(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(last).To(BeIdenticalTo(again))
	})

	It("aborts capture when the queue is gone", func() {
		p.CloseQueue()
		Expect(p.Capture(buffer())).To(MatchError(capture.ErrQueueClosed))
		Expect(p.State()).To(Equal(capture.Done))
		Expect(p.Capture(buffer())).To(MatchError(capture.ErrNotRecording))
	})

	It("drops frames left over from an earlier run", func() {
		stale := filepath.Join(cfg.TempDir, capture.FrameName(99, "png"))
		Expect(os.WriteFile(stale, []byte("old"), 0644)).To(Succeed())
		keep := filepath.Join(cfg.TempDir, "notes.txt")
		Expect(os.WriteFile(keep, []byte("keep"), 0644)).To(Succeed())

		_, err := capture.NewPipeline(cfg, frameW, frameH, enc)
		Expect(err).NotTo(HaveOccurred())
		Expect(stale).NotTo(BeAnExistingFile())
		Expect(keep).To(BeAnExistingFile())
	})

	It("refuses an unusable configuration", func() {
		_, err := capture.NewPipeline(cfg, 0, frameH, enc)
		Expect(err).To(HaveOccurred())
		_, err = capture.NewPipeline(cfg, frameW, frameH, nil)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("RemoveFrames", func() {
	It("succeeds for missing, empty and full directories", func() {
		root := GinkgoT().TempDir()

		Expect(capture.RemoveFrames(filepath.Join(root, "never-created"))).To(Succeed())

		empty := filepath.Join(root, "empty")
		Expect(os.Mkdir(empty, 0755)).To(Succeed())
		Expect(capture.RemoveFrames(empty)).To(Succeed())
		Expect(empty).NotTo(BeAnExistingFile())

		full := filepath.Join(root, "full")
		Expect(os.Mkdir(full, 0755)).To(Succeed())
		for i := 0; i < 250; i++ {
			Expect(os.WriteFile(filepath.Join(full, capture.FrameName(i, "png")), nil, 0644)).To(Succeed())
		}
		Expect(capture.RemoveFrames(full)).To(Succeed())
		Expect(capture.RemoveFrames(full)).To(Succeed())
		Expect(full).NotTo(BeAnExistingFile())
	})
})

var _ = Describe("FFmpeg", func() {
	job := capture.Job{FrameDir: "/tmp/frames", Pattern: "frame_%05d.png", FPS: 30, Output: "/tmp/out/output.mp4"}

	It("builds the encoder command line", func() {
		enc := capture.NewFFmpeg(config.DefaultConfig().Capture.Encoder)
		Expect(enc.Args(job)).To(Equal([]string{
			"-y",
			"-framerate", "30",
			"-i", "/tmp/frames/frame_%05d.png",
			"-c:v", "libx264",
			"-pix_fmt", "yuv420p",
			"/tmp/out/output.mp4",
		}))
	})

	It("reports a non-zero exit", func() {
		job := job
		job.Output = filepath.Join(GinkgoT().TempDir(), "out.mp4")
		err := capture.FFmpeg{Binary: "false"}.Encode(context.Background(), job)

		var ee *capture.EncodeError
		Expect(errors.As(err, &ee)).To(BeTrue())
		Expect(ee.ExitCode).To(Equal(1))
		Expect(err).To(MatchError(capture.ErrEncoderFailed))
	})

	It("reports a missing binary", func() {
		job := job
		job.Output = filepath.Join(GinkgoT().TempDir(), "out.mp4")
		err := capture.FFmpeg{Binary: "definitely-not-an-encoder"}.Encode(context.Background(), job)

		var ee *capture.EncodeError
		Expect(errors.As(err, &ee)).To(BeTrue())
		Expect(ee.ExitCode).To(Equal(-1))
	})
})
