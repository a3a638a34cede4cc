package capture_test

import (
	"context"
	"image"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/bounce/internal/capture"
)

func solidFrame(index, width, height int, dir, ext string) capture.Frame {
	pixels := make([]byte, width*height*4)
	for i := 0; i < len(pixels); i += 4 {
		pixels[i], pixels[i+1], pixels[i+2], pixels[i+3] = 200, 100, 50, 255
	}
	return capture.Frame{
		Index:    index,
		Width:    width,
		Height:   height,
		Pixels:   pixels,
		Path:     filepath.Join(dir, capture.FrameName(index, ext)),
		Checksum: capture.Checksum(pixels),
	}
}

func decodeSize(path string) (int, int, string) {
	f, err := os.Open(path)
	Expect(err).NotTo(HaveOccurred())
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	Expect(err).NotTo(HaveOccurred())
	return cfg.Width, cfg.Height, format
}

var _ = Describe("Worker", func() {
	var (
		dir string
		q   *capture.Queue
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		q = capture.NewQueue()
	})

	It("writes a full-size portrait frame with its dimensions", func() {
		w := capture.NewWorker(q, "png")
		w.Start()

		f := solidFrame(0, 1080, 1920, dir, "png")
		Expect(q.Push(f)).To(Succeed())
		q.Close()

		stats, err := w.Wait(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(stats).To(Equal(capture.Stats{Written: 1}))

		width, height, format := decodeSize(f.Path)
		Expect(format).To(Equal("png"))
		Expect(width).To(Equal(1080))
		Expect(height).To(Equal(1920))
	})

	It("keeps going after a malformed frame or a failed write", func() {
		w := capture.NewWorker(q, "png")
		w.Start()

		bad := solidFrame(0, 4, 4, dir, "png")
		bad.Pixels = bad.Pixels[:10]
		unwritable := solidFrame(1, 4, 4, filepath.Join(dir, "missing"), "png")
		good := solidFrame(2, 4, 4, dir, "png")

		Expect(q.Push(bad)).To(Succeed())
		Expect(q.Push(unwritable)).To(Succeed())
		Expect(q.Push(good)).To(Succeed())
		q.Close()

		stats, err := w.Wait(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(stats).To(Equal(capture.Stats{Written: 1, Failed: 2}))
		Expect(good.Path).To(BeAnExistingFile())
		Expect(bad.Path).NotTo(BeAnExistingFile())
	})

	DescribeTable("frame formats",
		func(format string) {
			w := capture.NewWorker(q, format)
			w.Start()

			f := solidFrame(0, 6, 5, dir, format)
			Expect(q.Push(f)).To(Succeed())
			q.Close()

			stats, err := w.Wait(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.Written).To(Equal(1))

			width, height, _ := decodeSize(f.Path)
			Expect([]int{width, height}).To(Equal([]int{6, 5}))
		},
		Entry("png", "png"),
		Entry("bmp", "bmp"),
		Entry("tiff", "tiff"),
	)

	It("stops waiting when the context ends", func() {
		w := capture.NewWorker(q, "png")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := w.Wait(ctx)
		Expect(err).To(MatchError(context.Canceled))
		q.Close()
	})
})

var _ = Describe("Frame", func() {
	It("refuses buffers that do not match the declared size", func() {
		_, err := capture.Frame{Width: 2, Height: 2, Pixels: make([]byte, 15)}.Image()
		Expect(err).To(MatchError(capture.ErrMalformedFrame))

		_, err = capture.Frame{Width: 0, Height: 2}.Image()
		Expect(err).To(MatchError(capture.ErrMalformedFrame))
	})

	It("wraps the pixels without copying", func() {
		pixels := make([]byte, 2*2*4)
		img, err := capture.Frame{Width: 2, Height: 2, Pixels: pixels}.Image()
		Expect(err).NotTo(HaveOccurred())
		pixels[0] = 9
		Expect(img.Pix[0]).To(Equal(byte(9)))
		Expect(img.Bounds().Dx()).To(Equal(2))
	})

	It("names frames for the encoder pattern", func() {
		Expect(capture.FrameName(7, "png")).To(Equal("frame_00007.png"))
		Expect(capture.FramePattern("bmp")).To(Equal("frame_%05d.bmp"))
	})
})
