package capture

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Frame is one captured framebuffer on its way to disk.
type Frame struct {
	Index    int
	Width    int
	Height   int
	Pixels   []byte
	Path     string
	Checksum Sum
}

type Sum [sha256.Size]byte

func (s Sum) String() string { return hex.EncodeToString(s[:]) }

// Checksum is the integrity digest logged for every frame.
func Checksum(pixels []byte) Sum {
	return sha256.Sum256(pixels)
}

// FrameName is the file name of frame i, matching the encoder input pattern.
func FrameName(i int, ext string) string {
	return fmt.Sprintf("frame_%05d.%s", i, ext)
}

// FramePattern is the printf-style pattern the encoder expands.
func FramePattern(ext string) string {
	return "frame_%05d." + ext
}

// Image rebuilds the frame as an RGBA image without copying the pixels.
func (f Frame) Image() (*image.RGBA, error) {
	if f.Width <= 0 || f.Height <= 0 || len(f.Pixels) != f.Width*f.Height*4 {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d", ErrMalformedFrame, len(f.Pixels), f.Width, f.Height)
	}
	return &image.RGBA{
		Pix:    f.Pixels,
		Stride: f.Width * 4,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}, nil
}

var pngEncoder = png.Encoder{CompressionLevel: png.BestSpeed}

func encodeImage(w io.Writer, img image.Image, format string) error {
	switch format {
	case "png", "":
		return pngEncoder.Encode(w, img)
	case "bmp":
		return bmp.Encode(w, img)
	case "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("unsupported frame format %q", format)
	}
}

// WriteImage encodes img in the given format and writes it to path.
func WriteImage(path string, img image.Image, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(f)
	if err := encodeImage(bw, img, format); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
