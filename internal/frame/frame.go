package frame

import (
	"fmt"
	"image"
	"image/color"
)

// Frame is one sampled image from a media file together with the timestamp
// (seconds from the start of the file) it was taken at.
type Frame struct {
	Timestamp float64
	Image     image.Image

	gray *image.Gray
}

// New builds a Frame and precomputes its grayscale reduction. The similarity
// engine only ever looks at the single-channel image, so the conversion
// happens once here instead of on every comparison.
func New(timestamp float64, img image.Image) Frame {
	return Frame{
		Timestamp: timestamp,
		Image:     img,
		gray:      toGray(img),
	}
}

// Gray returns the single-channel representation of the frame.
func (f Frame) Gray() *image.Gray {
	if f.gray == nil {
		return toGray(f.Image)
	}
	return f.gray
}

func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}

	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return gray
}

// Sequence is an ordered list of frames from a single source file, ascending
// by timestamp.
type Sequence []Frame

// Timestamps returns the timestamps of the sequence in order.
func (s Sequence) Timestamps() []float64 {
	ts := make([]float64, len(s))
	for i, f := range s {
		ts[i] = f.Timestamp
	}
	return ts
}

// FormatTimestamp renders seconds as h-mm-ss for use in output filenames,
// e.g. 62.0 -> "0-01-02".
func FormatTimestamp(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%d-%02d-%02d", h, m, s)
}
