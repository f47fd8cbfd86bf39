// Package similarity scores pairs of frames with a windowed structural
// similarity index over their grayscale reductions.
package similarity

import (
	"errors"
	"image"

	"github.com/visualscout/visualscout/internal/frame"
)

// ErrDimensionMismatch is returned when two frames cannot be compared because
// their images differ in size. Callers are expected to have normalized
// resolution upstream.
var ErrDimensionMismatch = errors.New("frame dimensions do not match")

// SSIM constants for 8-bit images: window edge and the usual stabilizers
// C1=(0.01*L)^2, C2=(0.03*L)^2 with L=255.
const (
	windowSize = 7
	c1         = 6.5025
	c2         = 58.5225
)

// Similar reports whether two frames are near-duplicates under the given
// profile. It returns ErrDimensionMismatch when the frames differ in size.
func Similar(a, b frame.Frame, profile Profile) (bool, error) {
	score, err := SSIM(a.Gray(), b.Gray())
	if err != nil {
		return false, err
	}
	return score >= profile.Threshold(), nil
}

// SSIM computes the mean structural similarity index between two grayscale
// images of identical dimensions. The result is in [-1, 1] and reaches 1 only
// for identical images.
func SSIM(a, b *image.Gray) (float64, error) {
	w, h := a.Bounds().Dx(), a.Bounds().Dy()
	if w != b.Bounds().Dx() || h != b.Bounds().Dy() {
		return 0, ErrDimensionMismatch
	}
	if w == 0 || h == 0 {
		return 0, ErrDimensionMismatch
	}

	// Shrink the window for tiny images so there is always at least one.
	win := windowSize
	if w < win {
		win = w
	}
	if h < win {
		win = h
	}

	n := float64(win * win)
	var sum float64
	var windows int

	for y := 0; y+win <= h; y++ {
		for x := 0; x+win <= w; x++ {
			var sa, sb, saa, sbb, sab float64
			for wy := 0; wy < win; wy++ {
				rowA := a.Pix[(y+wy)*a.Stride+x:]
				rowB := b.Pix[(y+wy)*b.Stride+x:]
				for wx := 0; wx < win; wx++ {
					pa := float64(rowA[wx])
					pb := float64(rowB[wx])
					sa += pa
					sb += pb
					saa += pa * pa
					sbb += pb * pb
					sab += pa * pb
				}
			}

			meanA := sa / n
			meanB := sb / n
			varA := saa/n - meanA*meanA
			varB := sbb/n - meanB*meanB
			cov := sab/n - meanA*meanB

			num := (2*meanA*meanB + c1) * (2*cov + c2)
			den := (meanA*meanA + meanB*meanB + c1) * (varA + varB + c2)
			sum += num / den
			windows++
		}
	}

	return sum / float64(windows), nil
}
