package extractor

import (
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"os"

	"github.com/visualscout/visualscout/internal/frame"
)

// extractGIF samples an animated gif at the extractor's interval without
// shelling out. Frame delays are accumulated into timestamps and partial
// frames are composited onto the running canvas, so each sample is a full
// image.
func (e *Extractor) extractGIF(path string) (frame.Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer f.Close()

	g, err := gif.DecodeAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid gif %s: %v", ErrDecode, path, err)
	}
	if len(g.Image) == 0 {
		return nil, fmt.Errorf("%w: gif has no frames: %s", ErrDecode, path)
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}
	canvas := image.NewRGBA(bounds)

	var frames frame.Sequence
	elapsed := 0.0
	nextSample := 0.0

	for i, paletted := range g.Image {
		draw.Draw(canvas, paletted.Bounds(), paletted, paletted.Bounds().Min, draw.Over)

		if elapsed >= nextSample {
			snapshot := image.NewRGBA(bounds)
			draw.Draw(snapshot, bounds, canvas, bounds.Min, draw.Src)
			frames = append(frames, frame.New(elapsed, snapshot))
			nextSample += e.interval
		}

		// Delays are in 100ths of a second.
		elapsed += float64(g.Delay[i]) / 100.0
	}

	return frames, nil
}
