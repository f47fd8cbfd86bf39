package extractor

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/visualscout/visualscout/internal/frame"
)

// extractImage treats a still image as a one-frame sequence at t=0.
func (e *Extractor) extractImage(path string) (frame.Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid image %s: %v", ErrDecode, path, err)
	}

	return frame.Sequence{frame.New(0, img)}, nil
}
