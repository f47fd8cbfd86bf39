// Package grid packs retained frames into ordered N×N collage images.
package grid

import (
	"errors"
	"fmt"

	"github.com/visualscout/visualscout/internal/frame"
)

// ErrInvalidGridSize is returned by Pack when the tile size is below 1.
var ErrInvalidGridSize = errors.New("grid tile size must be at least 1")

// Grid is one collage: up to TileSize*TileSize consecutive frames of a
// source file, in timestamp order.
type Grid struct {
	Source   string
	Index    int
	TileSize int
	Frames   frame.Sequence
}

// Timestamps returns the timestamps of the grid's frames, aligned 1:1 with
// the filled cells.
func (g Grid) Timestamps() []float64 {
	return g.Frames.Timestamps()
}

// Filename derives the output name from the grid's time range, e.g.
// grid_0-00-00_0-00-18.jpg.
func (g Grid) Filename() string {
	start := frame.FormatTimestamp(g.Frames[0].Timestamp)
	end := frame.FormatTimestamp(g.Frames[len(g.Frames)-1].Timestamp)
	return fmt.Sprintf("grid_%s_%s.jpg", start, end)
}

// Pack partitions frames into consecutive chunks of at most tileSize^2,
// preserving order. The final grid may be partially filled. Concatenating
// the grids' frames in index order reproduces the input exactly.
func Pack(source string, frames frame.Sequence, tileSize int) ([]Grid, error) {
	if tileSize < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidGridSize, tileSize)
	}

	chunkSize := tileSize * tileSize
	grids := make([]Grid, 0, (len(frames)+chunkSize-1)/chunkSize)

	for i := 0; i < len(frames); i += chunkSize {
		end := i + chunkSize
		if end > len(frames) {
			end = len(frames)
		}
		grids = append(grids, Grid{
			Source:   source,
			Index:    len(grids),
			TileSize: tileSize,
			Frames:   frames[i:end],
		})
	}

	return grids, nil
}
