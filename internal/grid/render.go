package grid

import (
	"image"
	"image/color"
	"image/draw"
)

// Render composes the grid's frames into a single collage, left to right and
// top to bottom in timestamp order. Cell dimensions come from the first
// frame; trailing cells of a partial grid stay white. Downstream labeling
// relies on this spatial order to map detections back to timestamps.
func (g Grid) Render() *image.RGBA {
	if len(g.Frames) == 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}

	cell := g.Frames[0].Image.Bounds()
	cellW, cellH := cell.Dx(), cell.Dy()

	canvas := image.NewRGBA(image.Rect(0, 0, g.TileSize*cellW, g.TileSize*cellH))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	for i, f := range g.Frames {
		row := i / g.TileSize
		col := i % g.TileSize
		target := image.Rect(col*cellW, row*cellH, (col+1)*cellW, (row+1)*cellH)
		draw.Draw(canvas, target, f.Image, f.Image.Bounds().Min, draw.Src)
	}

	return canvas
}
