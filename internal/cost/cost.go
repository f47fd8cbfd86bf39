// Package cost estimates the vision-model spend for a directory of media
// before any frames are extracted.
package cost

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Approximate per-image pricing, derived from published per-token rates and
// typical grid token counts.
const (
	CostPerImageGPT4o     = 0.005
	CostPerImageGPT4oMini = 0.0003
)

var videoExtensions = map[string]bool{
	".mp4": true, ".avi": true, ".mov": true, ".mkv": true,
	".flv": true, ".wmv": true, ".webm": true, ".gif": true,
}

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
}

// Prober supplies media durations; *extractor.Extractor satisfies it.
type Prober interface {
	Duration(path string) (float64, error)
}

// Estimate summarizes the projected processing volume and cost.
type Estimate struct {
	VideoSeconds float64
	ImageCount   int
	TotalImages  int
	Cost         float64
	Model        string
}

// CostPerImage maps a model name to its per-image price.
func CostPerImage(model string) (float64, error) {
	switch model {
	case "gpt-4o":
		return CostPerImageGPT4o, nil
	case "gpt-4o-mini":
		return CostPerImageGPT4oMini, nil
	}
	return 0, fmt.Errorf("unknown model %q (must be gpt-4o or gpt-4o-mini)", model)
}

// EstimateDir projects cost for all media directly inside dir: one candidate
// frame per interval seconds of video, packed into tileSize^2-frame grids,
// plus one image per standalone still.
func EstimateDir(dir, model string, interval float64, tileSize int, prober Prober) (Estimate, error) {
	perImage, err := CostPerImage(model)
	if err != nil {
		return Estimate{}, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return Estimate{}, fmt.Errorf("failed to read input directory: %w", err)
	}

	est := Estimate{Model: model}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		switch {
		case videoExtensions[ext]:
			duration, err := prober.Duration(filepath.Join(dir, entry.Name()))
			if err != nil {
				return Estimate{}, err
			}
			est.VideoSeconds += duration
		case imageExtensions[ext]:
			est.ImageCount++
		}
	}

	framesPerGrid := float64(tileSize * tileSize)
	frames := est.VideoSeconds / interval
	grids := frames / framesPerGrid
	totalImages := grids*framesPerGrid + float64(est.ImageCount)

	est.TotalImages = int(totalImages)
	est.Cost = totalImages * perImage
	return est, nil
}
