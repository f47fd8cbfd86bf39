package cost

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"
)

type stubProber struct {
	durations map[string]float64
}

func (s *stubProber) Duration(path string) (float64, error) {
	d, ok := s.durations[filepath.Base(path)]
	if !ok {
		return 0, fmt.Errorf("no duration for %s", path)
	}
	return d, nil
}

func writeFiles(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestCostPerImage(t *testing.T) {
	tests := []struct {
		model   string
		want    float64
		wantErr bool
	}{
		{"gpt-4o", 0.005, false},
		{"gpt-4o-mini", 0.0003, false},
		{"gpt-3.5-turbo", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			got, err := CostPerImage(tt.model)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CostPerImage(%q) error = %v", tt.model, err)
			}
			if got != tt.want {
				t.Errorf("CostPerImage(%q) = %f, want %f", tt.model, got, tt.want)
			}
		})
	}
}

func TestEstimateDirImagesOnly(t *testing.T) {
	dir := writeFiles(t, "a.png", "b.jpg", "notes.txt")

	est, err := EstimateDir(dir, "gpt-4o-mini", 2, 3, &stubProber{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if est.ImageCount != 2 {
		t.Errorf("image count %d, want 2", est.ImageCount)
	}
	if est.VideoSeconds != 0 {
		t.Errorf("video seconds %f, want 0", est.VideoSeconds)
	}
	if want := 2 * CostPerImageGPT4oMini; math.Abs(est.Cost-want) > 1e-9 {
		t.Errorf("cost %f, want %f", est.Cost, want)
	}
}

func TestEstimateDirWithVideo(t *testing.T) {
	dir := writeFiles(t, "clip.mp4", "still.png")
	prober := &stubProber{durations: map[string]float64{"clip.mp4": 36}}

	est, err := EstimateDir(dir, "gpt-4o", 2, 3, prober)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 36 seconds at a 2 second cadence is 18 frames, i.e. two 3x3 grids
	// worth of images, plus the standalone still.
	if est.VideoSeconds != 36 {
		t.Errorf("video seconds %f, want 36", est.VideoSeconds)
	}
	if est.TotalImages != 19 {
		t.Errorf("total images %d, want 19", est.TotalImages)
	}
	if want := 19 * CostPerImageGPT4o; math.Abs(est.Cost-want) > 1e-9 {
		t.Errorf("cost %f, want %f", est.Cost, want)
	}
}

func TestEstimateDirUnknownModel(t *testing.T) {
	if _, err := EstimateDir(t.TempDir(), "dall-e", 2, 3, &stubProber{}); err == nil {
		t.Error("expected error for unknown model")
	}
}

func TestEstimateDirProbeFailure(t *testing.T) {
	dir := writeFiles(t, "clip.mp4")
	if _, err := EstimateDir(dir, "gpt-4o", 2, 3, &stubProber{}); err == nil {
		t.Error("expected error when probing fails")
	}
}
