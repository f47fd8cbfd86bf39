package integration

import (
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/visualscout/visualscout/internal/api"
	"github.com/visualscout/visualscout/internal/extractor"
	"github.com/visualscout/visualscout/internal/pipeline"
	"github.com/visualscout/visualscout/internal/selector"
	"github.com/visualscout/visualscout/internal/similarity"
	"github.com/visualscout/visualscout/internal/storage"
)

type TestServer struct {
	Server    *httptest.Server
	App       *api.App
	Runner    *pipeline.Runner
	OutputDir string
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestServer(t *testing.T) *TestServer {
	t.Helper()

	outputDir := t.TempDir()
	store, err := storage.NewLocalStorage(outputDir)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ext, err := extractor.New(2.0, discardLogger())
	if err != nil {
		t.Fatalf("Failed to create extractor: %v", err)
	}
	t.Cleanup(func() { ext.Cleanup() })

	runner := pipeline.NewRunner(pipeline.Options{
		Policy:   selector.PolicySmart,
		Profile:  similarity.ProfileDefault,
		TileSize: 2,
		Workers:  2,
	}, ext, store, discardLogger())

	app := &api.App{
		Runner:    runner,
		Jobs:      api.NewJobStore(),
		Logger:    discardLogger(),
		OutputDir: outputDir,
	}

	server := httptest.NewServer(api.NewRouter(app))
	t.Cleanup(server.Close)

	return &TestServer{
		Server:    server,
		App:       app,
		Runner:    runner,
		OutputDir: outputDir,
	}
}

// writeStill writes a uniform gray PNG so selection behavior is predictable.
func writeStill(t *testing.T, dir, name string, level uint8) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 16, 16))
	for i := range img.Pix {
		img.Pix[i] = level
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", name, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode %s: %v", name, err)
	}
	return path
}

// writeAnimation writes a paletted GIF with the given per-frame gray levels,
// each frame shown for delay centiseconds.
func writeAnimation(t *testing.T, dir, name string, levels []uint8, delay int) string {
	t.Helper()

	g := &gif.GIF{}
	for _, level := range levels {
		palette := color.Palette{color.Gray{Y: level}}
		frame := image.NewPaletted(image.Rect(0, 0, 16, 16), palette)
		g.Image = append(g.Image, frame)
		g.Delay = append(g.Delay, delay)
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", name, err)
	}
	defer f.Close()
	if err := gif.EncodeAll(f, g); err != nil {
		t.Fatalf("Failed to encode %s: %v", name, err)
	}
	return path
}
