package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/visualscout/visualscout/internal/config"
	"github.com/visualscout/visualscout/internal/extractor"
	"github.com/visualscout/visualscout/internal/grid"
	"github.com/visualscout/visualscout/internal/labeling"
	"github.com/visualscout/visualscout/internal/logging"
	"github.com/visualscout/visualscout/internal/pipeline"
	"github.com/visualscout/visualscout/internal/storage"
)

func main() {
	godotenv.Load()

	var (
		inputDir  = flag.String("input", "", "Directory of media files to process (required)")
		outputDir = flag.String("output", "", "Output directory for grids (default from config)")
		policy    = flag.String("policy", "", "Sampling policy: static or smart")
		profile   = flag.String("profile", "", "Similarity profile: strict, default or loose")
		tileSize  = flag.Int("grid-size", 0, "Grid dimension N for NxN collages")
		interval  = flag.Float64("interval", 0, "Seconds between candidate frames")
		workers   = flag.Int("workers", 0, "Parallel file workers")
		labels    = flag.Bool("labels", false, "Label grids with the configured OpenAI model")
	)
	flag.Parse()

	if *inputDir == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}
	applyFlagOverrides(cfg, *outputDir, *policy, *profile, *tileSize, *interval, *workers)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)

	ext, err := extractor.New(cfg.SampleInterval, logger)
	if err != nil {
		logger.Error("failed to initialize extractor", "error", err)
		os.Exit(1)
	}
	defer ext.Cleanup()

	store, err := storage.NewLocalStorage(cfg.OutputDir)
	if err != nil {
		logger.Error("failed to initialize output storage", "error", err)
		os.Exit(1)
	}

	runner := pipeline.NewRunner(pipeline.Options{
		Policy:   cfg.SelectorPolicy(),
		Profile:  cfg.SimilarityProfile(),
		TileSize: cfg.TileSize,
		Workers:  cfg.Workers,
	}, ext, store, logger)

	ctx := context.Background()
	results, err := runner.Run(ctx, *inputDir)
	if err != nil {
		logger.Error("pipeline run failed", "error", err)
		os.Exit(1)
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Printf("✗ %s: %v\n", res.Source, res.Err)
			continue
		}
		fmt.Printf("✓ %s: %d/%d frames retained, %d grids\n",
			res.Source, res.Retained, res.Candidates, len(res.GridPaths))
	}

	if *labels {
		if cfg.OpenAIKey == "" {
			logger.Error("labeling requested but OPENAI_API_KEY is not set")
			os.Exit(1)
		}
		labelResults(ctx, cfg, results, logger)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func labelResults(ctx context.Context, cfg *config.Config, results []pipeline.Result, logger *slog.Logger) {
	labeler := labeling.New(cfg.OpenAIKey, cfg.OpenAIModel, logger)

	for _, res := range results {
		if res.Err != nil || res.ManifestPath == "" {
			continue
		}
		m, err := readManifest(res.ManifestPath)
		if err != nil {
			logger.Error("failed to read manifest", "path", res.ManifestPath, "error", err)
			continue
		}
		outDir := filepath.Dir(res.ManifestPath)
		combined, err := labeler.LabelManifest(ctx, m, outDir)
		if err != nil {
			logger.Error("labeling failed", "source", res.Source, "error", err)
			continue
		}
		fmt.Printf("✓ labels: %s\n", combined)
	}
}

func readManifest(path string) (grid.Manifest, error) {
	var m grid.Manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return m, err
	}
	return m, json.Unmarshal(data, &m)
}

func applyFlagOverrides(cfg *config.Config, outputDir, policy, profile string, tileSize int, interval float64, workers int) {
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
	if policy != "" {
		cfg.Policy = policy
	}
	if profile != "" {
		cfg.Profile = profile
	}
	if tileSize > 0 {
		cfg.TileSize = tileSize
	}
	if interval > 0 {
		cfg.SampleInterval = interval
	}
	if workers > 0 {
		cfg.Workers = workers
	}
}
