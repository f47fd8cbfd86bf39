package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/visualscout/visualscout/internal/config"
	"github.com/visualscout/visualscout/internal/cost"
	"github.com/visualscout/visualscout/internal/extractor"
	"github.com/visualscout/visualscout/internal/logging"
)

func main() {
	godotenv.Load()

	var (
		inputDir = flag.String("input", "", "Directory of media files (required)")
		model    = flag.String("model", "", "Vision model: gpt-4o or gpt-4o-mini")
	)
	flag.Parse()

	if *inputDir == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}
	if *model == "" {
		*model = cfg.OpenAIModel
	}

	ext, err := extractor.New(cfg.SampleInterval, logging.New(cfg.LogLevel))
	if err != nil {
		log.Fatal("Failed to initialize extractor:", err)
	}
	defer ext.Cleanup()

	est, err := cost.EstimateDir(*inputDir, *model, cfg.SampleInterval, cfg.TileSize, ext)
	if err != nil {
		log.Fatal("Estimation failed:", err)
	}

	fmt.Printf("Total video duration: %.2f seconds\n", est.VideoSeconds)
	fmt.Printf("Standalone images in directory: %d\n", est.ImageCount)
	fmt.Printf("Estimated total images processed: %d\n", est.TotalImages)
	fmt.Printf("Estimated processing cost for %s: $%.6f\n", est.Model, est.Cost)
}
