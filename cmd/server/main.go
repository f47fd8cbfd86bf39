package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/visualscout/visualscout/internal/api"
	"github.com/visualscout/visualscout/internal/config"
	"github.com/visualscout/visualscout/internal/extractor"
	"github.com/visualscout/visualscout/internal/logging"
	"github.com/visualscout/visualscout/internal/pipeline"
	"github.com/visualscout/visualscout/internal/storage"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	logger := logging.NewJSON(cfg.LogLevel)

	ext, err := extractor.New(cfg.SampleInterval, logger)
	if err != nil {
		log.Fatal("Failed to initialize extractor:", err)
	}
	defer ext.Cleanup()

	store, err := storage.NewLocalStorage(cfg.OutputDir)
	if err != nil {
		log.Fatal("Failed to initialize output storage:", err)
	}

	runner := pipeline.NewRunner(pipeline.Options{
		Policy:   cfg.SelectorPolicy(),
		Profile:  cfg.SimilarityProfile(),
		TileSize: cfg.TileSize,
		Workers:  cfg.Workers,
	}, ext, store, logger)

	app := &api.App{
		Runner:    runner,
		Jobs:      api.NewJobStore(),
		Logger:    logger,
		OutputDir: cfg.OutputDir,
	}

	router := api.NewRouter(app)

	logger.Info("server starting",
		"port", cfg.Port,
		"output_dir", cfg.OutputDir,
		"policy", cfg.Policy,
		"profile", cfg.Profile,
		"tile_size", cfg.TileSize)

	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal(err)
	}
}
