// Package pipeline sequences extraction, selection, packing and output per
// input file, fanning files out over a bounded worker pool.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/visualscout/visualscout/internal/extractor"
	"github.com/visualscout/visualscout/internal/frame"
	"github.com/visualscout/visualscout/internal/grid"
	"github.com/visualscout/visualscout/internal/selector"
	"github.com/visualscout/visualscout/internal/similarity"
	"github.com/visualscout/visualscout/internal/storage"
)

// Options fix the per-file processing parameters.
type Options struct {
	Policy   selector.Policy
	Profile  similarity.Profile
	TileSize int
	Workers  int
}

// Result is the isolated outcome for one input file. A failed file carries
// its error here instead of aborting siblings.
type Result struct {
	Source       string
	Candidates   int
	Retained     int
	GridPaths    []string
	ManifestPath string
	Err          error
}

// Source yields candidate frames for a media file. *extractor.Extractor is
// the production implementation.
type Source interface {
	Extract(path string) (frame.Sequence, error)
}

// Runner owns one pipeline configuration and runs it over input directories.
type Runner struct {
	opts   Options
	source Source
	store  storage.Store
	logger *slog.Logger
}

func NewRunner(opts Options, source Source, store storage.Store, logger *slog.Logger) *Runner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{opts: opts, source: source, store: store, logger: logger}
}

// Run processes every supported media file in inputDir. The returned results
// are ordered by source path, one entry per file, failures included.
func (r *Runner) Run(ctx context.Context, inputDir string) ([]Result, error) {
	files, err := extractor.ListMedia(inputDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		r.logger.Info("no supported media files found", "dir", inputDir)
		return nil, nil
	}

	r.logger.Info("processing media files",
		"dir", inputDir, "files", len(files), "workers", r.opts.Workers,
		"policy", r.opts.Policy, "profile", r.opts.Profile, "tile_size", r.opts.TileSize)

	work := make(chan int)
	results := make([]Result, len(files))

	var wg sync.WaitGroup
	for w := 0; w < r.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				results[i] = r.processFile(ctx, files[i])
			}
		}()
	}

	for i := range files {
		select {
		case <-ctx.Done():
			close(work)
			wg.Wait()
			return results, ctx.Err()
		case work <- i:
		}
	}
	close(work)
	wg.Wait()

	return results, nil
}

// processFile runs the full per-file pipeline: extract, select, pack, write.
func (r *Runner) processFile(ctx context.Context, path string) Result {
	res := Result{Source: path}
	log := r.logger.With("source", path)

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	candidates, err := r.source.Extract(path)
	if err != nil {
		log.Error("frame extraction failed", "error", err)
		res.Err = err
		return res
	}
	res.Candidates = len(candidates)

	retained := selector.Select(candidates, r.opts.Policy, r.opts.Profile)
	res.Retained = len(retained)
	log.Info("frames selected",
		"candidates", len(candidates), "retained", len(retained))

	grids, err := grid.Pack(path, retained, r.opts.TileSize)
	if err != nil {
		// No partial output for this file.
		res.Err = fmt.Errorf("packing %s: %w", path, err)
		return res
	}

	paths := make([]string, 0, len(grids))
	for _, g := range grids {
		p, err := r.store.SaveGrid(path, g)
		if err != nil {
			log.Error("failed to write grid", "index", g.Index, "error", err)
			res.Err = err
			return res
		}
		paths = append(paths, p)
	}
	res.GridPaths = paths

	if len(grids) > 0 {
		manifestPath, err := r.store.SaveManifest(path, grid.NewManifest(path, grids, paths))
		if err != nil {
			log.Error("failed to write manifest", "error", err)
			res.Err = err
			return res
		}
		res.ManifestPath = manifestPath
	}

	log.Info("grids written", "count", len(grids))
	return res
}
