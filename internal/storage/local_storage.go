package storage

import (
	"encoding/json"
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	"github.com/visualscout/visualscout/internal/grid"
)

const jpegQuality = 85

// LocalStorage writes grid images and manifests under a base directory,
// one subdirectory per source file: <base>/<name>_<ext>__grids/.
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// GridDir returns the directory that holds all grids for a source file.
func (ls *LocalStorage) GridDir(source string) string {
	return filepath.Join(ls.basePath, sourceName(source)+"__grids")
}

// SaveGrid renders the grid and writes it as a JPEG, returning the full path.
func (ls *LocalStorage) SaveGrid(source string, g grid.Grid) (string, error) {
	dir := ls.GridDir(source)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create grid directory: %w", err)
	}

	fullPath := filepath.Join(dir, g.Filename())
	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create grid file: %w", err)
	}
	defer dst.Close()

	if err := jpeg.Encode(dst, g.Render(), &jpeg.Options{Quality: jpegQuality}); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to encode grid: %w", err)
	}

	return fullPath, nil
}

// SaveManifest writes the sidecar manifest next to the source's grids.
func (ls *LocalStorage) SaveManifest(source string, m grid.Manifest) (string, error) {
	dir := ls.GridDir(source)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create grid directory: %w", err)
	}

	fullPath := filepath.Join(dir, "manifest.json")
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save manifest: %w", err)
	}

	return fullPath, nil
}

// BasePath returns the root output directory.
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// sourceName reduces a source path to a safe directory stem. The extension is
// folded in so sources differing only by container (a.mp4, a.gif) never share
// an output directory.
func sourceName(source string) string {
	base := filepath.Base(source)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	if ext != "" {
		name += "_" + strings.TrimPrefix(ext, ".")
	}
	if name == "" || strings.Contains(name, "..") {
		name = "source"
	}
	return name
}
