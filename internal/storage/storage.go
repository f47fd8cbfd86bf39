package storage

import "github.com/visualscout/visualscout/internal/grid"

// Store writes rendered grids and their manifests to durable storage and
// returns the path each artifact landed at.
type Store interface {
	SaveGrid(source string, g grid.Grid) (string, error)
	SaveManifest(source string, m grid.Manifest) (string, error)
	GridDir(source string) string
}
