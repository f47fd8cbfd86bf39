package grid

// Manifest is the sidecar record written next to a source file's grids. The
// labeling step reads it to map collage cells back to timestamps.
type Manifest struct {
	Source string          `json:"source"`
	Grids  []ManifestEntry `json:"grids"`
}

// ManifestEntry describes one written grid image.
type ManifestEntry struct {
	Index      int       `json:"index"`
	TileSize   int       `json:"tile_size"`
	Timestamps []float64 `json:"timestamps"`
	Path       string    `json:"path"`
}

// NewManifest builds the manifest for a source file's grids, with paths as
// recorded by the store that wrote them.
func NewManifest(source string, grids []Grid, paths []string) Manifest {
	m := Manifest{Source: source, Grids: make([]ManifestEntry, 0, len(grids))}
	for i, g := range grids {
		m.Grids = append(m.Grids, ManifestEntry{
			Index:      g.Index,
			TileSize:   g.TileSize,
			Timestamps: g.Timestamps(),
			Path:       paths[i],
		})
	}
	return m
}
